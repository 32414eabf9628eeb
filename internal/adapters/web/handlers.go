package web

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"vendtrack/internal/app"
)

// maxUploadBytes bounds multipart CSV uploads.
const maxUploadBytes = 10 << 20

// Handler carries the application service and serves the HTTP API.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
}

// NewHandler wires the full route table and returns the root http.Handler.
// allowedOrigins is the comma-separated ALLOWED_ORIGINS value.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	r.Get("/api/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20))
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		r.Post("/api/upload", h.upload)
		r.Post("/api/upload/preview", h.preview)

		r.Get("/api/uploads", h.listUploads)
		r.Get("/api/uploads/{id}", h.getUpload)

		r.Get("/api/sales", h.listSales)
		r.Get("/api/inventory", h.listInventory)
		r.Get("/api/summary", h.summary)

		r.Post("/api/admin/clear-tables", h.clearTables)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid request body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// readUploadFile extracts the "file" part from a multipart upload request.
func readUploadFile(w http.ResponseWriter, r *http.Request) (io.Reader, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, "file too large or malformed upload", "BAD_REQUEST", http.StatusBadRequest)
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, "missing file field", "BAD_REQUEST", http.StatusBadRequest)
		return nil, "", false
	}
	return file, header.Filename, true
}

// upload handles POST /api/upload: full CSV ingestion.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := readUploadFile(w, r)
	if !ok {
		return
	}
	if c, ok := file.(io.Closer); ok {
		defer c.Close()
	}

	claims := authFromContext(r.Context())
	result, err := h.svc.UploadCSV(r.Context(), filename, file, claims.UserID)
	if err != nil {
		log.Printf("upload failed: %v", err)
		writePipelineError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"success":  true,
		"uploadId": result.UploadID,
		"stats":    result.Stats,
		"preview":  result.Preview,
	})
}

// preview handles POST /api/upload/preview: parse and validate without persisting.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	file, _, ok := readUploadFile(w, r)
	if !ok {
		return
	}
	if c, ok := file.(io.Closer); ok {
		defer c.Close()
	}

	result, err := h.svc.PreviewCSV(r.Context(), file)
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"preview":     result.Preview,
		"validRows":   result.ValidRows,
		"invalidRows": result.InvalidRows,
	})
}

func (h *Handler) listUploads(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListUploads(r.Context(), queryLimit(r, 50))
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, result.Uploads)
}

func (h *Handler) getUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.svc.GetUpload(r.Context(), id)
	if err != nil {
		writeError(w, r, "upload not found", "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, result.Upload)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSales(r.Context(), queryLimit(r, 100))
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, result.Sales)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInventory(r.Context())
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, result.Records)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSummary(r.Context())
	if err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, result.Summary)
}

// clearTables handles POST /api/admin/clear-tables. Admin only.
func (h *Handler) clearTables(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil || !strings.EqualFold(claims.Role, "admin") {
		writeError(w, r, "admin role required", "FORBIDDEN", http.StatusForbidden)
		return
	}
	if err := h.svc.ClearTables(r.Context()); err != nil {
		writePipelineError(w, r, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
