package core_test

import (
	"testing"

	"vendtrack/internal/core"
	"vendtrack/internal/csvproc"
)

// N transactions across K distinct (location, product) pairs must collapse to
// exactly K groups — never more.
func TestGroupSales_OneGroupPerPair(t *testing.T) {
	batch := []csvproc.Transaction{
		txFor("sw_02", "889392014"),
		txFor("sw_02", "889392014"),
		txFor("sw_02", "889392015"),
		txFor("ne_01", "889392014"),
		txFor("sw_02", "889392014"),
	}

	groups := core.GroupSales(batch)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %v", len(groups), groups)
	}

	// First-occurrence order, one unit per transaction.
	want := []core.SaleGroup{
		{LocationCode: "sw_02", UPCCode: "889392014", UnitsSold: 3},
		{LocationCode: "sw_02", UPCCode: "889392015", UnitsSold: 1},
		{LocationCode: "ne_01", UPCCode: "889392014", UnitsSold: 1},
	}
	for i, g := range groups {
		if g != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, g, want[i])
		}
	}
}

func TestGroupSales_Empty(t *testing.T) {
	if groups := core.GroupSales(nil); len(groups) != 0 {
		t.Errorf("expected no groups for empty batch, got %v", groups)
	}
}

func TestGroupSales_SingleSaleScenario(t *testing.T) {
	groups := core.GroupSales([]csvproc.Transaction{txFor("sw_02", "889392014")})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].UnitsSold != 1 {
		t.Errorf("units sold = %d, want 1", groups[0].UnitsSold)
	}
}
