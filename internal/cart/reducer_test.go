package cart

import (
	"math"
	"testing"

	"mayorista-bff/internal/domain"
)

func floatPtr(v float64) *float64 {
	return &v
}

func addAction(id string, price float64, stock, qty float64) Action {
	return Action{
		Type: ActionAddItem,
		Item: ItemInput{ID: id, Name: "Item " + id, Price: floatPtr(price), Stock: stock},
		Qty:  qty,
	}
}

// checkInvariants asserts the data-model invariants that must hold after
// every transition: quantities inside [1, stock], unique ids, finite
// non-negative stock.
func checkInvariants(t *testing.T, state domain.Cart) {
	t.Helper()
	seen := make(map[string]bool)
	for _, it := range state.Items {
		if it.Quantity < 1 || it.Quantity > it.Stock {
			t.Fatalf("line %q violates 1 <= qty <= stock: qty=%d stock=%d", it.ID, it.Quantity, it.Stock)
		}
		if seen[it.ID] {
			t.Fatalf("duplicate line id %q", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestAddItemNewLine(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 2))
	if len(state.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(state.Items))
	}
	it := state.Items[0]
	if it.ID != "A" || it.Quantity != 2 || it.Stock != 5 || it.UnitPrice != 100 {
		t.Fatalf("unexpected line %+v", it)
	}
	checkInvariants(t, state)
}

func TestAddItemMergesQuantities(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, addAction("A", 100, 5, 1))
	if len(state.Items) != 1 {
		t.Fatalf("expected merged line, got %d lines", len(state.Items))
	}
	if state.Items[0].Quantity != 2 {
		t.Fatalf("expected qty 2, got %d", state.Items[0].Quantity)
	}
	checkInvariants(t, state)
}

func TestAddItemStockCeiling(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 3, 10))
	if state.Items[0].Quantity != 3 {
		t.Fatalf("expected qty clamped to 3, got %d", state.Items[0].Quantity)
	}
	checkInvariants(t, state)
}

func TestAddItemMergeRespectsFreshStock(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 10, 8))
	// Same product re-added with a smaller stock figure: the merge clamps
	// against the fresh ceiling, not the stale one.
	state = Reduce(state, addAction("A", 120, 4, 1))
	it := state.Items[0]
	if it.Stock != 4 || it.Quantity != 4 || it.UnitPrice != 120 {
		t.Fatalf("unexpected line after merge %+v", it)
	}
	checkInvariants(t, state)
}

func TestAddItemMergeKeepsPriceWhenAbsent(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, Action{
		Type: ActionAddItem,
		Item: ItemInput{ID: "A", Stock: 5},
		Qty:  1,
	})
	if state.Items[0].UnitPrice != 100 {
		t.Fatalf("expected price kept at 100, got %v", state.Items[0].UnitPrice)
	}
}

func TestAddItemRejectsMissingID(t *testing.T) {
	before := Reduce(Initial(), addAction("A", 100, 5, 1))
	after := Reduce(before, addAction("", 50, 5, 1))
	if len(after.Items) != 1 || after.Items[0].ID != "A" {
		t.Fatalf("expected unchanged state, got %+v", after.Items)
	}
}

func TestAddItemRejectsZeroStock(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 0, 1))
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}
}

func TestAddItemRejectsNegativeStock(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, -4, 1))
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}
}

func TestAddItemZeroQtyMeansOne(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 0))
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected qty 1, got %d", state.Items[0].Quantity)
	}
}

func TestAddItemNaNQtyMeansOne(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, math.NaN()))
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected qty 1, got %d", state.Items[0].Quantity)
	}
}

func TestAddItemDefaultsName(t *testing.T) {
	state := Reduce(Initial(), Action{
		Type: ActionAddItem,
		Item: ItemInput{ID: "A", Stock: 5},
	})
	if state.Items[0].Name != "Producto" {
		t.Fatalf("expected placeholder name, got %q", state.Items[0].Name)
	}
}

func TestIncreaseStopsAtStock(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 2, 1))
	state = Reduce(state, Action{Type: ActionIncrease, ID: "A"})
	state = Reduce(state, Action{Type: ActionIncrease, ID: "A"})
	if state.Items[0].Quantity != 2 {
		t.Fatalf("expected qty capped at 2, got %d", state.Items[0].Quantity)
	}
	checkInvariants(t, state)
}

func TestIncreaseUnknownIDNoop(t *testing.T) {
	before := Reduce(Initial(), addAction("A", 100, 5, 1))
	after := Reduce(before, Action{Type: ActionIncrease, ID: "nope"})
	if after.Items[0].Quantity != 1 {
		t.Fatalf("expected untouched qty, got %d", after.Items[0].Quantity)
	}
}

func TestDecreaseToZeroRemovesLine(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, Action{Type: ActionDecrease, ID: "A"})
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}
}

func TestDecreaseLeavesOtherLines(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, addAction("B", 50, 5, 3))
	state = Reduce(state, Action{Type: ActionDecrease, ID: "B"})
	if len(state.Items) != 2 || state.Items[1].Quantity != 2 {
		t.Fatalf("unexpected state %+v", state.Items)
	}
	checkInvariants(t, state)
}

func TestSetQtyClamps(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, Action{Type: ActionSetQty, ID: "A", Qty: 99})
	if state.Items[0].Quantity != 5 {
		t.Fatalf("expected qty 5, got %d", state.Items[0].Quantity)
	}
	state = Reduce(state, Action{Type: ActionSetQty, ID: "A", Qty: 0})
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected qty 1 for zero input, got %d", state.Items[0].Quantity)
	}
	state = Reduce(state, Action{Type: ActionSetQty, ID: "A", Qty: -7})
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected qty 1 for negative input, got %d", state.Items[0].Quantity)
	}
	checkInvariants(t, state)
}

func TestRemove(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, addAction("B", 50, 5, 1))
	state = Reduce(state, Action{Type: ActionRemove, ID: "A"})
	if len(state.Items) != 1 || state.Items[0].ID != "B" {
		t.Fatalf("unexpected state %+v", state.Items)
	}
}

func TestClear(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 1))
	state = Reduce(state, Action{Type: ActionClear})
	if len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}
	if state.Items == nil {
		t.Fatalf("expected non-nil items after clear")
	}
}

func TestSyncStocksEvictsOutOfStock(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 2))
	state = Reduce(state, Action{
		Type:   ActionSyncStocks,
		Stocks: []StockUpdate{{ID: "A", Stock: 0}},
	})
	if len(state.Items) != 0 {
		t.Fatalf("expected eviction, got %+v", state.Items)
	}
}

func TestSyncStocksReclamps(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 10, 8))
	state = Reduce(state, Action{
		Type:   ActionSyncStocks,
		Stocks: []StockUpdate{{ID: "A", Stock: 3}},
	})
	it := state.Items[0]
	if it.Quantity != 3 || it.Stock != 3 {
		t.Fatalf("expected re-clamped line, got %+v", it)
	}
	checkInvariants(t, state)
}

func TestSyncStocksUpdatesPrice(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 2))
	state = Reduce(state, Action{
		Type:   ActionSyncStocks,
		Stocks: []StockUpdate{{ID: "A", Stock: 5, Price: floatPtr(80)}},
	})
	if state.Items[0].UnitPrice != 80 {
		t.Fatalf("expected price 80, got %v", state.Items[0].UnitPrice)
	}
}

func TestSyncStocksLeavesAbsentLinesAlone(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 2))
	state = Reduce(state, addAction("B", 50, 5, 1))
	state = Reduce(state, Action{
		Type:   ActionSyncStocks,
		Stocks: []StockUpdate{{ID: "A", Stock: 1}},
	})
	if len(state.Items) != 2 {
		t.Fatalf("expected both lines, got %+v", state.Items)
	}
	if state.Items[0].Quantity != 1 {
		t.Fatalf("expected A re-clamped to 1, got %d", state.Items[0].Quantity)
	}
	if state.Items[1].Quantity != 1 || state.Items[1].Stock != 5 {
		t.Fatalf("expected B untouched, got %+v", state.Items[1])
	}
	checkInvariants(t, state)
}

func TestSyncStocksNegativeStockEvicts(t *testing.T) {
	state := Reduce(Initial(), addAction("A", 100, 5, 2))
	state = Reduce(state, Action{
		Type:   ActionSyncStocks,
		Stocks: []StockUpdate{{ID: "A", Stock: -2}},
	})
	if len(state.Items) != 0 {
		t.Fatalf("expected eviction on negative stock, got %+v", state.Items)
	}
}

func TestUnknownActionIsNoop(t *testing.T) {
	before := Reduce(Initial(), addAction("A", 100, 5, 2))
	after := Reduce(before, Action{Type: ActionType("SOMETHING_ELSE")})
	if len(after.Items) != 1 || after.Items[0] != before.Items[0] {
		t.Fatalf("expected unchanged state, got %+v", after.Items)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(Initial(), addAction("A", 100, 5, 2))
	snapshot := before.Items[0]

	Reduce(before, Action{Type: ActionIncrease, ID: "A"})
	Reduce(before, Action{Type: ActionSetQty, ID: "A", Qty: 5})
	Reduce(before, Action{Type: ActionSyncStocks, Stocks: []StockUpdate{{ID: "A", Stock: 1}}})
	Reduce(before, addAction("A", 9, 9, 9))

	if before.Items[0] != snapshot {
		t.Fatalf("input state mutated: %+v", before.Items[0])
	}
}
