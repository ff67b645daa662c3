package cart

import (
	"context"
	"io"
	"log"
	"sync"

	"mayorista-bff/internal/cartstore"
	"mayorista-bff/internal/domain"
)

// Facade is the stable surface presentation code talks to: one method per
// action plus the derived read accessors. It owns the state exclusively,
// every mutation goes through Reduce under a single writer lock, and every
// transition is handed to the async saver.
type Facade struct {
	mu    sync.Mutex
	state domain.Cart
	saver *saver
}

// NewFacade restores the persisted cart for key (empty on any corruption)
// and starts its persistence writer.
func NewFacade(store cartstore.Store, key string, logger *log.Logger) *Facade {
	adapter := NewAdapter(store, key, logger)
	return &Facade{
		state: adapter.Load(context.Background()),
		saver: newSaver(adapter),
	}
}

// AddItem puts qty units of item in the cart, merging into an existing line.
func (f *Facade) AddItem(item ItemInput, qty float64) {
	f.dispatch(Action{Type: ActionAddItem, Item: item, Qty: qty})
}

// AddProduct is AddItem fed straight from a catalog record.
func (f *Facade) AddProduct(p domain.Product, qty float64) {
	f.dispatch(Action{Type: ActionAddItem, Item: ItemFromProduct(p), Qty: qty})
}

func (f *Facade) Increase(id string) {
	f.dispatch(Action{Type: ActionIncrease, ID: id})
}

func (f *Facade) Decrease(id string) {
	f.dispatch(Action{Type: ActionDecrease, ID: id})
}

func (f *Facade) SetQty(id string, qty float64) {
	f.dispatch(Action{Type: ActionSetQty, ID: id, Qty: qty})
}

func (f *Facade) Remove(id string) {
	f.dispatch(Action{Type: ActionRemove, ID: id})
}

func (f *Facade) Clear() {
	f.dispatch(Action{Type: ActionClear})
}

func (f *Facade) SyncStocks(updates []StockUpdate) {
	f.dispatch(Action{Type: ActionSyncStocks, Stocks: updates})
}

// SyncFromProducts reconciles the cart against freshly fetched catalog data.
func (f *Facade) SyncFromProducts(products []domain.Product) {
	updates := make([]StockUpdate, 0, len(products))
	for _, p := range products {
		price := p.UnitPrice
		updates = append(updates, StockUpdate{ID: p.ID, Stock: float64(p.Stock), Price: &price})
	}
	f.SyncStocks(updates)
}

// Items returns a copy of the current line items in insertion order.
func (f *Facade) Items() []domain.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.CartLine, len(f.state.Items))
	copy(items, f.state.Items)
	return items
}

func (f *Facade) TotalItemCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return TotalItemCount(f.state)
}

func (f *Facade) TotalAmount() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return TotalAmount(f.state)
}

// Close flushes any pending write and stops the persistence writer.
func (f *Facade) Close() {
	f.saver.close()
}

func (f *Facade) dispatch(action Action) {
	f.mu.Lock()
	f.state = Reduce(f.state, action)
	// Enqueue before releasing the lock so states reach the saver in
	// reduce order; a handoff outside the lock can let an older state
	// overwrite a newer pending one.
	f.saver.enqueue(f.state)
	f.mu.Unlock()
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
