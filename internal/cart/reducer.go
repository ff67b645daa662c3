package cart

import "mayorista-bff/internal/domain"

// ActionType enumerates every cart transition. The vocabulary is closed:
// anything else is a no-op.
type ActionType string

const (
	ActionAddItem    ActionType = "ADD_ITEM"
	ActionIncrease   ActionType = "INCREASE"
	ActionDecrease   ActionType = "DECREASE"
	ActionSetQty     ActionType = "SET_QTY"
	ActionRemove     ActionType = "REMOVE"
	ActionClear      ActionType = "CLEAR"
	ActionSyncStocks ActionType = "SYNC_STOCKS"
)

// ItemInput is the catalog-shaped payload of ADD_ITEM. Price is a pointer so
// a merge can tell "not supplied, keep the existing price" apart from an
// explicit zero.
type ItemInput struct {
	ID    string
	Name  string
	Price *float64
	Stock float64
}

// StockUpdate is one entry of a SYNC_STOCKS payload.
type StockUpdate struct {
	ID    string
	Stock float64
	Price *float64
}

// Action is the tagged-variant input of Reduce. Only the fields relevant to
// the Type are read.
type Action struct {
	Type   ActionType
	Item   ItemInput     // ADD_ITEM
	Qty    float64       // ADD_ITEM, SET_QTY
	ID     string        // INCREASE, DECREASE, SET_QTY, REMOVE
	Stocks []StockUpdate // SYNC_STOCKS
}

// Initial returns the empty cart state.
func Initial() domain.Cart {
	return domain.Cart{Items: []domain.CartLine{}}
}

// ItemFromProduct builds an ADD_ITEM payload from a catalog record.
func ItemFromProduct(p domain.Product) ItemInput {
	price := p.UnitPrice
	return ItemInput{
		ID:    p.ID,
		Name:  p.Name,
		Price: &price,
		Stock: float64(p.Stock),
	}
}

// Reduce applies an action to a cart state and returns the next state. It is
// pure: the input state is never mutated, every transition builds fresh item
// slices. Quantity mutations all funnel through Clamp, so no code path can
// leave a line outside [1, stock].
func Reduce(state domain.Cart, action Action) domain.Cart {
	switch action.Type {
	case ActionAddItem:
		return reduceAddItem(state, action)

	case ActionIncrease:
		next := make([]domain.CartLine, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID == action.ID {
				it.Quantity = Clamp(it.Quantity+1, 1, it.Stock)
			}
			next = append(next, it)
		}
		return domain.Cart{Items: next}

	case ActionDecrease:
		// Decreasing from quantity 1 deletes the line, it does not floor
		// at 1. This is the only path to a zero quantity.
		next := make([]domain.CartLine, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID == action.ID {
				it.Quantity--
			}
			if it.Quantity > 0 {
				next = append(next, it)
			}
		}
		return domain.Cart{Items: next}

	case ActionSetQty:
		next := make([]domain.CartLine, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID == action.ID {
				qty := ToInteger(action.Qty)
				if qty == 0 {
					qty = 1
				}
				it.Quantity = Clamp(qty, 1, it.Stock)
			}
			next = append(next, it)
		}
		return domain.Cart{Items: next}

	case ActionRemove:
		next := make([]domain.CartLine, 0, len(state.Items))
		for _, it := range state.Items {
			if it.ID != action.ID {
				next = append(next, it)
			}
		}
		return domain.Cart{Items: next}

	case ActionClear:
		return Initial()

	case ActionSyncStocks:
		return reduceSyncStocks(state, action)

	default:
		return state
	}
}

func reduceAddItem(state domain.Cart, action Action) domain.Cart {
	stock := ToInteger(action.Item.Stock)
	if action.Item.ID == "" || stock <= 0 {
		return state
	}

	addQty := ToInteger(action.Qty)
	if addQty == 0 {
		addQty = 1
	}
	addQty = Clamp(addQty, 1, stock)

	for i, it := range state.Items {
		if it.ID != action.Item.ID {
			continue
		}
		// Already in the cart: merge quantities against the fresh stock
		// and take the fresh price when the payload carries one.
		price := it.UnitPrice
		if action.Item.Price != nil {
			price = ToMoney(*action.Item.Price)
		}
		next := make([]domain.CartLine, len(state.Items))
		copy(next, state.Items)
		next[i] = domain.CartLine{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: price,
			Stock:     stock,
			Quantity:  Clamp(it.Quantity+addQty, 1, stock),
		}
		return domain.Cart{Items: next}
	}

	name := action.Item.Name
	if name == "" {
		name = "Producto"
	}
	price := 0.0
	if action.Item.Price != nil {
		price = ToMoney(*action.Item.Price)
	}
	next := make([]domain.CartLine, 0, len(state.Items)+1)
	next = append(next, state.Items...)
	next = append(next, domain.CartLine{
		ID:        action.Item.ID,
		Name:      name,
		UnitPrice: price,
		Stock:     stock,
		Quantity:  addQty,
	})
	return domain.Cart{Items: next}
}

func reduceSyncStocks(state domain.Cart, action Action) domain.Cart {
	updates := make(map[string]StockUpdate, len(action.Stocks))
	for _, u := range action.Stocks {
		updates[u.ID] = u
	}

	next := make([]domain.CartLine, 0, len(state.Items))
	for _, it := range state.Items {
		u, ok := updates[it.ID]
		if !ok {
			next = append(next, it)
			continue
		}
		stock := ToInteger(u.Stock)
		price := it.UnitPrice
		if u.Price != nil {
			price = ToMoney(*u.Price)
		}
		qty := 0
		if stock > 0 {
			qty = Clamp(it.Quantity, 1, stock)
		}
		// A product gone out of stock is silently evicted.
		if qty <= 0 || stock <= 0 {
			continue
		}
		next = append(next, domain.CartLine{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: price,
			Stock:     stock,
			Quantity:  qty,
		})
	}
	return domain.Cart{Items: next}
}
