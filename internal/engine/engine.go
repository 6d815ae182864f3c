package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/obooklabs/matchbook/internal/domain"
	"github.com/obooklabs/matchbook/internal/store"
)

// BestPrices holds the best price on each side of the book. A nil
// price means that side is empty.
type BestPrices struct {
	BestBid *int64
	BestAsk *int64
}

// BookSnapshot is a consistent view of both sides of the book,
// aggregated into price levels in priority order.
type BookSnapshot struct {
	Bids []PriceLevel
	Asks []PriceLevel
}

// Engine is the matching engine for a single instrument. It owns both
// price ladders, the order index, the trade log, and the trade-id
// counter; all of them are mutated only inside the engine's critical
// section. Every operation — submit, cancel, and the consistent read
// queries — takes the same exclusive lock, so each one executes as a
// single atomic unit with respect to the others.
type Engine struct {
	mu    sync.Mutex
	bids  *ladder
	asks  *ladder
	index map[string]bookEntry // order_id → resting entry
	log   *store.TradeLog

	nextTradeID int64
	nextSeq     uint64
}

// New creates an Engine that appends executed trades to log.
func New(log *store.TradeLog) *Engine {
	return &Engine{
		bids:  newLadder(bidLess),
		asks:  newLadder(askLess),
		index: make(map[string]bookEntry),
		log:   log,
		// Trade ids start at 1 and are never reused.
		nextTradeID: 1,
	}
}

// Submit runs an incoming limit order through the matching engine.
// It matches the order against the opposite side under price-time
// priority, executing each fill at the resting order's price, and
// rests any unfilled remainder on the order's own side of the book.
// It returns the trades executed by this call, in execution order.
//
// The caller must provide OrderID, Side, Price, Quantity, and
// SubmittedAt. Preconditions are checked before any state changes:
// an invalid side, non-positive price or quantity, or an order id
// already resting on the book rejects the order with no mutation.
func (e *Engine) Submit(order *domain.Order) ([]*domain.Trade, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.validate(order); err != nil {
		return nil, err
	}

	order.RemainingQuantity = order.Quantity

	var own, opp *ladder
	if order.Side == domain.OrderSideBuy {
		own, opp = e.bids, e.asks
	} else {
		own, opp = e.asks, e.bids
	}

	executedAt := time.Now()
	var trades []*domain.Trade

	for order.RemainingQuantity > 0 {
		best, found := opp.best()
		if !found {
			break
		}

		// Crossing test. The ladder is sorted, so once the best
		// opposite price fails, no deeper level can cross either.
		if order.Side == domain.OrderSideBuy {
			if order.Price < best.Price {
				break
			}
		} else {
			if order.Price > best.Price {
				break
			}
		}

		resting := best.Order

		fillQty := order.RemainingQuantity
		if resting.RemainingQuantity < fillQty {
			fillQty = resting.RemainingQuantity
		}
		if fillQty <= 0 {
			panic(fmt.Sprintf("matchbook: zero-quantity order %s resting on book", resting.OrderID))
		}

		order.RemainingQuantity -= fillQty
		resting.RemainingQuantity -= fillQty
		if order.RemainingQuantity < 0 || resting.RemainingQuantity < 0 {
			panic(fmt.Sprintf("matchbook: negative remaining quantity after fill of %d", fillQty))
		}

		buyID, sellID := order.OrderID, resting.OrderID
		if order.Side == domain.OrderSideSell {
			buyID, sellID = resting.OrderID, order.OrderID
		}

		trade := &domain.Trade{
			TradeID:     e.nextTradeID,
			BuyOrderID:  buyID,
			SellOrderID: sellID,
			// Execution price is always the resting order's price.
			Price:      best.Price,
			Quantity:   fillQty,
			ExecutedAt: executedAt,
		}
		e.nextTradeID++

		trades = append(trades, trade)
		e.log.Append(trade)

		// A fully consumed resting order leaves the ladder and the
		// index in the same step.
		if resting.RemainingQuantity == 0 {
			opp.remove(best)
			delete(e.index, resting.OrderID)
		}
	}

	if order.RemainingQuantity > 0 {
		entry := bookEntry{
			Price: order.Price,
			Seq:   e.nextSeq,
			Order: order,
		}
		e.nextSeq++
		own.insert(entry)
		e.index[order.OrderID] = entry
	}

	return trades, nil
}

// Cancel removes a resting order from the book. It returns true when
// an order was found and removed, false when the id is unknown — for
// example because the order was already fully filled or cancelled.
// Removal from the ladder and the index happens in one atomic step.
func (e *Engine) Cancel(orderID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.index[orderID]
	if !ok {
		return false
	}

	if entry.Order.Side == domain.OrderSideBuy {
		e.bids.remove(entry)
	} else {
		e.asks.remove(entry)
	}
	delete(e.index, orderID)
	return true
}

// BestPrices returns the best bid and best ask as of a single
// consistent snapshot.
func (e *Engine) BestPrices() BestPrices {
	e.mu.Lock()
	defer e.mu.Unlock()

	var bp BestPrices
	if best, ok := e.bids.best(); ok {
		p := best.Price
		bp.BestBid = &p
	}
	if best, ok := e.asks.best(); ok {
		p := best.Price
		bp.BestAsk = &p
	}
	return bp
}

// Snapshot returns up to depth aggregated price levels per side, in
// priority order (bids high to low, asks low to high). depth <= 0
// returns the full book.
func (e *Engine) Snapshot(depth int) BookSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return BookSnapshot{
		Bids: e.bids.levels(depth),
		Asks: e.asks.levels(depth),
	}
}

// Trades returns the full trade log in execution order. The result is
// a copy; it never aliases the engine's internal storage.
func (e *Engine) Trades() []*domain.Trade {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.log.All()
}

// BidCount returns the number of individual resting buy orders.
func (e *Engine) BidCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.bids.size()
}

// AskCount returns the number of individual resting sell orders.
func (e *Engine) AskCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.asks.size()
}

// validate checks the submission preconditions. Called with the lock held so
// the duplicate-id check and the eventual insert are one atomic step.
func (e *Engine) validate(order *domain.Order) error {
	if order.OrderID == "" {
		return &domain.ValidationError{Message: "order_id must not be empty"}
	}
	if !order.Side.Valid() {
		return &domain.ValidationError{Message: "side must be 'buy' or 'sell'"}
	}
	if order.Price <= 0 {
		return &domain.ValidationError{Message: "price must be positive"}
	}
	if order.Quantity <= 0 {
		return &domain.ValidationError{Message: "quantity must be a positive integer"}
	}
	if _, ok := e.index[order.OrderID]; ok {
		return domain.ErrOrderExists
	}
	return nil
}
