package engine

import (
	"github.com/google/btree"

	"github.com/obooklabs/matchbook/internal/domain"
)

// bookEntry represents a single order resting on one side of the book.
// Seq is an engine-assigned arrival sequence number: it is the FIFO
// tiebreak within a price level. Timestamps are deliberately not part
// of the ordering — concurrent submissions may share a timestamp, and
// time priority means arrival order, not clock order.
type bookEntry struct {
	Price int64
	Seq   uint64
	Order *domain.Order
}

// PriceLevel is an aggregated price level in a book snapshot.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int
}

// bidLess defines ordering for the bid side: price descending, then
// arrival sequence ascending. Min() returns the best bid (highest
// price, earliest arrival).
func bidLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	return a.Seq < b.Seq
}

// askLess defines ordering for the ask side: price ascending, then
// arrival sequence ascending. Min() returns the best ask (lowest
// price, earliest arrival).
func askLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	return a.Seq < b.Seq
}

// ladder is one side of the order book: a B-tree of resting orders
// whose ordering function encodes price-time priority for that side.
// Empty price levels cannot exist by construction — a level is just
// the set of entries sharing a price, and entries are removed the
// moment their order fills or is cancelled.
//
// ladder is not thread-safe. All access is funneled through the
// matching engine's critical section.
type ladder struct {
	tree *btree.BTreeG[bookEntry]
}

func newLadder(less func(a, b bookEntry) bool) *ladder {
	const degree = 32
	return &ladder{tree: btree.NewG[bookEntry](degree, less)}
}

// insert adds an entry to the ladder. The entry joins the tail of its
// price level's queue because its Seq is greater than that of every
// entry already resting.
func (l *ladder) insert(e bookEntry) {
	l.tree.ReplaceOrInsert(e)
}

// best returns the highest-priority entry without removing it.
func (l *ladder) best() (bookEntry, bool) {
	return l.tree.Min()
}

// remove deletes a specific entry from the ladder.
func (l *ladder) remove(e bookEntry) {
	l.tree.Delete(e)
}

// size returns the number of individual resting orders on this side.
func (l *ladder) size() int {
	return l.tree.Len()
}

// levels iterates the ladder in priority order and aggregates entries
// into at most n price levels. n <= 0 means no limit.
func (l *ladder) levels(n int) []PriceLevel {
	out := make([]PriceLevel, 0)
	l.tree.Ascend(func(e bookEntry) bool {
		if len(out) > 0 && out[len(out)-1].Price == e.Price {
			out[len(out)-1].TotalQuantity += e.Order.RemainingQuantity
			out[len(out)-1].OrderCount++
			return true
		}
		if n > 0 && len(out) >= n {
			return false
		}
		out = append(out, PriceLevel{
			Price:         e.Price,
			TotalQuantity: e.Order.RemainingQuantity,
			OrderCount:    1,
		})
		return true
	})
	return out
}
