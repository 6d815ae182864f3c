package engine

import (
	"testing"

	"github.com/obooklabs/matchbook/internal/domain"
)

// helper to create a bookEntry with a minimal Order.
func makeEntry(price int64, seq uint64, orderID string, remaining int64) bookEntry {
	return bookEntry{
		Price: price,
		Seq:   seq,
		Order: &domain.Order{
			OrderID:           orderID,
			Price:             price,
			Quantity:          remaining,
			RemainingQuantity: remaining,
		},
	}
}

func TestBidLess_PriceDescending(t *testing.T) {
	a := makeEntry(200, 0, "a", 1)
	b := makeEntry(100, 0, "b", 1)
	// Higher price should come first (be "less" in bid ordering).
	if !bidLess(a, b) {
		t.Error("expected higher price to be less on bid side")
	}
	if bidLess(b, a) {
		t.Error("expected lower price to not be less on bid side")
	}
}

func TestBidLess_SeqAscending(t *testing.T) {
	a := makeEntry(100, 1, "a", 1)
	b := makeEntry(100, 2, "b", 1)
	if !bidLess(a, b) {
		t.Error("expected earlier arrival to be less on bid side at same price")
	}
	if bidLess(b, a) {
		t.Error("expected later arrival to not be less on bid side at same price")
	}
}

func TestAskLess_PriceAscending(t *testing.T) {
	a := makeEntry(100, 0, "a", 1)
	b := makeEntry(200, 0, "b", 1)
	if !askLess(a, b) {
		t.Error("expected lower price to be less on ask side")
	}
	if askLess(b, a) {
		t.Error("expected higher price to not be less on ask side")
	}
}

func TestAskLess_SeqAscending(t *testing.T) {
	a := makeEntry(100, 1, "a", 1)
	b := makeEntry(100, 2, "b", 1)
	if !askLess(a, b) {
		t.Error("expected earlier arrival to be less on ask side at same price")
	}
}

func TestLadder_InsertAndBest_Bids(t *testing.T) {
	l := newLadder(bidLess)
	l.insert(makeEntry(100, 0, "o1", 10))
	l.insert(makeEntry(200, 1, "o2", 5))

	best, ok := l.best()
	if !ok {
		t.Fatal("expected best bid to exist")
	}
	if best.Order.OrderID != "o2" {
		t.Errorf("expected best bid o2 (price 200), got %s (price %d)", best.Order.OrderID, best.Price)
	}
}

func TestLadder_InsertAndBest_Asks(t *testing.T) {
	l := newLadder(askLess)
	l.insert(makeEntry(200, 0, "o1", 10))
	l.insert(makeEntry(100, 1, "o2", 5))

	best, ok := l.best()
	if !ok {
		t.Fatal("expected best ask to exist")
	}
	if best.Order.OrderID != "o2" {
		t.Errorf("expected best ask o2 (price 100), got %s (price %d)", best.Order.OrderID, best.Price)
	}
}

func TestLadder_EmptyBest(t *testing.T) {
	l := newLadder(bidLess)
	if _, ok := l.best(); ok {
		t.Error("expected no best entry on empty ladder")
	}
}

func TestLadder_Remove(t *testing.T) {
	l := newLadder(askLess)
	e1 := makeEntry(100, 0, "o1", 10)
	e2 := makeEntry(100, 1, "o2", 5)
	l.insert(e1)
	l.insert(e2)

	l.remove(e1)
	if l.size() != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", l.size())
	}
	best, _ := l.best()
	if best.Order.OrderID != "o2" {
		t.Errorf("expected o2 after removing o1, got %s", best.Order.OrderID)
	}
}

func TestLadder_FIFOWithinLevel(t *testing.T) {
	l := newLadder(bidLess)
	l.insert(makeEntry(100, 0, "first", 1))
	l.insert(makeEntry(100, 1, "second", 1))
	l.insert(makeEntry(100, 2, "third", 1))

	want := []string{"first", "second", "third"}
	for _, id := range want {
		best, ok := l.best()
		if !ok {
			t.Fatal("expected entry on ladder")
		}
		if best.Order.OrderID != id {
			t.Fatalf("expected %s at front, got %s", id, best.Order.OrderID)
		}
		l.remove(best)
	}
}

func TestLadder_Levels_Aggregation(t *testing.T) {
	l := newLadder(bidLess)
	l.insert(makeEntry(100, 0, "o1", 10))
	l.insert(makeEntry(100, 1, "o2", 5))
	l.insert(makeEntry(90, 2, "o3", 3))

	levels := l.levels(0)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Price != 100 || levels[0].TotalQuantity != 15 || levels[0].OrderCount != 2 {
		t.Errorf("level 0 = %+v, want {100 15 2}", levels[0])
	}
	if levels[1].Price != 90 || levels[1].TotalQuantity != 3 || levels[1].OrderCount != 1 {
		t.Errorf("level 1 = %+v, want {90 3 1}", levels[1])
	}
}

func TestLadder_Levels_DepthLimit(t *testing.T) {
	l := newLadder(askLess)
	l.insert(makeEntry(100, 0, "o1", 1))
	l.insert(makeEntry(110, 1, "o2", 1))
	l.insert(makeEntry(120, 2, "o3", 1))

	levels := l.levels(2)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels with depth 2, got %d", len(levels))
	}
	if levels[0].Price != 100 || levels[1].Price != 110 {
		t.Errorf("expected prices [100 110], got [%d %d]", levels[0].Price, levels[1].Price)
	}
}

func TestLadder_Levels_DepthLimitCountsLevelsNotOrders(t *testing.T) {
	l := newLadder(askLess)
	// Three orders at the same price are one level.
	l.insert(makeEntry(100, 0, "o1", 1))
	l.insert(makeEntry(100, 1, "o2", 1))
	l.insert(makeEntry(100, 2, "o3", 1))
	l.insert(makeEntry(110, 3, "o4", 1))

	levels := l.levels(2)
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].OrderCount != 3 {
		t.Errorf("expected 3 orders at first level, got %d", levels[0].OrderCount)
	}
}
