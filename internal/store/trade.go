package store

import (
	"sync"

	"github.com/obooklabs/matchbook/internal/domain"
)

// TradeLog is a thread-safe, append-only log of executed trades in
// execution order. It never evicts: the engine keeps the full history
// for the lifetime of the process.
type TradeLog struct {
	mu     sync.RWMutex
	trades []*domain.Trade
}

// NewTradeLog creates an empty TradeLog.
func NewTradeLog() *TradeLog {
	return &TradeLog{}
}

// Append adds a trade to the log. Trades must be appended in
// execution order; the matching engine calls this inside its
// critical section, which guarantees that ordering.
func (l *TradeLog) Append(t *domain.Trade) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades = append(l.trades, t)
}

// All returns every trade in execution order. The returned slice is a
// copy so callers never alias the log's internal storage.
func (l *TradeLog) All() []*domain.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*domain.Trade, len(l.trades))
	copy(result, l.trades)
	return result
}

// Len returns the number of trades logged so far.
func (l *TradeLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.trades)
}
