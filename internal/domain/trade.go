package domain

import "time"

// Trade represents a matched execution between a buy and a sell order.
// Trades are immutable once created and reference the participating
// orders by id only — the orders may later be fully consumed and
// removed from the book while the trade record persists.
type Trade struct {
	TradeID     int64 // engine-assigned, monotonically increasing
	BuyOrderID  string
	SellOrderID string
	Price       int64 // cents, the resting order's price
	Quantity    int64
	ExecutedAt  time.Time
}
