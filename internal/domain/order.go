package domain

import "time"

// OrderSide indicates whether an order is a buy or a sell.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Valid reports whether the side is one of the two known values.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// Order represents a limit order submitted to the matching engine.
// RemainingQuantity is decremented in place as fills occur; the same
// record is referenced from both the price ladder and the engine's
// order index, so both always observe the same state.
type Order struct {
	OrderID           string
	Side              OrderSide
	Price             int64 // cents
	Quantity          int64
	RemainingQuantity int64
	SubmittedAt       time.Time
}

// FilledQuantity returns how much of the order has executed so far.
func (o *Order) FilledQuantity() int64 {
	return o.Quantity - o.RemainingQuantity
}
