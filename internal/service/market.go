package service

import (
	"fmt"
	"time"

	"github.com/obooklabs/matchbook/internal/domain"
	"github.com/obooklabs/matchbook/internal/engine"
)

// BookResponse represents an aggregated order book snapshot.
type BookResponse struct {
	Bids       []engine.PriceLevel
	Asks       []engine.PriceLevel
	Spread     *int64 // nil if either side empty
	SnapshotAt time.Time
}

// PriceResponse represents the VWAP reference price for the instrument.
type PriceResponse struct {
	CurrentPrice   *int64 // nil when no trades ever
	Window         string // e.g. "5m"
	TradesInWindow int
	LastTradeAt    *time.Time // nil when no trades ever
}

// MarketService handles best-price, book, trade-history, and reference
// price queries.
type MarketService struct {
	eng        *engine.Engine
	vwapWindow time.Duration
}

// NewMarketService creates a new MarketService.
func NewMarketService(eng *engine.Engine, vwapWindow time.Duration) *MarketService {
	return &MarketService{eng: eng, vwapWindow: vwapWindow}
}

// BestPrices returns the best bid and ask from a consistent snapshot.
func (s *MarketService) BestPrices() engine.BestPrices {
	return s.eng.BestPrices()
}

// Book returns up to depth aggregated price levels per side plus the
// bid/ask spread.
func (s *MarketService) Book(depth int) *BookResponse {
	snap := s.eng.Snapshot(depth)

	resp := &BookResponse{
		Bids:       snap.Bids,
		Asks:       snap.Asks,
		SnapshotAt: time.Now(),
	}
	if len(snap.Bids) > 0 && len(snap.Asks) > 0 {
		spread := snap.Asks[0].Price - snap.Bids[0].Price
		resp.Spread = &spread
	}
	return resp
}

// Trades returns the full trade history in execution order.
func (s *MarketService) Trades() []*domain.Trade {
	return s.eng.Trades()
}

// ReferencePrice computes the current reference price as VWAP over the
// configured window, falling back to the last trade's price when no
// trade falls inside the window. CurrentPrice is nil if no trades have
// ever occurred.
func (s *MarketService) ReferencePrice() *PriceResponse {
	trades := s.eng.Trades()
	windowStart := time.Now().Add(-s.vwapWindow)

	resp := &PriceResponse{
		Window: formatDuration(s.vwapWindow),
	}

	if len(trades) == 0 {
		return resp
	}

	last := trades[len(trades)-1]
	resp.LastTradeAt = &last.ExecutedAt

	// Walk backwards from the tail until executed_at leaves the window.
	var sumPriceQty, sumQty int64
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		if t.ExecutedAt.Before(windowStart) {
			break
		}
		sumPriceQty += t.Price * t.Quantity
		sumQty += t.Quantity
		resp.TradesInWindow++
	}

	if sumQty > 0 {
		vwap := sumPriceQty / sumQty
		resp.CurrentPrice = &vwap
	} else {
		resp.CurrentPrice = &last.Price
	}
	return resp
}

// formatDuration renders a duration compactly ("5m", "1h30m"), without
// the trailing zero units time.Duration.String produces.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	out := ""
	if h > 0 {
		out += fmt.Sprintf("%dh", h)
	}
	if m > 0 {
		out += fmt.Sprintf("%dm", m)
	}
	if s > 0 || out == "" {
		out += fmt.Sprintf("%ds", s)
	}
	return out
}
