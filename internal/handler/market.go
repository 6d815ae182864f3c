package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/obooklabs/matchbook/internal/domain"
	"github.com/obooklabs/matchbook/internal/engine"
	"github.com/obooklabs/matchbook/internal/service"
)

// MarketHandler handles HTTP requests for market data endpoints.
type MarketHandler struct {
	marketSvc    *service.MarketService
	defaultDepth int
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService, defaultDepth int) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc, defaultDepth: defaultDepth}
}

// bestPricesResponse is the JSON response for GET /prices.
type bestPricesResponse struct {
	BestBid *float64 `json:"best_bid"`
	BestAsk *float64 `json:"best_ask"`
}

// bookLevelResponse is a single price level in the book response.
type bookLevelResponse struct {
	Price         float64 `json:"price"`
	TotalQuantity int64   `json:"total_quantity"`
	OrderCount    int     `json:"order_count"`
}

// bookResponse is the JSON response for GET /book.
type bookResponse struct {
	Bids       []bookLevelResponse `json:"bids"`
	Asks       []bookLevelResponse `json:"asks"`
	Spread     *float64            `json:"spread"`
	SnapshotAt string              `json:"snapshot_at"`
}

// referencePriceResponse is the JSON response for GET /price.
type referencePriceResponse struct {
	CurrentPrice   *float64 `json:"current_price"`
	Window         string   `json:"window"`
	TradesInWindow int      `json:"trades_in_window"`
	LastTradeAt    *string  `json:"last_trade_at"`
}

// GetBestPrices handles GET /prices.
func (h *MarketHandler) GetBestPrices(w http.ResponseWriter, r *http.Request) {
	bp := h.marketSvc.BestPrices()

	var resp bestPricesResponse
	if bp.BestBid != nil {
		v := domain.CentsToDollars(*bp.BestBid)
		resp.BestBid = &v
	}
	if bp.BestAsk != nil {
		v := domain.CentsToDollars(*bp.BestAsk)
		resp.BestAsk = &v
	}

	WriteJSON(w, http.StatusOK, resp)
}

// GetBook handles GET /book. The depth query param limits the number of
// price levels per side; 0 returns the full book.
func (h *MarketHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	depth := h.defaultDepth
	if d := r.URL.Query().Get("depth"); d != "" {
		var err error
		depth, err = strconv.Atoi(d)
		if err != nil || depth < 0 {
			WriteError(w, http.StatusBadRequest, "validation_error", "depth must be a non-negative integer")
			return
		}
	}

	book := h.marketSvc.Book(depth)

	resp := bookResponse{
		Bids:       buildLevelResponses(book.Bids),
		Asks:       buildLevelResponses(book.Asks),
		SnapshotAt: book.SnapshotAt.UTC().Format(time.RFC3339),
	}
	if book.Spread != nil {
		v := domain.CentsToDollars(*book.Spread)
		resp.Spread = &v
	}

	WriteJSON(w, http.StatusOK, resp)
}

// GetTrades handles GET /trades.
func (h *MarketHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, buildTradeResponses(h.marketSvc.Trades()))
}

// GetReferencePrice handles GET /price.
func (h *MarketHandler) GetReferencePrice(w http.ResponseWriter, r *http.Request) {
	price := h.marketSvc.ReferencePrice()

	resp := referencePriceResponse{
		Window:         price.Window,
		TradesInWindow: price.TradesInWindow,
	}
	if price.CurrentPrice != nil {
		v := domain.CentsToDollars(*price.CurrentPrice)
		resp.CurrentPrice = &v
	}
	if price.LastTradeAt != nil {
		s := price.LastTradeAt.UTC().Format(time.RFC3339)
		resp.LastTradeAt = &s
	}

	WriteJSON(w, http.StatusOK, resp)
}

// buildLevelResponses converts engine price levels to response levels.
func buildLevelResponses(levels []engine.PriceLevel) []bookLevelResponse {
	result := make([]bookLevelResponse, len(levels))
	for i, l := range levels {
		result[i] = bookLevelResponse{
			Price:         domain.CentsToDollars(l.Price),
			TotalQuantity: l.TotalQuantity,
			OrderCount:    l.OrderCount,
		}
	}
	return result
}
