package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/obooklabs/matchbook/internal/domain"
	"github.com/obooklabs/matchbook/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// submitOrderRequest is the JSON request body for POST /orders.
type submitOrderRequest struct {
	OrderID   string   `json:"order_id"`
	Side      string   `json:"side"`
	Price     *float64 `json:"price"`
	Quantity  int64    `json:"quantity"`
	Timestamp *string  `json:"timestamp"`
}

// orderResponse is the order's post-match state in the submit response.
type orderResponse struct {
	OrderID           string  `json:"order_id"`
	Side              string  `json:"side"`
	Price             float64 `json:"price"`
	Quantity          int64   `json:"quantity"`
	FilledQuantity    int64   `json:"filled_quantity"`
	RemainingQuantity int64   `json:"remaining_quantity"`
	SubmittedAt       string  `json:"submitted_at"`
}

// tradeResponse is a single trade in the submit and trades responses.
type tradeResponse struct {
	TradeID     int64   `json:"trade_id"`
	BuyOrderID  string  `json:"buy_order_id"`
	SellOrderID string  `json:"sell_order_id"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	ExecutedAt  string  `json:"executed_at"`
}

// submitOrderResponse is the JSON response for POST /orders.
type submitOrderResponse struct {
	Order          orderResponse   `json:"order"`
	TradesExecuted int             `json:"trades_executed"`
	Trades         []tradeResponse `json:"trades"`
}

// cancelOrderResponse is the JSON response for DELETE /orders/{order_id}.
type cancelOrderResponse struct {
	OrderID   string `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
}

// SubmitOrder handles POST /orders.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// Parse timestamp if provided; the service stamps the current time
	// when absent.
	var timestamp *time.Time
	if req.Timestamp != nil {
		t, err := time.Parse(time.RFC3339, *req.Timestamp)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "timestamp must be a valid RFC 3339 timestamp")
			return
		}
		timestamp = &t
	}

	result, err := h.orderSvc.Submit(service.SubmitOrderRequest{
		OrderID:   req.OrderID,
		Side:      domain.OrderSide(req.Side),
		Price:     req.Price,
		Quantity:  req.Quantity,
		Timestamp: timestamp,
	})
	if err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, submitOrderResponse{
		Order:          buildOrderResponse(result.Order),
		TradesExecuted: len(result.Trades),
		Trades:         buildTradeResponses(result.Trades),
	})
}

// CancelOrder handles DELETE /orders/{order_id}.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")

	if err := h.orderSvc.Cancel(orderID); err != nil {
		mapOrderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cancelOrderResponse{
		OrderID:   orderID,
		Cancelled: true,
	})
}

// buildOrderResponse converts a domain order to its response shape.
func buildOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		OrderID:           o.OrderID,
		Side:              string(o.Side),
		Price:             domain.CentsToDollars(o.Price),
		Quantity:          o.Quantity,
		FilledQuantity:    o.FilledQuantity(),
		RemainingQuantity: o.RemainingQuantity,
		SubmittedAt:       o.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

// buildTradeResponses converts domain trades to response trades.
func buildTradeResponses(trades []*domain.Trade) []tradeResponse {
	result := make([]tradeResponse, len(trades))
	for i, t := range trades {
		result[i] = tradeResponse{
			TradeID:     t.TradeID,
			BuyOrderID:  t.BuyOrderID,
			SellOrderID: t.SellOrderID,
			Price:       domain.CentsToDollars(t.Price),
			Quantity:    t.Quantity,
			ExecutedAt:  t.ExecutedAt.UTC().Format(time.RFC3339),
		}
	}
	return result
}

// mapOrderError maps domain errors to HTTP responses for order endpoints.
func mapOrderError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderExists):
		WriteError(w, http.StatusConflict, "order_id_already_active", err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
