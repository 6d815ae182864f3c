package service

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/obooklabs/matchbook/internal/domain"
	"github.com/obooklabs/matchbook/internal/engine"
)

var orderIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// SubmitOrderRequest represents the input for order submission, with
// untrusted values already parsed out of the request body. OrderID and
// Timestamp are optional: the service generates an id and stamps the
// submission time when the caller omits them.
type SubmitOrderRequest struct {
	OrderID   string
	Side      domain.OrderSide
	Price     *float64 // dollars
	Quantity  int64
	Timestamp *time.Time
}

// SubmitResult bundles the order's post-match state with the trades
// executed by the submission.
type SubmitResult struct {
	Order  *domain.Order
	Trades []*domain.Trade
}

// OrderService validates submissions and forwards them to the engine.
type OrderService struct {
	eng *engine.Engine
}

// NewOrderService creates a new OrderService.
func NewOrderService(eng *engine.Engine) *OrderService {
	return &OrderService{eng: eng}
}

// Submit validates the request, builds the order, and runs it through
// the matching engine.
func (s *OrderService) Submit(req SubmitOrderRequest) (*SubmitResult, error) {
	if !req.Side.Valid() {
		return nil, &domain.ValidationError{
			Message: "side must be 'buy' or 'sell'",
		}
	}
	if req.Price == nil {
		return nil, &domain.ValidationError{
			Message: "price is required",
		}
	}
	if *req.Price <= 0 {
		return nil, &domain.ValidationError{
			Message: "price must be positive",
		}
	}
	priceCents, err := domain.DollarsToCents(*req.Price)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if priceCents <= 0 {
		return nil, &domain.ValidationError{
			Message: "price must be at least 0.01",
		}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	} else if !orderIDRegex.MatchString(orderID) {
		return nil, &domain.ValidationError{
			Message: "order_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	submittedAt := time.Now()
	if req.Timestamp != nil {
		submittedAt = *req.Timestamp
	}

	order := &domain.Order{
		OrderID:     orderID,
		Side:        req.Side,
		Price:       priceCents,
		Quantity:    req.Quantity,
		SubmittedAt: submittedAt,
	}

	trades, err := s.eng.Submit(order)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{Order: order, Trades: trades}, nil
}

// Cancel removes a resting order. It returns ErrOrderNotFound when the
// id is not on the book — an expected outcome, not a fault.
func (s *OrderService) Cancel(orderID string) error {
	if !s.eng.Cancel(orderID) {
		return domain.ErrOrderNotFound
	}
	return nil
}
