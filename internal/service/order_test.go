package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/obooklabs/matchbook/internal/domain"
	"github.com/obooklabs/matchbook/internal/engine"
	"github.com/obooklabs/matchbook/internal/store"
)

func newTestOrderService() (*OrderService, *engine.Engine) {
	eng := engine.New(store.NewTradeLog())
	return NewOrderService(eng), eng
}

func floatPtr(f float64) *float64 { return &f }

func TestSubmit_Valid(t *testing.T) {
	svc, eng := newTestOrderService()

	result, err := svc.Submit(SubmitOrderRequest{
		OrderID:  "b1",
		Side:     domain.OrderSideBuy,
		Price:    floatPtr(100.50),
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.Price != 10050 {
		t.Errorf("price = %d cents, want 10050", result.Order.Price)
	}
	if result.Order.SubmittedAt.IsZero() {
		t.Error("expected submission timestamp to be assigned")
	}
	if len(result.Trades) != 0 {
		t.Errorf("expected no trades, got %d", len(result.Trades))
	}
	if eng.BidCount() != 1 {
		t.Errorf("expected order on book, got %d bids", eng.BidCount())
	}
}

func TestSubmit_GeneratesOrderIDWhenOmitted(t *testing.T) {
	svc, _ := newTestOrderService()

	result, err := svc.Submit(SubmitOrderRequest{
		Side:     domain.OrderSideSell,
		Price:    floatPtr(99.00),
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Order.OrderID == "" {
		t.Error("expected an order id to be generated")
	}
}

func TestSubmit_UsesProvidedTimestamp(t *testing.T) {
	svc, _ := newTestOrderService()

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result, err := svc.Submit(SubmitOrderRequest{
		OrderID:   "b1",
		Side:      domain.OrderSideBuy,
		Price:     floatPtr(100.00),
		Quantity:  1,
		Timestamp: &ts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Order.SubmittedAt.Equal(ts) {
		t.Errorf("SubmittedAt = %v, want %v", result.Order.SubmittedAt, ts)
	}
}

func TestSubmit_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     SubmitOrderRequest
		wantMsg string
	}{
		{
			"invalid side",
			SubmitOrderRequest{OrderID: "o1", Side: "hold", Price: floatPtr(100), Quantity: 1},
			"side",
		},
		{
			"missing price",
			SubmitOrderRequest{OrderID: "o1", Side: domain.OrderSideBuy, Quantity: 1},
			"price is required",
		},
		{
			"zero price",
			SubmitOrderRequest{OrderID: "o1", Side: domain.OrderSideBuy, Price: floatPtr(0), Quantity: 1},
			"price must be positive",
		},
		{
			"negative price",
			SubmitOrderRequest{OrderID: "o1", Side: domain.OrderSideBuy, Price: floatPtr(-5), Quantity: 1},
			"price must be positive",
		},
		{
			"sub-cent price",
			SubmitOrderRequest{OrderID: "o1", Side: domain.OrderSideBuy, Price: floatPtr(1.234), Quantity: 1},
			"decimal places",
		},
		{
			"zero quantity",
			SubmitOrderRequest{OrderID: "o1", Side: domain.OrderSideBuy, Price: floatPtr(100), Quantity: 0},
			"quantity",
		},
		{
			"bad order id",
			SubmitOrderRequest{OrderID: "not ok!", Side: domain.OrderSideBuy, Price: floatPtr(100), Quantity: 1},
			"order_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, eng := newTestOrderService()
			_, err := svc.Submit(tt.req)

			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(vErr.Message, tt.wantMsg) {
				t.Errorf("message %q does not mention %q", vErr.Message, tt.wantMsg)
			}
			if eng.BidCount() != 0 || eng.AskCount() != 0 {
				t.Error("expected no state change on validation failure")
			}
		})
	}
}

func TestSubmit_DuplicateID(t *testing.T) {
	svc, _ := newTestOrderService()

	req := SubmitOrderRequest{OrderID: "dup", Side: domain.OrderSideBuy, Price: floatPtr(100), Quantity: 1}
	if _, err := svc.Submit(req); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(req)
	if !errors.Is(err, domain.ErrOrderExists) {
		t.Fatalf("expected ErrOrderExists, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	svc, _ := newTestOrderService()

	if _, err := svc.Submit(SubmitOrderRequest{
		OrderID: "b1", Side: domain.OrderSideBuy, Price: floatPtr(100), Quantity: 5,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Cancel("b1"); err != nil {
		t.Errorf("expected cancel to succeed, got %v", err)
	}
	if err := svc.Cancel("b1"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound on second cancel, got %v", err)
	}
	if err := svc.Cancel("never-existed"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound for unknown id, got %v", err)
	}
}
