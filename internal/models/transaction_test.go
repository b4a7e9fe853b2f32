package models

import (
	"testing"
)

func TestPurchaseRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request PurchaseRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			request: PurchaseRequest{EventID: 1, TicketID: 2, Quantity: 3},
			wantErr: false,
		},
		{
			name:    "valid request with coupon code",
			request: PurchaseRequest{EventID: 1, TicketID: 2, Quantity: 1, CouponCode: "ABC123"},
			wantErr: false,
		},
		{
			name:    "missing event",
			request: PurchaseRequest{TicketID: 2, Quantity: 1},
			wantErr: true,
			errMsg:  "eventId is required",
		},
		{
			name:    "missing ticket",
			request: PurchaseRequest{EventID: 1, Quantity: 1},
			wantErr: true,
			errMsg:  "ticketId is required",
		},
		{
			name:    "zero quantity",
			request: PurchaseRequest{EventID: 1, TicketID: 2, Quantity: 0},
			wantErr: true,
			errMsg:  "quantity must be greater than 0",
		},
		{
			name:    "negative quantity",
			request: PurchaseRequest{EventID: 1, TicketID: 2, Quantity: -5},
			wantErr: true,
			errMsg:  "quantity must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTransaction_IsCompleted(t *testing.T) {
	completed := Transaction{Status: TransactionCompleted}
	pending := Transaction{Status: TransactionPending}

	if !completed.IsCompleted() {
		t.Error("COMPLETED transaction should report completed")
	}
	if pending.IsCompleted() {
		t.Error("PENDING transaction should not report completed")
	}
}
