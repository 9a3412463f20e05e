package response_models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"telecore/internal/models/db_models"
	"telecore/pkg/utils"
)

type SubscriptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	PlanID        uuid.UUID  `json:"plan_id"`
	Status        string     `json:"status"`
	ActivatedAt   time.Time  `json:"activated_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	CanceledAt    *time.Time `json:"canceled_at,omitempty"`
	ValidityDays  int32      `json:"validity_days"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	// Transaction that paid for the activation, read from metadata.
	ActivatedBy *uuid.UUID `json:"activated_by_txn,omitempty"`
}

func NewSubscriptionResponse(s db_models.Subscription) SubscriptionResponse {
	out := SubscriptionResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		PlanID:        s.PlanID,
		Status:        string(s.Status),
		ActivatedAt:   utils.FromUnixSeconds(s.ActivatedAt),
		ExpiresAt:     utils.FromUnixSeconds(s.ExpiresAt),
		ValidityDays:  s.ValidityDays,
		PaymentMethod: s.PaymentMethod,
	}
	if s.CanceledAt != nil {
		t := utils.FromUnixSeconds(*s.CanceledAt)
		out.CanceledAt = &t
	}

	var meta struct {
		ActivatedByTxn string `json:"activated_by_txn"`
	}
	if len(s.Metadata) > 0 && json.Unmarshal(s.Metadata, &meta) == nil {
		if id, err := uuid.Parse(meta.ActivatedByTxn); err == nil {
			out.ActivatedBy = &id
		}
	}
	return out
}

func NewSubscriptionResponses(subs []db_models.Subscription) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, NewSubscriptionResponse(s))
	}
	return out
}

type SubscribeResponse struct {
	Subscription SubscriptionResponse `json:"subscription"`
	Transaction  TransactionResponse  `json:"transaction"`
}

type ExtendResponse struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Days       int       `json:"days"`
	Extended   int64     `json:"extended"`
}

type SweepResponse struct {
	Expired int      `json:"expired"`
	Errors  []string `json:"errors,omitempty"`
}
