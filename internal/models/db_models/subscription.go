package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusActive    SubscriptionStatus = "ACTIVE"
	SubStatusExpired   SubscriptionStatus = "EXPIRED"
	SubStatusCancelled SubscriptionStatus = "CANCELLED"
)

// ActiveSubscriptionIndex is the partial unique index that allows at most
// one ACTIVE row per (customer, plan).
const ActiveSubscriptionIndex = "ux_subscriptions_active_customer_plan"

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubStatusActive:    {SubStatusExpired, SubStatusCancelled},
	SubStatusExpired:   {SubStatusActive},
	SubStatusCancelled: {SubStatusActive},
}

func (s SubscriptionStatus) Valid() bool {
	_, ok := subscriptionTransitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesOf lists the statuses that may move into target.
func SourcesOf(target SubscriptionStatus) []SubscriptionStatus {
	var out []SubscriptionStatus
	for _, from := range []SubscriptionStatus{SubStatusActive, SubStatusExpired, SubStatusCancelled} {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}

type Subscription struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID     uuid.UUID `gorm:"type:uuid;not null;index"`

	Status      SubscriptionStatus `gorm:"type:varchar(16);not null;index"`
	ActivatedAt int64              `gorm:"not null"`
	ExpiresAt   int64              `gorm:"not null;index"`
	CanceledAt  *int64

	// Copied from the plan at creation; reactivation recomputes expiry from it.
	ValidityDays  int32 `gorm:"not null"`
	PaymentMethod string

	// {"activated_by_txn": "<transaction id>"}
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
