package utils

import (
	"errors"
	"fmt"
)

// Families. Callers match these with errors.Is.
var (
	ErrNotFound      = errors.New("record not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid state")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
)

var (
	ErrPlanNotFound         = fmt.Errorf("plan %w", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", ErrNotFound)
	ErrTransactionNotFound  = fmt.Errorf("transaction %w", ErrNotFound)
	ErrCustomerNotFound     = fmt.Errorf("customer %w", ErrNotFound)

	ErrInvalidStateForCancel     = fmt.Errorf("%w: only ACTIVE subscriptions can be cancelled", ErrInvalidState)
	ErrInvalidStateForReactivate = fmt.Errorf("%w: subscription is already ACTIVE", ErrInvalidState)
	ErrInvalidStateForMarkFailed = fmt.Errorf("%w: only SUCCESS transactions can be marked failed", ErrInvalidState)
	ErrInvalidStateForRetry      = fmt.Errorf("%w: only FAILED transactions can be retried", ErrInvalidState)

	ErrInvalidPeriod    = fmt.Errorf("%w: period must be one of today, week, month, year, all", ErrInvalidInput)
	ErrInvalidUsageType = fmt.Errorf("%w: usage type must be one of data, calls, sms", ErrInvalidInput)
	ErrInvalidLimit     = fmt.Errorf("%w: limit must be greater than 0", ErrInvalidInput)
	ErrInvalidExtension = fmt.Errorf("%w: days must be greater than 0", ErrInvalidInput)
	ErrInvalidCustomer  = fmt.Errorf("%w: target account is not a customer", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	ErrInvalidTxnType   = fmt.Errorf("%w: unknown transaction type", ErrInvalidInput)
	ErrInvalidMonth     = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidInput)
	ErrInvalidPlanType  = fmt.Errorf("%w: plan type must be PREPAID or POSTPAID", ErrInvalidInput)
)

var (
	ErrDuplicateActivePlan = errors.New("customer already has an active subscription for this plan")
	ErrAmountMismatch      = errors.New("amount does not match plan price")
	// The ledger entry was rolled back together with the failed subscription insert.
	ErrSubscriptionCreationFailedAfterPayment = errors.New("subscription creation failed after payment")
)

// DBError wraps a storage failure so it matches ErrDatabaseError while keeping the cause.
func DBError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDatabaseError, err)
}
