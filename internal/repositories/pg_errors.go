package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"telecore/internal/models/db_models"
)

const pgUniqueViolation = "23505"

// isActivePlanViolation detects a write rejected by the partial unique index
// on ACTIVE subscriptions.
func isActivePlanViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == db_models.ActiveSubscriptionIndex
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
