package db_models

import "github.com/google/uuid"

type UsageType string

const (
	UsageTypeData  UsageType = "data"
	UsageTypeCalls UsageType = "calls"
	UsageTypeSms   UsageType = "sms"
)

func (u UsageType) Valid() bool {
	return u == UsageTypeData || u == UsageTypeCalls || u == UsageTypeSms
}

type UsageRecord struct {
	BaseModel
	CustomerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;index"`
	DataUsed       int64     // MB
	CallsUsed      int64     // minutes
	SmsUsed        int64
	RecordedAt     int64 `gorm:"not null;index"`
}

// Amount returns the metered quantity for the given usage type.
func (u UsageRecord) Amount(t UsageType) int64 {
	switch t {
	case UsageTypeData:
		return u.DataUsed
	case UsageTypeCalls:
		return u.CallsUsed
	case UsageTypeSms:
		return u.SmsUsed
	}
	return 0
}
