package db_models

import (
	"strconv"
	"strings"
)

type PlanType string

const (
	PlanTypePrepaid  PlanType = "PREPAID"
	PlanTypePostpaid PlanType = "POSTPAID"
)

func (t PlanType) Valid() bool {
	return t == PlanTypePrepaid || t == PlanTypePostpaid
}

type Plan struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"` // e.g., "smart_299", "unlimited_999"
	Name        string `gorm:"not null"`
	Description *string
	Type        PlanType `gorm:"type:varchar(16);index;not null"`
	// Whole currency units, e.g. 299
	Price         int64 `gorm:"not null"`
	ValidityDays  int32 `gorm:"not null"`
	DataAllowance string // "1.5GB", "100GB", "Unlimited"
	CallMinutes   int32
	SmsQuota      int32
}

// DataAllowanceGB parses allowances such as "5GB" or "1.5 GB".
// ok is false when the value is not expressed in gigabytes.
func (p Plan) DataAllowanceGB() (gb float64, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(p.DataAllowance))
	if !strings.Contains(s, "GB") {
		return 0, false
	}
	num := strings.TrimSpace(strings.Replace(s, "GB", "", 1))
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
