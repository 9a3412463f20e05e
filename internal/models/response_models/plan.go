package response_models

import (
	"github.com/google/uuid"

	"telecore/internal/models/db_models"
)

type PlanResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Type          string    `json:"type"`
	Price         int64     `json:"price"`
	ValidityDays  int32     `json:"validity_days"`
	DataAllowance string    `json:"data_allowance"`
	CallMinutes   int32     `json:"call_minutes"`
	SmsQuota      int32     `json:"sms_quota"`
}

func NewPlanResponse(p db_models.Plan) PlanResponse {
	return PlanResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Type:          string(p.Type),
		Price:         p.Price,
		ValidityDays:  p.ValidityDays,
		DataAllowance: p.DataAllowance,
		CallMinutes:   p.CallMinutes,
		SmsQuota:      p.SmsQuota,
	}
}
