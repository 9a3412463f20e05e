package db_models

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RolePlanManager Role = "PLAN_MANAGER"
	RoleRetailer    Role = "RETAILER"
	RoleCustomer    Role = "CUSTOMER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePlanManager, RoleRetailer, RoleCustomer:
		return true
	}
	return false
}

// CanManageAnySubscription is true for roles allowed to act on subscriptions
// they do not own.
func (r Role) CanManageAnySubscription() bool {
	return r == RoleAdmin || r == RolePlanManager
}

// Account is the local projection of an identity provider subject.
type Account struct {
	BaseModel
	Name  string
	Email string `gorm:"unique"`
	Phone string `gorm:"index"`
	Role  Role   `gorm:"type:varchar(16);not null;index"`
}
