// user.go
package model

import "time"

// Roles válidos para User.
type Role string

const (
	RoleClient      Role = "client"
	RoleDistributor Role = "distributor"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleDistributor || r == RoleAdmin
}

type User struct {
	ID              string           `bson:"_id" json:"_id"`
	Name            string           `bson:"name" json:"name"`
	Email           string           `bson:"email" json:"email"`
	Role            Role             `bson:"role" json:"role"`
	DistributorInfo *DistributorInfo `bson:"distributor_info,omitempty" json:"distributorInfo,omitempty"`
	CreatedAt       time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updatedAt"`
}

// DistributorInfo existe solo cuando Role == distributor.
// ApprovedAt y ApprovedBy acompañan siempre a IsApproved=true;
// al revocar se limpian ambos, nunca quedan valores viejos.
type DistributorInfo struct {
	CompanyName     string     `bson:"company_name" json:"companyName"`
	CompanyRUT      string     `bson:"company_rut" json:"companyRUT"`
	BusinessLicense string     `bson:"business_license,omitempty" json:"businessLicense,omitempty"`
	IsApproved      bool       `bson:"is_approved" json:"isApproved"`
	ApprovedAt      *time.Time `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`
	ApprovedBy      *string    `bson:"approved_by,omitempty" json:"approvedBy,omitempty"`
}

// ApprovalState is the derived approval stage of a distributor account.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
)

// ApprovalBadge pairs the derived state with its display label and color.
type ApprovalBadge struct {
	State ApprovalState `json:"state"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

// DistributorStatus derives the approval badge for u. Returns nil for
// non-distributors. A missing DistributorInfo or an unset IsApproved
// counts as pending; only IsApproved == true yields approved.
func DistributorStatus(u *User) *ApprovalBadge {
	if u == nil || u.Role != RoleDistributor {
		return nil
	}
	if u.DistributorInfo != nil && u.DistributorInfo.IsApproved {
		return &ApprovalBadge{State: ApprovalApproved, Label: "Aprobado", Color: "green"}
	}
	return &ApprovalBadge{State: ApprovalPending, Label: "Pendiente", Color: "yellow"}
}

// Session identifica al usuario autenticado que ejecuta la operación.
// Se pasa explícitamente, nunca se lee de estado global.
type Session struct {
	UserID string
	Role   Role
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
