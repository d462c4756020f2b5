package domain

import "time"

// User roles
const (
	RoleViewer     = "viewer"
	RoleEditor     = "editor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User represents a department member
type User struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Username   string    `gorm:"column:username;type:varchar(50);uniqueIndex" json:"username"`
	Email      string    `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Password   string    `gorm:"column:password;type:varchar(255)" json:"-"`
	Role       string    `gorm:"column:role;type:enum('viewer','editor','admin','super_admin');default:'viewer'" json:"role"`
	Department string    `gorm:"column:department;type:varchar(50);index" json:"department"`
	Rank       string    `gorm:"column:rank;type:varchar(50)" json:"rank"`
	Callsign   string    `gorm:"column:callsign;type:varchar(20)" json:"callsign,omitempty"`
	Status     string    `gorm:"column:status;type:enum('active','inactive');default:'active'" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ValidRole reports whether r is a known role
func ValidRole(r string) bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// LoginRequest is the payload for the login endpoint
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest is the admin payload for mutating a user record
type UpdateUserRequest struct {
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	Rank       *string `json:"rank,omitempty"`
	Callsign   *string `json:"callsign,omitempty"`
	Status     *string `json:"status,omitempty"`
}
