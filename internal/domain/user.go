package domain

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHotelAdmin Role = "hotel_admin"
	RoleUser       Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHotelAdmin, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password"` // bcrypt hash, stored under the legacy "password" key
	RealName     string    `json:"realName"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SafeUser is the wire shape of a user; the password hash never leaves the
// backend.
type SafeUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	RealName  string    `json:"realName"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Username:  u.Username,
		RealName:  u.RealName,
		Role:      u.Role,
		Phone:     u.Phone,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Actor is the authenticated caller of a mutating operation. Supplied by the
// transport layer, never persisted with the records it touches.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManage reports whether the actor may mutate the given hotel: admins may
// mutate anything, hotel admins only their own listings.
func (a Actor) CanManage(h Hotel) bool {
	return a.IsAdmin() || (a.Role == RoleHotelAdmin && h.CreatedBy == a.ID)
}
