package models

import "time"

// Role is the single role an account holds.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleNurse Role = "nurse"
	RoleUser  Role = "user"
)

// ApprovalStatus gates login: only approved accounts may authenticate.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// GeoPoint is a last known location fix recorded from the browser.
type GeoPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

// UserAccount is identity + credential + role + trust state.
//
// Email is the de facto unique login key; uniqueness is enforced at
// registration only, never at the storage layer. PasswordHash is a bcrypt
// hash and must never appear in listings or API responses.
type UserAccount struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone,omitempty"`
	PasswordHash   string         `json:"passwordHash,omitempty"`
	Role           Role           `json:"role"`
	Verified       bool           `json:"verified"`
	ApprovalStatus ApprovalStatus `json:"approvalStatus"`
	IDFrontURL     string         `json:"idFrontUrl,omitempty"`
	IDBackURL      string         `json:"idBackUrl,omitempty"`
	LastLocation   *GeoPoint      `json:"lastLocation,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// PublicView strips credential fields for listings and API responses.
func (u UserAccount) PublicView() UserAccount {
	u.PasswordHash = ""
	return u
}
