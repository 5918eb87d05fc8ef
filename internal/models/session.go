package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session is a server-side login session, persisted in the local session
// database so logins survive service restarts. UserJSON carries a public
// snapshot of the account taken at login time; role checks read it without
// a round trip to the document store.
type Session struct {
	Token     string         `gorm:"primaryKey;size:36"`
	UserID    string         `gorm:"size:36;not null;index"`
	Role      string         `gorm:"size:16;not null"`
	UserJSON  datatypes.JSON `gorm:"type:json"`
	ExpiresAt time.Time      `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName overrides the table name for Session
func (Session) TableName() string {
	return "hub_sessions"
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
