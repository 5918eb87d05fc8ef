package models

import "time"

// DefaultOrgName is used until an admin saves settings.
const DefaultOrgName = "Dual Power Women Hub"

// Product is a shop-catalog item, plain admin-owned CRUD.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Image     string    `json:"image,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TicketType is the kind of support request a user raised.
type TicketType string

const (
	TicketComplaint TicketType = "complaint"
	TicketHelp      TicketType = "help"
	TicketReturn    TicketType = "return"
)

// TicketStatus is pending until an admin replies; there is no reopen path.
type TicketStatus string

const (
	TicketPending  TicketStatus = "pending"
	TicketResolved TicketStatus = "resolved"
)

// SupportTicket is a one-shot user request resolved by a single admin reply.
type SupportTicket struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	UserName   string       `json:"userName"`
	Type       TicketType   `json:"type"`
	Subject    string       `json:"subject"`
	Message    string       `json:"message"`
	Status     TicketStatus `json:"status"`
	AdminReply string       `json:"adminReply,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// AppSettings is the singleton configuration record, overwritten wholesale on
// save. AIServiceKey, when set, overrides the configured AI credential.
type AppSettings struct {
	OrgName      string `json:"orgName"`
	LogoURL      string `json:"logoUrl,omitempty"`
	AIServiceKey string `json:"aiServiceKey,omitempty"`
}
