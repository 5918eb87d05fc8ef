package models

// Document is the whole persisted aggregate. The remote host stores exactly
// one of these; every mutation rewrites it wholesale, so the store layer is
// the only place allowed to hold one across a save.
type Document struct {
	Users        []UserAccount   `json:"users"`
	Assets       []Asset         `json:"assets"`
	Transactions []Transaction   `json:"transactions"`
	ChatMessages []ChatMessage   `json:"chatMessages"`
	Products     []Product       `json:"products"`
	Tickets      []SupportTicket `json:"tickets"`
	Settings     AppSettings     `json:"settings"`
}

// DefaultDocument returns an empty but fully shaped document. It is what a
// fetch falls back to when the remote host is unreachable or holds nothing.
func DefaultDocument() *Document {
	doc := &Document{}
	doc.Normalize()
	return doc
}

// Normalize ensures every collection is non-nil and the settings singleton has
// its defaults, so downstream code never null-checks top-level collections.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []UserAccount{}
	}
	if d.Assets == nil {
		d.Assets = []Asset{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.ChatMessages == nil {
		d.ChatMessages = []ChatMessage{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Tickets == nil {
		d.Tickets = []SupportTicket{}
	}
	if d.Settings.OrgName == "" {
		d.Settings.OrgName = DefaultOrgName
	}
}

// FindUser returns a pointer into Users for the given id, or nil.
func (d *Document) FindUser(id string) *UserAccount {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindAsset returns a pointer into Assets for the given id, or nil.
func (d *Document) FindAsset(id string) *Asset {
	for i := range d.Assets {
		if d.Assets[i].ID == id {
			return &d.Assets[i]
		}
	}
	return nil
}

// FindTransaction returns a pointer into Transactions for the given id, or nil.
func (d *Document) FindTransaction(id string) *Transaction {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id {
			return &d.Transactions[i]
		}
	}
	return nil
}
