package model

// Contact is the person attached to a host CRM lead.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Lead is the host CRM record a quote is committed to.
type Lead struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Contact Contact `json:"contact"`
}

// SyncAck reports the outcome of a commit to the host CRM.
type SyncAck struct {
	LeadID          string `json:"lead_id"`
	QuoteID         string `json:"quote_id"`
	NoteAdded       bool   `json:"note_added"`
	ProductsAdded   int    `json:"products_added"`
	AttachmentAdded bool   `json:"attachment_added"`
	AttachmentError string `json:"attachment_error,omitempty"`
	Skipped         bool   `json:"skipped"` // no host CRM, nothing was sent
}
