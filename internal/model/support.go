package model

import "time"

// Support ticket status values.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// SupportTicket is a help request raised by a company user for an office.
// TicketNo is a short human-readable identifier derived from a UUID at
// creation time.
type SupportTicket struct {
	ID            uint64    // support_tickets.id
	TicketNo      string    // support_tickets.ticket_no (unique)
	CompanyUserID uint64    // support_tickets.company_user_id
	OfficeID      uint64    // support_tickets.office_id
	Subject       string    // support_tickets.subject
	Status        string    // support_tickets.status
	CreatedAt     time.Time // support_tickets.created_at
	UpdatedAt     time.Time // support_tickets.updated_at
}

// Chat sender discriminator.
const (
	SenderCompany = "company"
	SenderStaff   = "staff"
)

// SupportChat is one message on a ticket.  Attachments holds stored media
// IDs; the handler expands them to retrievable URLs on read.
type SupportChat struct {
	ID          uint64    // support_chats.id
	TicketID    uint64    // support_chats.ticket_id
	SenderType  string    // support_chats.sender_type (company|staff)
	SenderID    uint64    // support_chats.sender_id
	Message     string    // support_chats.message
	Attachments []string  // from support_chat_attachments join rows
	CreatedAt   time.Time // support_chats.created_at
}

// FAQ is a published question/answer pair ordered by SortOrder.
type FAQ struct {
	ID        uint64    // faqs.id
	Question  string    // faqs.question
	Answer    string    // faqs.answer
	SortOrder int       // faqs.sort_order
	IsActive  bool      // faqs.is_active
	CreatedAt time.Time // faqs.created_at
	UpdatedAt time.Time // faqs.updated_at
}

// Media is one stored file in the media table.  ID is a UUID; StoredPath is
// relative to the public media root and Collection scopes what the file is
// (bills, reports, support).
type Media struct {
	ID           string    // media.id (uuid)
	Collection   string    // media.collection
	OriginalName string    // media.original_name
	StoredPath   string    // media.stored_path (public-relative)
	Mime         string    // media.mime
	Size         int64     // media.size
	CreatedAt    time.Time // media.created_at
}
