package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// SupportRepo manages support tickets, their chat threads and chat
// attachment rows.
type SupportRepo struct{ db *sql.DB }

// NewSupportRepo returns a new SupportRepo bound to the given database.
func NewSupportRepo(db *sql.DB) *SupportRepo { return &SupportRepo{db: db} }

// CreateTicket inserts a ticket with a generated ticket number plus its
// opening chat message in one transaction.
func (r *SupportRepo) CreateTicket(ctx context.Context, t *model.SupportTicket, opening *model.SupportChat) error {
	t.TicketNo = "ST-" + strings.ToUpper(uuid.NewString()[:8])
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO support_tickets (ticket_no, company_user_id, office_id, subject, status)
		 VALUES (?, ?, ?, ?, ?)`,
		t.TicketNo, t.CompanyUserID, t.OfficeID, t.Subject, t.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	if opening != nil {
		opening.TicketID = t.ID
		if err := r.addChatTx(ctx, tx, opening); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetTicket returns one ticket or sql.ErrNoRows.
func (r *SupportRepo) GetTicket(ctx context.Context, id uint64) (*model.SupportTicket, error) {
	var t model.SupportTicket
	err := r.db.QueryRowContext(ctx,
		`SELECT id, ticket_no, company_user_id, office_id, subject, status, created_at, updated_at
		 FROM support_tickets WHERE id = ?`, id).
		Scan(&t.ID, &t.TicketNo, &t.CompanyUserID, &t.OfficeID, &t.Subject, &t.Status,
			&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTickets returns tickets newest first.  companyUserID of zero lists
// all tickets (staff view); non-zero restricts to that user's tickets.
func (r *SupportRepo) ListTickets(ctx context.Context, companyUserID uint64) ([]model.SupportTicket, error) {
	q := `SELECT id, ticket_no, company_user_id, office_id, subject, status, created_at, updated_at
		FROM support_tickets`
	args := []any{}
	if companyUserID != 0 {
		q += ` WHERE company_user_id = ?`
		args = append(args, companyUserID)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SupportTicket, 0)
	for rows.Next() {
		var t model.SupportTicket
		if err := rows.Scan(&t.ID, &t.TicketNo, &t.CompanyUserID, &t.OfficeID, &t.Subject,
			&t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateStatus overwrites the ticket status.
func (r *SupportRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE support_tickets SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(ctx, res, r.db, `SELECT 1 FROM support_tickets WHERE id = ?`, id)
}

// AddChat appends a message (and its attachment rows) to a ticket.
func (r *SupportRepo) AddChat(ctx context.Context, chat *model.SupportChat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.addChatTx(ctx, tx, chat); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListChats returns a ticket's messages oldest first with attachment media
// IDs populated.
func (r *SupportRepo) ListChats(ctx context.Context, ticketID uint64) ([]model.SupportChat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ticket_id, sender_type, sender_id, message, created_at
		 FROM support_chats WHERE ticket_id = ? ORDER BY id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.SupportChat, 0)
	for rows.Next() {
		var c model.SupportChat
		if err := rows.Scan(&c.ID, &c.TicketID, &c.SenderType, &c.SenderID, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Attachments, err = r.chatAttachments(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SupportRepo) addChatTx(ctx context.Context, tx *sql.Tx, chat *model.SupportChat) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO support_chats (ticket_id, sender_type, sender_id, message) VALUES (?, ?, ?, ?)`,
		chat.TicketID, chat.SenderType, chat.SenderID, chat.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	chat.ID = uint64(id)
	for _, mediaID := range chat.Attachments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO support_chat_attachments (chat_id, media_id) VALUES (?, ?)`,
			chat.ID, mediaID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SupportRepo) chatAttachments(ctx context.Context, chatID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT media_id FROM support_chat_attachments WHERE chat_id = ? ORDER BY id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
