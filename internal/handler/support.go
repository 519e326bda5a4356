package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nivaan/health-booking-admin/internal/model"
	"github.com/nivaan/health-booking-admin/internal/repository"
	"github.com/nivaan/health-booking-admin/internal/storage"
	"github.com/nivaan/health-booking-admin/internal/utils"
)

// SupportHandler serves support tickets and their chat threads.  Company
// users open tickets and converse on their own; staff see every ticket
// and drive the status.
type SupportHandler struct {
	Support      *repository.SupportRepo
	CompanyUsers *repository.CompanyUserRepo
	Media        *repository.MediaRepo
	Store        *storage.Store
}

type createTicketReq struct {
	OfficeID uint64 `json:"office_id"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

// CreateTicket opens a ticket with its first chat message in one step.
func (h *SupportHandler) CreateTicket(c echo.Context) error {
	var req createTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "detail": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	userID := currentUserID(c)
	ticket := &model.SupportTicket{
		CompanyUserID: userID,
		OfficeID:      req.OfficeID,
		Subject:       strings.TrimSpace(req.Subject),
		Status:        model.TicketOpen,
	}
	opening := &model.SupportChat{
		SenderType: model.SenderCompany,
		SenderID:   userID,
		Message:    strings.TrimSpace(req.Message),
	}
	if err := h.Support.CreateTicket(ctx, ticket, opening); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}
	return c.JSON(http.StatusCreated, ticket)
}

// ListTickets returns the caller's tickets, or every ticket for staff.
func (h *SupportHandler) ListTickets(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var companyUserID uint64
	if currentActor(c) == utils.ActorCompany {
		companyUserID = currentUserID(c)
	}
	tickets, err := h.Support.ListTickets(ctx, companyUserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// loadTicket fetches the ticket and rejects company users who do not own it.
func (h *SupportHandler) loadTicket(c echo.Context, ctx context.Context) (*model.SupportTicket, error) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ticket, err := h.Support.GetTicket(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if currentActor(c) == utils.ActorCompany && ticket.CompanyUserID != currentUserID(c) {
		return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return ticket, nil
}

// GetTicket returns a ticket with its chat thread; attachment media IDs
// are expanded to retrievable URLs.
func (h *SupportHandler) GetTicket(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ticket, errResp := h.loadTicket(c, ctx)
	if ticket == nil {
		return errResp
	}
	chats, err := h.Support.ListChats(ctx, ticket.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	type chatOut struct {
		model.SupportChat
		AttachmentURLs []string `json:"attachment_urls"`
	}
	out := make([]chatOut, 0, len(chats))
	for _, chat := range chats {
		paths, err := h.Media.StoredPaths(ctx, chat.Attachments)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		out = append(out, chatOut{SupportChat: chat, AttachmentURLs: attachmentURLs(h.Store, paths)})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": ticket, "chats": out})
}

// AddChat appends a message to the ticket thread.  Sent as multipart so
// attachments can ride along under the "files" field.
func (h *SupportHandler) AddChat(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ticket, errResp := h.loadTicket(c, ctx)
	if ticket == nil {
		return errResp
	}
	if ticket.Status == model.TicketClosed {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "ticket is closed"})
	}

	message := strings.TrimSpace(c.FormValue("message"))
	if message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message required"})
	}

	var attachments []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["files"] {
			src, err := fh.Open()
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read file failed"})
			}
			mime := fh.Header.Get("Content-Type")
			id, storedPath, err := h.Store.Save("support", fh.Filename, mime, src, fh.Size)
			src.Close()
			if err != nil {
				return uploadErrorResponse(c, err)
			}
			m := &model.Media{
				ID:           id,
				Collection:   "support",
				OriginalName: fh.Filename,
				StoredPath:   storedPath,
				Mime:         mime,
				Size:         fh.Size,
			}
			if err := h.Media.Add(ctx, m); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record file failed"})
			}
			attachments = append(attachments, id)
		}
	}

	senderType := model.SenderStaff
	if currentActor(c) == utils.ActorCompany {
		senderType = model.SenderCompany
	}
	chat := &model.SupportChat{
		TicketID:    ticket.ID,
		SenderType:  senderType,
		SenderID:    currentUserID(c),
		Message:     message,
		Attachments: attachments,
	}
	if err := h.Support.AddChat(ctx, chat); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add chat failed"})
	}

	// A company reply reopens a resolved ticket for staff attention.
	if senderType == model.SenderCompany && ticket.Status == model.TicketResolved {
		_ = h.Support.UpdateStatus(ctx, ticket.ID, model.TicketInProgress)
	}
	return c.JSON(http.StatusCreated, chat)
}

// UpdateTicketStatus moves a ticket between open, in_progress, resolved
// and closed.  Staff only.
func (h *SupportHandler) UpdateTicketStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	switch req.Status {
	case model.TicketOpen, model.TicketInProgress, model.TicketResolved, model.TicketClosed:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ticket, errResp := h.loadTicket(c, ctx)
	if ticket == nil {
		return errResp
	}
	if err := h.Support.UpdateStatus(ctx, ticket.ID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": ticket.ID, "status": req.Status})
}

// attachmentURLs resolves stored paths to the public URLs clients can
// fetch them from.
func attachmentURLs(store *storage.Store, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, store.URL(p))
	}
	return out
}
