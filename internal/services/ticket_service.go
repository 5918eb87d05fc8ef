package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

// TicketService owns support tickets: created by users, resolved once by an
// admin reply, never reopened.
type TicketService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTicketService builds a TicketService.
func NewTicketService(st *store.Store, logger *zap.Logger) *TicketService {
	return &TicketService{store: st, logger: logger}
}

// TicketInput is a user's support request.
type TicketInput struct {
	Type    models.TicketType `json:"type"`
	Subject string            `json:"subject"`
	Message string            `json:"message"`
}

// Create opens a pending ticket on behalf of userID.
func (s *TicketService) Create(ctx context.Context, userID, userName string, input TicketInput) (models.SupportTicket, error) {
	switch input.Type {
	case models.TicketComplaint, models.TicketHelp, models.TicketReturn:
	default:
		return models.SupportTicket{}, types.NewDomainError(types.ErrValidation, "unknown ticket type %q", input.Type)
	}
	if input.Subject == "" {
		return models.SupportTicket{}, types.NewDomainError(types.ErrValidation, "subject is required")
	}

	ticket := models.SupportTicket{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  userName,
		Type:      input.Type,
		Subject:   input.Subject,
		Message:   input.Message,
		Status:    models.TicketPending,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		doc.Tickets = append(doc.Tickets, ticket)
		return nil
	})
	if err != nil {
		return models.SupportTicket{}, err
	}
	return ticket, nil
}

// Resolve applies the one-shot pending to resolved transition with the admin
// reply attached. Resolving an already resolved ticket is a conflict.
func (s *TicketService) Resolve(ctx context.Context, rev uint64, ticketID, adminReply string) (uint64, error) {
	newRev, err := s.store.Update(ctx, rev, func(doc *models.Document) error {
		for i := range doc.Tickets {
			if doc.Tickets[i].ID != ticketID {
				continue
			}
			if doc.Tickets[i].Status == models.TicketResolved {
				return types.NewDomainError(types.ErrConflict, "ticket %s is already resolved", ticketID)
			}
			doc.Tickets[i].Status = models.TicketResolved
			doc.Tickets[i].AdminReply = adminReply
			return nil
		}
		return types.NewDomainError(types.ErrNotFound, "ticket %s not found", ticketID)
	})
	if err == nil {
		s.logger.Info("ticket resolved", zap.String("ticket_id", ticketID))
	}
	return newRev, err
}

// List returns tickets newest first. userID narrows to one requester; empty
// userID is the admin view.
func (s *TicketService) List(ctx context.Context, userID string) []models.SupportTicket {
	var out []models.SupportTicket
	s.store.View(ctx, func(doc *models.Document) {
		out = make([]models.SupportTicket, 0, len(doc.Tickets))
		for _, t := range doc.Tickets {
			if userID == "" || t.UserID == userID {
				out = append(out, t)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
