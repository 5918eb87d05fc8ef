package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/ai"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/triage"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/types"
)

const (
	generalSystemPrompt = "You are a supportive, privacy-conscious women's health advisor. " +
		"Give practical guidance and always recommend professional care for anything serious."
	nurseSystemPrompt = "You are a triage nurse. The user may be in a medical emergency. " +
		"Stay calm, give immediate-safety guidance first, and tell the user to contact " +
		"emergency services when warranted."

	// Fallback replies when the AI service is unreachable. The escalation
	// decision is made before the call, so the emergency variant is shown
	// whenever the turn escalated, regardless of why the call failed.
	emergencyFallbackReply = "I can't reach the assistant right now. If this is a medical " +
		"emergency, call your local emergency number immediately. A nurse has been notified " +
		"of your message."
	genericFallbackReply = "The assistant is experiencing high traffic right now. " +
		"Please try again in a moment."
)

// TurnResult is what the UI needs after one health-chat turn.
type TurnResult struct {
	Reply          string          `json:"reply"`
	Persona        models.ChatRole `json:"persona"`
	Escalated      bool            `json:"escalated"`
	SwitchToTriage bool            `json:"switchToTriage"`
	Citations      []ai.Citation   `json:"citations,omitempty"`
}

// ChatService runs health-chat turns: classify, generate, persist the audit
// entry when a turn escalates.
type ChatService struct {
	store           *store.Store
	chatter         ai.Chatter
	classifier      triage.Classifier
	keyFetchTimeout time.Duration
	logger          *zap.Logger
}

// NewChatService builds a ChatService.
func NewChatService(st *store.Store, chatter ai.Chatter, classifier triage.Classifier, keyFetchTimeout time.Duration, logger *zap.Logger) *ChatService {
	return &ChatService{
		store:           st,
		chatter:         chatter,
		classifier:      classifier,
		keyFetchTimeout: keyFetchTimeout,
		logger:          logger,
	}
}

// HandleTurn processes one user message. The escalation decision is computed
// BEFORE the AI call and is never affected by the call's outcome; an
// escalated turn always persists its audit entry, switches the persona to
// nurse, and asks the UI to pin the triage tab.
func (s *ChatService) HandleTurn(ctx context.Context, user models.UserAccount, text string, history []ai.ChatTurn, nurseMode bool) TurnResult {
	escalated := s.classifier.Classify(text, nurseMode)

	persona := models.ChatRoleModel
	system := generalSystemPrompt
	if escalated {
		persona = models.ChatRoleNurse
		system = nurseSystemPrompt
	}

	reply, citations := s.generate(ctx, system, history, text)
	if reply == "" {
		if escalated {
			reply = emergencyFallbackReply
		} else {
			reply = genericFallbackReply
		}
	}

	if escalated {
		s.writeEscalationAudit(ctx, user, text, reply)
	}

	return TurnResult{
		Reply:          reply,
		Persona:        persona,
		Escalated:      escalated,
		SwitchToTriage: escalated && !nurseMode,
		Citations:      citations,
	}
}

// generate calls the AI service, resolving the settings key override under
// its own short budget. An empty reply means the call failed.
func (s *ChatService) generate(ctx context.Context, system string, history []ai.ChatTurn, text string) (string, []ai.Citation) {
	keyCtx, cancel := context.WithTimeout(ctx, s.keyFetchTimeout)
	var keyOverride string
	s.store.View(keyCtx, func(doc *models.Document) {
		keyOverride = doc.Settings.AIServiceKey
	})
	cancel()

	resp, err := s.chatter.Generate(ctx, ai.ChatRequest{
		System:         system,
		History:        history,
		Message:        text,
		APIKeyOverride: keyOverride,
	})
	if err != nil {
		s.logger.Warn("chat generation failed", zap.Error(err))
		return "", nil
	}
	return resp.Text, resp.Citations
}

// writeEscalationAudit persists the mandatory audit entry for an escalated
// turn: the triggering user text combined with the reply, flagged escalated
// and saved, written unconditionally and without user confirmation. Failure
// to write is logged and never surfaced to the user.
func (s *ChatService) writeEscalationAudit(ctx context.Context, user models.UserAccount, text, reply string) {
	entry := models.ChatMessage{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Role:        models.ChatRoleNurse,
		Text:        fmt.Sprintf("[ESCALATED] %s: %s\n---\n%s", user.Name, text, reply),
		Timestamp:   time.Now().UTC(),
		IsEscalated: true,
		IsSaved:     true,
	}

	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		doc.ChatMessages = append(doc.ChatMessages, entry)
		return nil
	})
	if err != nil {
		s.logger.Error("escalation audit write failed",
			zap.String("user_id", user.ID), zap.Error(err))
	}
}

// SaveMessage durably persists a chat message a nurse chose to keep.
func (s *ChatService) SaveMessage(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	if msg.Text == "" {
		return models.ChatMessage{}, types.NewDomainError(types.ErrValidation, "message text is required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	msg.IsSaved = true

	_, err := s.store.Update(ctx, 0, func(doc *models.Document) error {
		doc.ChatMessages = append(doc.ChatMessages, msg)
		return nil
	})
	if err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// DeleteMessage removes one persisted message.
func (s *ChatService) DeleteMessage(ctx context.Context, rev uint64, messageID string) (uint64, error) {
	return s.store.Update(ctx, rev, func(doc *models.Document) error {
		for i := range doc.ChatMessages {
			if doc.ChatMessages[i].ID == messageID {
				doc.ChatMessages = append(doc.ChatMessages[:i], doc.ChatMessages[i+1:]...)
				return nil
			}
		}
		return types.NewDomainError(types.ErrNotFound, "chat message %s not found", messageID)
	})
}

// List returns persisted chat messages newest first.
func (s *ChatService) List(ctx context.Context) []models.ChatMessage {
	var out []models.ChatMessage
	s.store.View(ctx, func(doc *models.Document) {
		out = append([]models.ChatMessage{}, doc.ChatMessages...)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}
