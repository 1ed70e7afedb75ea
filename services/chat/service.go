package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/models"
	"github.com/SaraLat04/Assistant-Juridique/repositories"
	"github.com/SaraLat04/Assistant-Juridique/services"
	"github.com/SaraLat04/Assistant-Juridique/services/answer"
	"github.com/SaraLat04/Assistant-Juridique/services/retrieval"
	"github.com/SaraLat04/Assistant-Juridique/vectorstore"
)

// AskRequest is one question, optionally continuing an existing conversation.
type AskRequest struct {
	Question       string
	ConversationID string
}

// AskResponse is the terminal result of the pipeline.
type AskResponse struct {
	Question       string      `json:"question"`
	Answer         string      `json:"answer"`
	SourcesCount   int         `json:"sources_count"`
	Mode           models.Mode `json:"mode"`
	ConversationID string      `json:"conversation_id"`
}

// Generator abstracts the generation cascade for the orchestrator.
type Generator interface {
	Generate(ctx context.Context, question, contextText string) string
}

// ChatService composes retrieval, gating, generation, formatting, and
// conversation persistence into the end-to-end request lifecycle. It is
// stateless across requests; the vector store and the repository are the only
// shared resources.
type ChatService struct {
	store      vectorstore.Store
	repo       repositories.ConversationRepository
	gatePolicy retrieval.GatePolicy
	topK       int
	cascade    Generator
	logger     *zap.Logger
}

// NewChatService creates the orchestrator.
func NewChatService(
	store vectorstore.Store,
	repo repositories.ConversationRepository,
	gatePolicy retrieval.GatePolicy,
	topK int,
	cascade Generator,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		store:      store,
		repo:       repo,
		gatePolicy: gatePolicy,
		topK:       topK,
		cascade:    cascade,
		logger:     logger,
	}
}

// Ask runs one question through the full pipeline. Persistence failures are
// soft (logged, the answer still flows); retrieval failures are hard since no
// meaningful answer can be produced without the store.
func (s *ChatService) Ask(ctx context.Context, req AskRequest) (*AskResponse, error) {
	// Step 1: validate. Rejected questions cause no side effects.
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, services.ErrEmptyQuestion
	}

	s.logger.Info("question received",
		zap.String("question", question),
		zap.String("conversation_id", req.ConversationID))

	// Step 2: ensure a conversation and record the user's turn (soft).
	conversationID := s.ensureConversation(ctx, req.ConversationID, question)
	s.persistTurn(ctx, conversationID, models.RoleUser, question)

	// Step 3: retrieve. This is the only load-bearing collaborator.
	matches, err := s.store.Query(ctx, question, s.topK)
	if err != nil {
		return nil, services.WrapError(services.ErrorTypeRetrieval,
			"vector store query failed", err)
	}

	outcome := retrieval.Classify(matches, s.gatePolicy)
	s.logger.Info("retrieval gated",
		zap.String("mode", string(outcome.Mode)),
		zap.Int("retrieved", len(matches)),
		zap.Int("relevant", len(outcome.Relevant)),
		zap.String("policy", s.gatePolicy.String()))

	// Steps 4-5: generate and format, per mode.
	var finalAnswer string
	switch outcome.Mode {
	case models.ModeGrounded:
		contextText, blocks := retrieval.BuildContext(outcome.Relevant)
		if generated := s.cascade.Generate(ctx, question, contextText); generated != "" {
			finalAnswer = answer.FormatGenerated(generated, blocks)
		} else {
			s.logger.Warn("grounded cascade exhausted, using extractive fallback")
			finalAnswer = answer.FormatExtractive(question, blocks)
		}
	default:
		if generated := s.cascade.Generate(ctx, question, ""); generated != "" {
			finalAnswer = generated
		} else {
			s.logger.Warn("general cascade exhausted, using capability message")
			finalAnswer = answer.CapabilityMessage()
		}
	}

	// Step 6: record the bot's turn (soft).
	s.persistTurn(ctx, conversationID, models.RoleBot, finalAnswer)

	// Step 7: respond.
	return &AskResponse{
		Question:       question,
		Answer:         finalAnswer,
		SourcesCount:   len(outcome.Relevant),
		Mode:           outcome.Mode,
		ConversationID: conversationID,
	}, nil
}

// ensureConversation returns the caller-supplied conversation id, or creates a
// conversation titled after the question. Creation failure is soft: the answer
// still flows, it just is not recorded.
func (s *ChatService) ensureConversation(ctx context.Context, conversationID, question string) string {
	if conversationID != "" {
		return conversationID
	}

	id, err := s.repo.Create(ctx, models.TitleFromQuestion(question))
	if err != nil {
		s.logger.Warn("failed to create conversation", zap.Error(err))
		return ""
	}
	return id.String()
}

func (s *ChatService) persistTurn(ctx context.Context, conversationID, role, text string) {
	if conversationID == "" {
		return
	}

	id, err := uuid.Parse(conversationID)
	if err != nil {
		s.logger.Warn("invalid conversation id, turn not persisted",
			zap.String("conversation_id", conversationID))
		return
	}

	if _, err := s.repo.AddMessage(ctx, id, role, text, ""); err != nil {
		s.logger.Warn("failed to persist turn",
			zap.String("conversation_id", conversationID),
			zap.String("role", role),
			zap.Error(err))
	}
}
