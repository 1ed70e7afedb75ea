package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/middleware"
	"github.com/SaraLat04/Assistant-Juridique/models"
	"github.com/SaraLat04/Assistant-Juridique/repositories"
	"github.com/SaraLat04/Assistant-Juridique/services"
	"github.com/SaraLat04/Assistant-Juridique/utils"
)

// CreateConversationRequest is the POST /conversations payload.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// AddMessageRequest is the POST /conversations/{id}/messages payload.
type AddMessageRequest struct {
	Role      string `json:"role" validate:"required,oneof=user bot"`
	Text      string `json:"text" validate:"required"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ConversationHandler handles conversation history HTTP requests
type ConversationHandler struct {
	repo   repositories.ConversationRepository
	logger *zap.Logger
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(repo repositories.ConversationRepository, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		repo:   repo,
		logger: logger,
	}
}

// HandleCreate handles POST /conversations
func (h *ConversationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body CreateConversationRequest
	if r.Body != nil {
		// An empty or absent body starts an untitled conversation.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	id, err := h.repo.Create(r.Context(), body.Title)
	if err != nil {
		h.logger.Error("failed to create conversation",
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "failed to create conversation")
		return
	}

	_ = utils.WriteCreated(w, map[string]string{"conversation_id": id.String()})
}

// HandleList handles GET /conversations
func (h *ConversationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list conversations", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "failed to list conversations")
		return
	}

	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}
	_ = utils.WriteOK(w, summaries)
}

// HandleGet handles GET /conversations/{id}
func (h *ConversationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteNotFound(w, "conversation not found")
		return
	}

	conv, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if services.IsNotFoundError(err) {
			_ = utils.WriteNotFound(w, "conversation not found")
			return
		}
		h.logger.Error("failed to get conversation", zap.String("conversation_id", id.String()), zap.Error(err))
		_ = utils.WriteInternalServerError(w, "failed to get conversation")
		return
	}

	_ = utils.WriteOK(w, conv)
}

// HandleAddMessage handles POST /conversations/{id}/messages
func (h *ConversationHandler) HandleAddMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		_ = utils.WriteNotFound(w, "conversation not found")
		return
	}

	var body AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = utils.WriteBadRequest(w, "invalid JSON body", nil)
		return
	}

	if err := utils.ValidateStruct(body); err != nil {
		if verr, ok := err.(*utils.ValidationError); ok {
			_ = utils.WriteBadRequest(w, verr.Message, verr.Fields)
		} else {
			_ = utils.WriteBadRequest(w, "invalid message", nil)
		}
		return
	}

	ts := body.Timestamp
	if ts == "" {
		ts = models.NowISO8601()
	}

	if _, err := h.repo.AddMessage(r.Context(), id, body.Role, body.Text, ts); err != nil {
		if services.IsNotFoundError(err) {
			_ = utils.WriteNotFound(w, "conversation not found")
			return
		}
		h.logger.Error("failed to add message", zap.String("conversation_id", id.String()), zap.Error(err))
		_ = utils.WriteInternalServerError(w, "failed to add message")
		return
	}

	_ = utils.WriteCreated(w, map[string]string{"status": "ok"})
}
