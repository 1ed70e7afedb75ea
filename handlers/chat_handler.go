package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/middleware"
	"github.com/SaraLat04/Assistant-Juridique/services"
	"github.com/SaraLat04/Assistant-Juridique/services/chat"
	"github.com/SaraLat04/Assistant-Juridique/utils"
)

// AskService is the orchestrator capability the handler depends on.
type AskService interface {
	Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error)
}

// AskRequestBody is the POST /ask payload.
type AskRequestBody struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatHandler handles question-answering HTTP requests
type ChatHandler struct {
	service AskService
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service AskService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// HandleAsk handles POST /ask
func (h *ChatHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	var body AskRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_ = utils.WriteBadRequest(w, "invalid JSON body", nil)
		return
	}

	resp, err := h.service.Ask(r.Context(), chat.AskRequest{
		Question:       body.Question,
		ConversationID: body.ConversationID,
	})
	if err != nil {
		switch {
		case services.IsValidationError(err):
			_ = utils.WriteBadRequest(w, "question is required", nil)
		default:
			h.logger.Error("ask pipeline failed",
				zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
				zap.Error(err))
			_ = utils.WriteInternalServerError(w, "failed to answer question")
		}
		return
	}

	_ = utils.WriteOK(w, resp)
}
