package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/models"
	"github.com/SaraLat04/Assistant-Juridique/services"
	"github.com/SaraLat04/Assistant-Juridique/services/chat"
)

// MockAskService is a mock implementation of AskService
type MockAskService struct {
	mock.Mock
}

func (m *MockAskService) Ask(ctx context.Context, req chat.AskRequest) (*chat.AskResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.AskResponse), args.Error(1)
}

func TestHandleAsk(t *testing.T) {
	logger := zap.NewNop()

	t.Run("successful answer", func(t *testing.T) {
		svc := new(MockAskService)
		handler := NewChatHandler(svc, logger)

		svc.On("Ask", mock.Anything, chat.AskRequest{Question: "Quelle est la peine pour vol ?"}).
			Return(&chat.AskResponse{
				Question:       "Quelle est la peine pour vol ?",
				Answer:         "**Réponse juridique :** ...",
				SourcesCount:   2,
				Mode:           models.ModeGrounded,
				ConversationID: "b2f7f5a0-0000-0000-0000-000000000000",
			}, nil)

		body := bytes.NewBufferString(`{"question":"Quelle est la peine pour vol ?"}`)
		req := httptest.NewRequest(http.MethodPost, "/ask", body)
		rec := httptest.NewRecorder()

		handler.HandleAsk(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp chat.AskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.ModeGrounded, resp.Mode)
		assert.Equal(t, 2, resp.SourcesCount)
		svc.AssertExpectations(t)
	})

	t.Run("empty question returns 400", func(t *testing.T) {
		svc := new(MockAskService)
		handler := NewChatHandler(svc, logger)

		svc.On("Ask", mock.Anything, mock.Anything).Return(nil, services.ErrEmptyQuestion)

		req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{"question":""}`))
		rec := httptest.NewRecorder()

		handler.HandleAsk(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "question")
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		svc := new(MockAskService)
		handler := NewChatHandler(svc, logger)

		req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{question`))
		rec := httptest.NewRecorder()

		handler.HandleAsk(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Ask")
	})

	t.Run("retrieval failure returns 500", func(t *testing.T) {
		svc := new(MockAskService)
		handler := NewChatHandler(svc, logger)

		svc.On("Ask", mock.Anything, mock.Anything).
			Return(nil, services.WrapError(services.ErrorTypeRetrieval, "vector store query failed", errors.New("connection refused")))

		req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString(`{"question":"Bonjour"}`))
		rec := httptest.NewRecorder()

		handler.HandleAsk(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		// Internal failure details never leak to the client.
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}
