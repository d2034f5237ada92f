package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	appchat "healthchat-backend/application/chat"
	"healthchat-backend/pkg/auth"
	"healthchat-backend/pkg/common"
	"healthchat-backend/pkg/reveal"
	"healthchat-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatHandler handles the exchange and history endpoints
type ChatHandler struct {
	chat           *appchat.Service
	revealInterval time.Duration
	logger         *zap.Logger

	// One renderer per account: a new streamed exchange from the same
	// account cancels that account's in-flight reveal.
	renderers sync.Map // accountID -> *reveal.Renderer
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *appchat.Service, revealInterval time.Duration, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:           chat,
		revealInterval: revealInterval,
		logger:         logger,
	}
}

// ExchangeRequest represents the request body for one exchange
type ExchangeRequest struct {
	Question string `json:"question" validate:"required"`
}

// ExchangeResponse carries the answer and the persistence outcome
type ExchangeResponse struct {
	ID           string    `json:"id,omitempty"`
	Answer       string    `json:"answer"`
	Persisted    bool      `json:"persisted"`
	Timestamp    time.Time `json:"timestamp"`
	FinishReason string    `json:"finishReason,omitempty"`
	ModelVersion string    `json:"modelVersion,omitempty"`
	InputTokens  int32     `json:"inputTokens,omitempty"`
	OutputTokens int32     `json:"outputTokens,omitempty"`
}

// TurnResponse is one history entry
type TurnResponse struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Exchange handles POST /api/chat/exchange
func (h *ChatHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthenticated")
		return
	}

	req, ok := h.decodeExchangeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.chat.Exchange(r.Context(), userCtx.AccountID, req.Question)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, exchangeResponse(result))
}

// StreamExchange handles POST /api/chat/exchange/stream. The exchange runs
// to completion first; the finished answer is then revealed progressively
// as Server-Sent Events. Client disconnect cancels the reveal through the
// request context.
func (h *ChatHandler) StreamExchange(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthenticated")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "streaming unsupported")
		return
	}

	req, ok := h.decodeExchangeRequest(w, r)
	if !ok {
		return
	}

	result, err := h.chat.Exchange(r.Context(), userCtx.AccountID, req.Question)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	renderer := h.rendererFor(userCtx.AccountID)

	type revealEvent struct {
		Text string `json:"text"`
		Done bool   `json:"done"`
	}

	emit := func(prefix string) {
		payload, _ := json.Marshal(revealEvent{Text: prefix})
		w.Write([]byte("data: "))
		w.Write(payload)
		w.Write([]byte("\n\n"))
		flusher.Flush()
	}

	done := renderer.Start(r.Context(), result.Turn.Answer, emit)
	<-done

	final := exchangeResponse(result)
	payload, _ := json.Marshal(struct {
		Done bool `json:"done"`
		ExchangeResponse
	}{Done: true, ExchangeResponse: final})
	w.Write([]byte("data: "))
	w.Write(payload)
	w.Write([]byte("\n\n"))
	flusher.Flush()
}

// History handles GET /api/chat/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthenticated")
		return
	}

	turns, err := h.chat.History(r.Context(), userCtx.AccountID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]TurnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, TurnResponse{
			ID:        t.ID,
			Question:  t.Question,
			Answer:    t.Answer,
			Timestamp: t.CreatedAt,
		})
	}

	common.RespondJSON(w, http.StatusOK, out)
}

// DeleteTurn handles DELETE /api/chat/history/{turnID}
func (h *ChatHandler) DeleteTurn(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthenticated")
		return
	}

	turnID := chi.URLParam(r, "turnID")
	if turnID == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "turn id is required")
		return
	}

	if err := h.chat.DeleteTurn(r.Context(), userCtx.AccountID, turnID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeExchangeRequest parses and validates the exchange body
func (h *ChatHandler) decodeExchangeRequest(w http.ResponseWriter, r *http.Request) (*ExchangeRequest, bool) {
	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return nil, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return nil, false
	}
	return &req, true
}

// rendererFor returns the account's renderer, creating it on first use
func (h *ChatHandler) rendererFor(accountID string) *reveal.Renderer {
	if existing, ok := h.renderers.Load(accountID); ok {
		return existing.(*reveal.Renderer)
	}
	created, _ := h.renderers.LoadOrStore(accountID, reveal.NewRenderer(h.revealInterval))
	return created.(*reveal.Renderer)
}

func exchangeResponse(result *appchat.ExchangeResult) ExchangeResponse {
	resp := ExchangeResponse{
		Answer:    result.Turn.Answer,
		Persisted: result.Persisted,
		Timestamp: result.Turn.CreatedAt,
	}
	if result.Persisted {
		resp.ID = result.Turn.ID
	}
	if result.Completion != nil {
		resp.FinishReason = result.Completion.FinishReason
		resp.ModelVersion = result.Completion.ModelVersion
		resp.InputTokens = result.Completion.InputTokens
		resp.OutputTokens = result.Completion.OutputTokens
	}
	return resp
}
