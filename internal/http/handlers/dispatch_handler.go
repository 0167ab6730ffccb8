// Transformation HTTP handlers.
//
// This file exposes the four mode endpoints:
//   - POST /generate   (free-form completion)
//   - POST /title      (concise title for a text)
//   - POST /summarize  (short summary of a text)
//   - POST /keywords   (distinct keywords extracted from a text)
//
// Handlers are transport-thin:
//   - bind & sanitize the JSON payload
//   - delegate the full pipeline (validation, auth, rate limit, provider
//     call, history append) to the dispatch service
//   - translate service and provider errors into the uniform envelope
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (client, mode, key), the handler returns the recorded
// response payload and sets `Idempotency-Replayed: true`. Replays skip the
// provider entirely and append no new history record.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-text-gateway/internal/auth"
	"github.com/tbourn/go-text-gateway/internal/domain"
	"github.com/tbourn/go-text-gateway/internal/http/middleware"
	"github.com/tbourn/go-text-gateway/internal/provider"
	"github.com/tbourn/go-text-gateway/internal/repo"
	"github.com/tbourn/go-text-gateway/internal/services"
)

//
// Service contracts (context-aware)
//

// Dispatcher runs the request pipeline for one transformation mode.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type Dispatcher interface {
	// Dispatch validates input, applies the auth gate and rate limiter, calls
	// the provider, and appends a history record.
	Dispatch(ctx context.Context, mode domain.Mode, input, credential, clientIP string) (*services.Result, error)
	// Get fetches a single history record by id (used for idempotent replays).
	Get(ctx context.Context, id int64) (*domain.Record, error)
}

// HistoryReader exposes the read side of the request log.
type HistoryReader interface {
	// List returns up to limit records, newest first, shifted by offset.
	List(ctx context.Context, limit, offset int) ([]domain.Record, error)
	// Stats returns the record count and newest created_at for ETag support.
	Stats(ctx context.Context) (int64, *time.Time, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for transformations and history.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	dispatchSvc Dispatcher
	historySvc  HistoryReader
	gate        *auth.Gate
	idemTTL     time.Duration
}

// New constructs a Handlers instance bound to the given services. gate guards
// GET /history at the transport layer (the dispatch service applies it for
// the POST endpoints); idemTTL bounds how long an Idempotency-Key stays valid.
func New(dispatchSvc Dispatcher, historySvc HistoryReader, gate *auth.Gate, idemTTL time.Duration) *Handlers {
	if gate == nil {
		gate = auth.NewGate("")
	}
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &Handlers{dispatchSvc: dispatchSvc, historySvc: historySvc, gate: gate, idemTTL: idemTTL}
}

// credential extracts the bearer token from the Authorization header.
// An absent or non-Bearer header yields the empty credential.
func credential(c *gin.Context) string {
	cred, _ := auth.ParseBearer(c.GetHeader("Authorization"))
	return cred
}

//
// DTOs
//

// GenerateRequest is the JSON payload for POST /generate.
type GenerateRequest struct {
	// Prompt is the free-form user text. It must be non-empty.
	Prompt string `json:"prompt" binding:"required,min=1" example:"Write a haiku about container orchestration"`
}

// TextRequest is the JSON payload for the title, summarize and keywords modes.
type TextRequest struct {
	// Text is the source document. It must be non-empty.
	Text string `json:"text" binding:"required,min=1" example:"Kubernetes is an open-source system for automating deployment..."`
}

// TextResponse carries the single-string result of generate/title/summarize.
type TextResponse struct {
	Text string `json:"text" example:"A Concise Title"`
}

// KeywordsResponse carries the sorted, de-duplicated keyword list.
type KeywordsResponse struct {
	Keywords []string `json:"keywords" example:"deployment,kubernetes,orchestration"`
}

//
// Handlers
//

// Generate godoc
// @ID          generate
// @Summary     Free-form completion
// @Description Sends the prompt to the configured model and returns the completion.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Transformations
// @Accept      json
// @Produce     json
//
// @Param       Authorization    header  string  false "Bearer token (required when the gate is configured)"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"
// @Param       body             body    handlers.GenerateRequest  true  "Prompt payload"
//
// @Success     200  {object}  handlers.TextResponse   "Completion"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limit exceeded"
// @Failure     502  {object}  handlers.ErrorResponse  "Upstream failure"
// @Failure     504  {object}  handlers.ErrorResponse  "Upstream timeout"
// @Router      /generate [post]
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "prompt required")
		return
	}
	h.dispatch(c, domain.ModeGenerate, req.Prompt)
}

// Title godoc
// @ID          title
// @Summary     Generate a concise title
// @Tags        Transformations
// @Accept      json
// @Produce     json
// @Param       Authorization    header  string  false "Bearer token (required when the gate is configured)"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.TextRequest  true  "Source text"
// @Success     200  {object}  handlers.TextResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     429  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Failure     504  {object}  handlers.ErrorResponse
// @Router      /title [post]
func (h *Handlers) Title(c *gin.Context) {
	h.textMode(c, domain.ModeTitle)
}

// Summarize godoc
// @ID          summarize
// @Summary     Summarize a text
// @Tags        Transformations
// @Accept      json
// @Produce     json
// @Param       Authorization    header  string  false "Bearer token (required when the gate is configured)"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.TextRequest  true  "Source text"
// @Success     200  {object}  handlers.TextResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     429  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Failure     504  {object}  handlers.ErrorResponse
// @Router      /summarize [post]
func (h *Handlers) Summarize(c *gin.Context) {
	h.textMode(c, domain.ModeSummarize)
}

// Keywords godoc
// @ID          keywords
// @Summary     Extract keywords from a text
// @Description Returns distinct, case-folded keywords sorted alphabetically.
// @Tags        Transformations
// @Accept      json
// @Produce     json
// @Param       Authorization    header  string  false "Bearer token (required when the gate is configured)"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.TextRequest  true  "Source text"
// @Success     200  {object}  handlers.KeywordsResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     429  {object}  handlers.ErrorResponse
// @Failure     502  {object}  handlers.ErrorResponse
// @Failure     504  {object}  handlers.ErrorResponse
// @Router      /keywords [post]
func (h *Handlers) Keywords(c *gin.Context) {
	h.textMode(c, domain.ModeKeywords)
}

// textMode binds the shared {"text": ...} payload and dispatches.
func (h *Handlers) textMode(c *gin.Context, mode domain.Mode) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "text required")
		return
	}
	h.dispatch(c, mode, req.Text)
}

// dispatch runs the replay check, the service pipeline, and the idempotency
// store path shared by all four mode endpoints.
func (h *Handlers) dispatch(c *gin.Context, mode domain.Mode, input string) {
	ctx := c.Request.Context()
	cred := credential(c)

	// Idempotency (replay path) – the validator middleware has already looked
	// the key up and marked the request; the handler only re-checks the gate so
	// an unauthorized retry cannot read a stored result.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" && middleware.IsReplay(c) && h.gate.Authorize(cred) {
		if recordID, found := middleware.ReplayRecordID(c); found {
			if prev, err := h.dispatchSvc.Get(ctx, recordID); err == nil {
				c.Header("Idempotency-Replayed", "true")
				c.Data(http.StatusOK, "application/json; charset=utf-8", prev.Response)
				return
			}
		}
	}

	res, err := h.dispatchSvc.Dispatch(ctx, mode, input, cred, c.ClientIP())
	if err != nil {
		h.failDispatch(c, mode, err)
		return
	}
	middleware.ObserveDispatch(string(mode), "ok")

	// Idempotency (store path) – best effort.
	if idemKey != "" && res.Record != nil && res.Record.ID != 0 {
		if svc, okSvc := h.dispatchSvc.(*services.DispatchService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, res.Record.ClientIdentity, mode, idemKey,
				res.Record.ID, http.StatusOK, h.idemTTL)
		}
	}

	if mode == domain.ModeKeywords {
		ok(c, http.StatusOK, KeywordsResponse{Keywords: res.Keywords})
		return
	}
	ok(c, http.StatusOK, TextResponse{Text: res.Text})
}

// failDispatch maps pipeline errors onto the HTTP envelope. Validation, auth
// and rate failures carry their service messages; provider failures map the
// classification onto 502/504 with the stable code.
func (h *Handlers) failDispatch(c *gin.Context, mode domain.Mode, err error) {
	outcome := "rejected"
	if _, isProvider := provider.AsError(err); isProvider {
		outcome = "error"
	}
	middleware.ObserveDispatch(string(mode), outcome)

	switch err {
	case services.ErrEmptyInput:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "input is empty")
		return
	case services.ErrTooLong:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "input too long")
		return
	case services.ErrUnknownMode:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown mode")
		return
	case services.ErrUnauthorized:
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or missing bearer token")
		return
	case services.ErrRateLimited:
		fail(c, http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded")
		return
	}

	if pe, okErr := provider.AsError(err); okErr {
		switch pe.Kind {
		case provider.KindTimeout:
			fail(c, http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "provider timed out")
		case provider.KindInvalidResponse:
			fail(c, http.StatusBadGateway, ErrCodeInvalidResponse, "provider returned an unusable response")
		default:
			fail(c, http.StatusBadGateway, ErrCodeUpstream, "provider request failed")
		}
		return
	}

	fail(c, http.StatusInternalServerError, ErrCodeInternal, fmt.Sprintf("dispatch failed: %v", err))
}
