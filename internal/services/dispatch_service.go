// Package services – DispatchService
//
// This file implements DispatchService, the application-level component that
// owns the request pipeline for every transformation mode. A request moves
// through a fixed sequence: validation, the auth gate, the per-client rate
// limiter, prompt shaping, the provider call, and finally the history append.
// Failures before the provider call write nothing; provider failures are
// recorded best-effort with status "error"; storage failures are logged and
// never change the response the client receives.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// the mode and the derived client identity.

package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-text-gateway/internal/auth"
	"github.com/tbourn/go-text-gateway/internal/domain"
	"github.com/tbourn/go-text-gateway/internal/prompt"
	"github.com/tbourn/go-text-gateway/internal/provider"
	"github.com/tbourn/go-text-gateway/internal/ratelimit"
	"github.com/tbourn/go-text-gateway/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
)

const (
	// fallbackTitle replaces a blank title completion.
	fallbackTitle = "Untitled"

	// recordWriteTimeout bounds the best-effort failure-record append, which
	// runs on a fresh context so a client disconnect cannot suppress it.
	recordWriteTimeout = 2 * time.Second
)

// Result is the outcome of a successful dispatch: the appended history record
// plus the mode-shaped payload for the HTTP response.
type Result struct {
	Record   *domain.Record
	Text     string
	Keywords []string
}

// DispatchService coordinates validation, admission control, the provider
// call, and history persistence for a single request.
type DispatchService struct {
	DB       *gorm.DB
	Gate     *auth.Gate
	Limiter  *ratelimit.Limiter
	Provider provider.Completer

	MaxInputRunes int
}

// Dispatch runs the full pipeline for one request. credential is the raw
// bearer token (may be empty); clientIP is the remote address used for
// identity when no token is presented.
func (s *DispatchService) Dispatch(ctx context.Context, mode domain.Mode, input, credential, clientIP string) (*Result, error) {
	tr := otel.Tracer("services/DispatchService")
	ctx, span := tr.Start(ctx, "Dispatch",
		trace.WithAttributes(attribute.String("gateway.mode", string(mode))),
	)
	defer span.End()

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	if s.MaxInputRunes > 0 && utf8.RuneCountInString(input) > s.MaxInputRunes {
		return nil, ErrTooLong
	}
	// Mode is part of validation: an unknown mode must fail before the gate
	// and before it can consume rate budget.
	if _, err := domain.ParseMode(string(mode)); err != nil {
		return nil, ErrUnknownMode
	}

	if !s.Gate.Authorize(credential) {
		return nil, ErrUnauthorized
	}
	identity := auth.Identity(credential, clientIP)
	span.SetAttributes(attribute.String("gateway.client", identity))

	if !s.Limiter.Allow(identity) {
		return nil, ErrRateLimited
	}

	p, err := prompt.Build(mode, input)
	if err != nil {
		switch {
		case err == prompt.ErrEmptyInput:
			return nil, ErrEmptyInput
		case err == prompt.ErrUnknownMode:
			return nil, ErrUnknownMode
		}
		return nil, err
	}

	completion, err := s.Provider.Complete(ctx, p)
	if err != nil {
		s.recordFailure(ctx, mode, input, identity, err)
		return nil, err
	}

	res := shapeResult(mode, completion)

	payload, err := json.Marshal(successPayload(res))
	if err != nil {
		return nil, err
	}

	rec := &domain.Record{
		Mode:           mode,
		InputText:      input,
		ClientIdentity: identity,
		Status:         domain.StatusOK,
		Response:       payload,
	}
	if _, err := repo.AppendRecord(ctx, s.DB, rec); err != nil {
		// The client already has a usable result; losing the history row is
		// an operational problem, not a request failure.
		log.Error().Err(err).Str("mode", string(mode)).Msg("history append failed")
	}
	res.Record = rec
	return res, nil
}

// Get returns a single history record by id.
func (s *DispatchService) Get(ctx context.Context, id int64) (*domain.Record, error) {
	rec, err := repo.GetRecord(ctx, s.DB, id)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// recordFailure appends an error record. It runs on a context detached from
// the request so a cancelled client still leaves an audit row.
func (s *DispatchService) recordFailure(ctx context.Context, mode domain.Mode, input, identity string, perr error) {
	kind := "upstream_error"
	msg := perr.Error()
	if pe, ok := provider.AsError(perr); ok {
		kind = string(pe.Kind)
		msg = pe.Message
	}

	payload, err := json.Marshal(map[string]any{
		"error": map[string]string{"kind": kind, "message": msg},
	})
	if err != nil {
		log.Error().Err(err).Msg("failure payload marshal")
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordWriteTimeout)
	defer cancel()

	rec := &domain.Record{
		Mode:           mode,
		InputText:      input,
		ClientIdentity: identity,
		Status:         domain.StatusError,
		Response:       payload,
	}
	if _, err := repo.AppendRecord(wctx, s.DB, rec); err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Msg("failure record append failed")
	}
}

// shapeResult applies the mode-specific post-processing to a raw completion.
func shapeResult(mode domain.Mode, completion string) *Result {
	switch mode {
	case domain.ModeTitle:
		t := strings.TrimSpace(completion)
		if t == "" {
			t = fallbackTitle
		}
		return &Result{Text: t}
	case domain.ModeKeywords:
		return &Result{Keywords: normalizeKeywords(completion)}
	default:
		return &Result{Text: completion}
	}
}

// successPayload renders the JSON stored in the record and returned over HTTP.
func successPayload(r *Result) map[string]any {
	if r.Keywords != nil {
		return map[string]any{"keywords": r.Keywords}
	}
	return map[string]any{"text": r.Text}
}

var keywordFolder = cases.Fold()

// normalizeKeywords splits a comma-separated completion into distinct,
// case-folded, sorted keywords. Folding via x/text handles scripts where
// ToLower alone is lossy (e.g. dotless i, final sigma).
func normalizeKeywords(completion string) []string {
	parts := strings.Split(completion, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		kw := keywordFolder.String(strings.TrimSpace(p))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}
