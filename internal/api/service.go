// Package api serves the JSON HTTP endpoints of the bidding trainer.
package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bridge-lite/advisor"
	"bridge-lite/bidding"
	"bridge-lite/card"
	"bridge-lite/internal/ledger"
	"bridge-lite/internal/logging"
	"bridge-lite/session"
	"bridge-lite/system"
)

// Recognizer reads a hand from a photo.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) ([]card.Card, error)
}

// Recommender resolves systems, runs the arbiter and records what it
// answered. It is shared by the HTTP handlers and the websocket gateway.
type Recommender struct {
	registry *system.Registry
	external advisor.External
	ledger   ledger.Service
	timeout  time.Duration
	logger   *zap.Logger
}

// NewRecommender builds a recommender. external and ledgerService may be nil.
func NewRecommender(registry *system.Registry, external advisor.External, ledgerService ledger.Service, timeout time.Duration, logger *zap.Logger) *Recommender {
	logger = logging.Or(logger)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Recommender{
		registry: registry,
		external: external,
		ledger:   ledgerService,
		timeout:  timeout,
		logger:   logger,
	}
}

// Engine returns the engine for a system name.
func (r *Recommender) Engine(name string) (*bidding.Engine, error) {
	sys, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return bidding.New(sys), nil
}

// Recommend answers for the session's seat. Ledger failures are logged and
// do not fail the request.
func (r *Recommender) Recommend(ctx context.Context, s *session.Session, forceExternal bool) (*advisor.Recommendation, error) {
	engine, err := r.Engine(s.System)
	if err != nil {
		return nil, err
	}
	arbiter := advisor.NewArbiter(engine, r.external, r.logger.Named("advisor"))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	rec, err := arbiter.Recommend(ctx, s.Request(forceExternal))
	if err != nil {
		return nil, err
	}
	if r.ledger != nil {
		lctx, lcancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer lcancel()
		if err := r.ledger.Record(lctx, engine.System().Name, rec); err != nil {
			r.logger.Warn("ledger record failed", zap.String("id", rec.ID), zap.Error(err))
		}
	}
	return rec, nil
}

func (r *Recommender) ExternalEnabled() bool { return r.external != nil }

func (r *Recommender) Systems() []*system.System {
	names := r.registry.Names()
	out := make([]*system.System, 0, len(names))
	for _, name := range names {
		sys, err := r.registry.Get(name)
		if err != nil {
			r.logger.Warn("system unavailable", zap.String("system", name), zap.Error(err))
			continue
		}
		out = append(out, sys)
	}
	return out
}
