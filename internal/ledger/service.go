// Package ledger keeps an audit trail of recommendations.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"bridge-lite/advisor"
	"bridge-lite/internal/codec"
	"bridge-lite/internal/config"
	"bridge-lite/internal/logging"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
	// defaultRetain bounds how many records a backend keeps.
	defaultRetain = 500
)

var ErrNotFound = errors.New("not found")

type Service interface {
	Close() error
	Record(ctx context.Context, systemName string, rec *advisor.Recommendation) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	Get(ctx context.Context, id string) (*Record, error)
}

// Record is one stored recommendation. Payload holds the full
// recommendation as a base64 protobuf envelope.
type Record struct {
	ID         string    `json:"id"`
	System     string    `json:"system"`
	Seat       string    `json:"seat"`
	Bid        string    `json:"bid"`
	Source     string    `json:"source"`
	Phase      string    `json:"phase"`
	Overridden bool      `json:"overridden"`
	PayloadB64 string    `json:"payload_b64"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recommendation decodes the stored payload.
func (r *Record) Recommendation() (*advisor.Recommendation, error) {
	env, err := codec.DecodeB64(r.PayloadB64)
	if err != nil {
		return nil, err
	}
	return env.Recommendation, nil
}

func newRecord(systemName string, rec *advisor.Recommendation, now time.Time) (Record, error) {
	if rec == nil || strings.TrimSpace(rec.ID) == "" {
		return Record{}, fmt.Errorf("ledger: recommendation without id")
	}
	payload, err := codec.EncodeRecommendationB64(rec, now)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:         rec.ID,
		System:     systemName,
		Seat:       rec.Seat.String(),
		Bid:        rec.Bid.String(),
		Source:     string(rec.Source),
		Phase:      rec.Phase.String(),
		Overridden: rec.Overridden,
		PayloadB64: payload,
		CreatedAt:  now.UTC(),
	}, nil
}

// NewServiceFromConfig picks the backend named by cfg.LedgerMode and reports
// a short label for it.
func NewServiceFromConfig(cfg config.Config, logger *zap.Logger) (Service, string, error) {
	logger = logging.Or(logger)
	logger = logger.Named("ledger")
	switch strings.ToLower(strings.TrimSpace(cfg.LedgerMode)) {
	case "", "memory":
		return NewMemoryService(defaultRetain), "memory", nil
	case "sqlite", "local":
		svc, err := NewSQLiteService(cfg.LedgerSQLitePath, defaultRetain, logger)
		if err != nil {
			return nil, "", err
		}
		return svc, "sqlite", nil
	case "postgres":
		svc, err := NewPostgresService(cfg.LedgerDSN, defaultRetain, logger)
		if err != nil {
			return nil, "", err
		}
		return svc, "postgres", nil
	default:
		return nil, "", fmt.Errorf("unsupported ledger mode %q", cfg.LedgerMode)
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}

// MemoryService keeps the newest records in process memory.
type MemoryService struct {
	mu      sync.RWMutex
	retain  int
	records []Record // oldest first
	now     func() time.Time
}

func NewMemoryService(retain int) *MemoryService {
	if retain <= 0 {
		retain = defaultRetain
	}
	return &MemoryService{retain: retain, now: time.Now}
}

func (m *MemoryService) Close() error { return nil }

func (m *MemoryService) Record(_ context.Context, systemName string, rec *advisor.Recommendation) error {
	r, err := newRecord(systemName, rec, m.now())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	if over := len(m.records) - m.retain; over > 0 {
		m.records = append(m.records[:0:0], m.records[over:]...)
	}
	return nil
}

func (m *MemoryService) ListRecent(_ context.Context, limit int) ([]Record, error) {
	limit = clampLimit(limit)
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, min(limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *MemoryService) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ID == id {
			r := m.records[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}
