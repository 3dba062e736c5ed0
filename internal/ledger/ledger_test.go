package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-lite/advisor"
	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/internal/config"
)

func sampleRec(id, bid string) *advisor.Recommendation {
	return &advisor.Recommendation{
		ID:     id,
		Seat:   auction.North,
		Bid:    auction.MustParseCall(bid),
		Source: advisor.SourceDeterministic,
		Phase:  bidding.PhaseOpening,
	}
}

func backends(t *testing.T) map[string]Service {
	t.Helper()
	sqlite, err := NewSQLiteService(":memory:", 3, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Service{
		"memory": NewMemoryService(3),
		"sqlite": sqlite,
	}
}

func TestRecordAndListRecent(t *testing.T) {
	ctx := context.Background()
	for name, svc := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i, bid := range []string{"1C", "1D", "1H", "1S"} {
				require.NoError(t, svc.Record(ctx, "sayc", sampleRec(fmt.Sprintf("r%d", i), bid)))
			}

			items, err := svc.ListRecent(ctx, 10)
			require.NoError(t, err)
			// retain=3 drops the oldest
			require.Len(t, items, 3)
			assert.Equal(t, "r3", items[0].ID)
			assert.Equal(t, "1S", items[0].Bid)
			assert.Equal(t, "N", items[0].Seat)
			assert.Equal(t, "opening", items[0].Phase)
			assert.Equal(t, "r1", items[2].ID)

			_, err = svc.Get(ctx, "r0")
			assert.ErrorIs(t, err, ErrNotFound)

			rec, err := svc.Get(ctx, "r2")
			require.NoError(t, err)
			decoded, err := rec.Recommendation()
			require.NoError(t, err)
			assert.Equal(t, "1H", decoded.Bid.String())
			assert.Equal(t, advisor.SourceDeterministic, decoded.Source)
		})
	}
}

func TestRecordRejectsMissingID(t *testing.T) {
	err := NewMemoryService(0).Record(context.Background(), "sayc", sampleRec("", "1C"))
	assert.Error(t, err)
}

func TestNewServiceFromConfig(t *testing.T) {
	svc, label, err := NewServiceFromConfig(config.Config{LedgerMode: "memory"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", label)
	assert.IsType(t, &MemoryService{}, svc)

	svc, label, err = NewServiceFromConfig(config.Config{LedgerMode: "sqlite", LedgerSQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", label)
	require.NoError(t, svc.Close())

	_, _, err = NewServiceFromConfig(config.Config{LedgerMode: "redis"}, nil)
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	s := &sqlService{numbered: true}
	assert.Equal(t, "VALUES ($1, $2) LIMIT $3", s.rebind("VALUES (?, ?) LIMIT ?"))
	s.numbered = false
	assert.Equal(t, "LIMIT ?", s.rebind("LIMIT ?"))
}

func TestHTTPHandler(t *testing.T) {
	svc := NewMemoryService(10)
	ctx := context.Background()
	require.NoError(t, svc.Record(ctx, "sayc", sampleRec("a", "1NT")))
	require.NoError(t, svc.Record(ctx, "acol", sampleRec("b", "Pass")))

	mux := http.NewServeMux()
	NewHTTPHandler(svc, 1, nil).RegisterRoutes(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ledger/recent", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var recent struct {
		Items []Record `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recent))
	require.Len(t, recent.Items, 1)
	assert.Equal(t, "b", recent.Items[0].ID)
	assert.Equal(t, "acol", recent.Items[0].System)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ledger/recent?limit=5", nil))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recent))
	assert.Len(t, recent.Items, 2)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ledger/records/a", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var one struct {
		Recommendation advisor.Recommendation `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &one))
	assert.Equal(t, "1NT", one.Recommendation.Bid.String())

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ledger/records/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/ledger/recent", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
