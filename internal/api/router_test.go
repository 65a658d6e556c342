package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/handler"
	"github.com/AlexZinkM/disperse/internal/metrics"
	"github.com/AlexZinkM/disperse/internal/model"
)

type stubGateway struct{}

func (stubGateway) Connect(ctx context.Context) (string, error) {
	return "0x00000000000000000000000000000000000000aa", nil
}

func (stubGateway) SendBatch(ctx context.Context, addresses []string, amounts []*big.Int, total *big.Int) (string, error) {
	return "0x01", nil
}

func (stubGateway) AwaitConfirmation(ctx context.Context, txHash string) (*model.Receipt, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	session := disperse.NewSession(stubGateway{}, disperse.WithMetrics(m))
	t.Cleanup(session.Disconnect)
	return SetupRouter(handler.NewSessionHandler(session, 0), nil, reg)
}

func TestRouter_SessionFlow(t *testing.T) {
	router := newTestRouter(t)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/session/connect", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodPost, "/session/input", `{"text":"0xAbC1230000000000000000000000000000000001 1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap model.SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "READY", snap.State)

	rec = do(http.MethodPost, "/session/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/session", "")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "PENDING", snap.State)

	rec = do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disperse_session_transitions_total")
	assert.Contains(t, rec.Body.String(), `disperse_submissions_total{outcome="broadcast"} 1`)
}

func TestRouter_WalletRouteNeedsKeyPath(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/wallet/generate", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
