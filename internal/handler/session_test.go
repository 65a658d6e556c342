package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/model"
)

const (
	account    = "0x00000000000000000000000000000000000000aa"
	recipient1 = "0xAbC1230000000000000000000000000000000001"
	recipient2 = "0xAbC1230000000000000000000000000000000002"
)

type fakeGateway struct {
	mu         sync.Mutex
	connectErr error
	sendErr    error
	sends      int
	confirm    chan *model.Receipt
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{confirm: make(chan *model.Receipt, 1)}
}

func (f *fakeGateway) Connect(ctx context.Context) (string, error) {
	if f.connectErr != nil {
		return "", f.connectErr
	}
	return account, nil
}

func (f *fakeGateway) SendBatch(ctx context.Context, addresses []string, amounts []*big.Int, total *big.Int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sends++
	return fmt.Sprintf("0x%064x", f.sends), nil
}

func (f *fakeGateway) AwaitConfirmation(ctx context.Context, txHash string) (*model.Receipt, error) {
	select {
	case r := <-f.confirm:
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type harness struct {
	t       *testing.T
	gw      *fakeGateway
	session *disperse.Session
	handler *SessionHandler
}

func newHarness(t *testing.T, cooldown time.Duration) *harness {
	gw := newFakeGateway()
	session := disperse.NewSession(gw, disperse.WithExplorerURL("https://explorer.test"))
	t.Cleanup(session.Disconnect)
	return &harness{t: t, gw: gw, session: session, handler: NewSessionHandler(session, cooldown)}
}

func (h *harness) call(fn http.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func (h *harness) snapshot(rec *httptest.ResponseRecorder) model.SessionResponse {
	h.t.Helper()
	var snap model.SessionResponse
	require.NoError(h.t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func (h *harness) errorOf(rec *httptest.ResponseRecorder) model.ErrorResponse {
	h.t.Helper()
	var resp model.ErrorResponse
	require.NoError(h.t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func (h *harness) ready() {
	h.t.Helper()
	require.Equal(h.t, http.StatusOK, h.call(h.handler.Connect, http.MethodPost, "").Code)
	body := fmt.Sprintf(`{"text":"%s 1.5\n%s,2.25"}`, recipient1, recipient2)
	require.Equal(h.t, http.StatusOK, h.call(h.handler.Input, http.MethodPost, body).Code)
}

func TestSessionHandler_Flow(t *testing.T) {
	h := newHarness(t, 0)

	rec := h.call(h.handler.Get, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DISCONNECTED", h.snapshot(rec).State)

	rec = h.call(h.handler.Connect, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := h.snapshot(rec)
	assert.Equal(t, "CONNECTED", snap.State)
	assert.Equal(t, account, snap.Account)

	body := fmt.Sprintf(`{"text":"%s 1.5\ngarbage\n%s,2.25"}`, recipient1, recipient2)
	rec = h.call(h.handler.Input, http.MethodPost, body)
	require.Equal(t, http.StatusOK, rec.Code)
	snap = h.snapshot(rec)
	assert.Equal(t, "READY", snap.State)
	require.NotNil(t, snap.Plan)
	assert.Equal(t, "3.75", snap.Plan.Total)
	assert.Equal(t, "3750000000000000000", snap.Plan.TotalWei)
	require.Len(t, snap.ParseErrors, 1)
	assert.Equal(t, 2, snap.ParseErrors[0].LineNumber)
	assert.Equal(t, model.ReasonMalformedLine, snap.ParseErrors[0].Reason)

	rec = h.call(h.handler.Submit, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var submit model.SubmitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&submit))
	assert.NotEmpty(t, submit.TxHash)
	assert.Equal(t, "https://explorer.test/tx/"+submit.TxHash, submit.ExplorerURL)

	rec = h.call(h.handler.Submit, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_IN_FLIGHT", h.errorOf(rec).Code)

	h.gw.confirm <- &model.Receipt{Status: model.ReceiptStatusSuccess, Hash: submit.TxHash}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	settled, err := h.session.WaitSettled(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", settled.State)

	rec = h.call(h.handler.Acknowledge, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EDITING", h.snapshot(rec).State)

	rec = h.call(h.handler.Disconnect, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DISCONNECTED", h.snapshot(rec).State)
}

func TestSessionHandler_EmptyInputIsNotAnError(t *testing.T) {
	h := newHarness(t, 0)
	require.Equal(t, http.StatusOK, h.call(h.handler.Connect, http.MethodPost, "").Code)

	rec := h.call(h.handler.Input, http.MethodPost, `{"text":"  \n"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EDITING", h.snapshot(rec).State)

	rec = h.call(h.handler.Submit, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NOT_READY", h.errorOf(rec).Code)
}

func TestSessionHandler_InputRequiresConnection(t *testing.T) {
	h := newHarness(t, 0)

	rec := h.call(h.handler.Input, http.MethodPost, `{"text":""}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", h.errorOf(rec).Code)
}

func TestSessionHandler_BadRequests(t *testing.T) {
	h := newHarness(t, 0)

	rec := h.call(h.handler.Input, http.MethodPost, `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", h.errorOf(rec).Code)

	rec = h.call(h.handler.Submit, http.MethodGet, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = h.call(h.handler.Get, http.MethodPost, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSessionHandler_ConnectFailure(t *testing.T) {
	h := newHarness(t, 0)
	h.gw.connectErr = disperse.ErrUserRejected

	rec := h.call(h.handler.Connect, http.MethodPost, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "USER_REJECTED", h.errorOf(rec).Code)

	rec = h.call(h.handler.Get, http.MethodGet, "")
	snap := h.snapshot(rec)
	assert.Equal(t, "DISCONNECTED", snap.State)
	assert.Contains(t, snap.LastError, "user rejected")
}

func TestSessionHandler_SubmitFailureThenRetry(t *testing.T) {
	h := newHarness(t, 0)
	h.ready()
	h.gw.sendErr = fmt.Errorf("%w: need more", disperse.ErrInsufficientFunds)

	rec := h.call(h.handler.Submit, http.MethodPost, "")
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", h.errorOf(rec).Code)

	rec = h.call(h.handler.Retry, http.MethodPost, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", h.snapshot(rec).State)

	rec = h.call(h.handler.Acknowledge, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionHandler_SubmitCooldown(t *testing.T) {
	h := newHarness(t, time.Hour)
	h.ready()
	h.gw.sendErr = errors.New("nonce too low")

	rec := h.call(h.handler.Submit, http.MethodPost, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "GATEWAY_ERROR", h.errorOf(rec).Code)

	require.Equal(t, http.StatusOK, h.call(h.handler.Retry, http.MethodPost, "").Code)

	rec = h.call(h.handler.Submit, http.MethodPost, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "COOLDOWN", h.errorOf(rec).Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, disperse.StateReady, h.session.State())
}

func TestWriteSessionError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{err: disperse.ErrWalletUnavailable, status: http.StatusServiceUnavailable, code: "WALLET_UNAVAILABLE"},
		{err: disperse.ErrTimeout, status: http.StatusGatewayTimeout, code: "TIMEOUT"},
		{err: disperse.ErrRetryNotAllowed, status: http.StatusConflict, code: "RETRY_NOT_ALLOWED"},
		{err: disperse.ErrSessionReset, status: http.StatusConflict, code: "SESSION_RESET"},
		{err: &disperse.InvariantError{Check: "sum", Details: "x"}, status: http.StatusInternalServerError, code: "INVARIANT_VIOLATION"},
		{err: &disperse.GatewayError{Message: "down"}, status: http.StatusBadGateway, code: "GATEWAY_ERROR"},
		{err: errors.New("other"), status: http.StatusInternalServerError, code: "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeSessionError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.err.Error(), resp.Error)
		})
	}
}
