package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/model"
)

// maxInputBytes bounds POST /session/input bodies
const maxInputBytes = 1 << 20

// SessionHandler exposes a transfer session over HTTP
type SessionHandler struct {
	session *disperse.Session
	submits *rate.Limiter
}

// NewSessionHandler creates a SessionHandler. Submits are limited to one per
// cooldown; zero disables the limit.
func NewSessionHandler(session *disperse.Session, cooldown time.Duration) *SessionHandler {
	limit := rate.Inf
	if cooldown > 0 {
		limit = rate.Every(cooldown)
	}
	return &SessionHandler{
		session: session,
		submits: rate.NewLimiter(limit, 1),
	}
}

// Get handles GET /session
// @Summary      Get session
// @Description  Returns the session state, plan, per-line errors and transaction status
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Connect handles POST /session/connect
// @Summary      Connect wallet
// @Description  Unlocks the signer and checks the node network
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /session/connect [post]
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if _, err := h.session.Connect(r.Context()); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Disconnect handles POST /session/disconnect
// @Summary      Disconnect wallet
// @Description  Resets the session. A broadcast transaction is no longer tracked.
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Router       /session/disconnect [post]
func (h *SessionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	h.session.Disconnect()
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Input handles POST /session/input
// @Summary      Edit recipients
// @Description  Parses "address amount" lines and rebuilds the batch plan
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        request  body      model.InputRequest  true  "Recipients text"
// @Success      200      {object}  model.SessionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /session/input [post]
func (h *SessionHandler) Input(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.InputRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	// an empty batch is a normal editing outcome, reported through the snapshot
	if _, err := h.session.EditInput(req.Text); err != nil && !errors.Is(err, disperse.ErrEmptyBatch) {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Submit handles POST /session/submit
// @Summary      Submit batch
// @Description  Sends the current plan in one disperse transaction
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SubmitResponse
// @Failure      402  {object}  model.ErrorResponse
// @Failure      409  {object}  model.ErrorResponse
// @Failure      429  {object}  model.ErrorResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /session/submit [post]
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	reservation := h.submits.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
		writeError(w, http.StatusTooManyRequests, "COOLDOWN",
			fmt.Errorf("cooldown active, please wait %v", delay.Round(time.Second)))
		return
	}

	txHash, err := h.session.Submit(r.Context())
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SubmitResponse{
		TxHash:      txHash,
		ExplorerURL: h.session.Snapshot().ExplorerURL,
	})
}

// Retry handles POST /session/retry
// @Summary      Retry batch
// @Description  Restores the plan of a submission that failed before broadcast
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /session/retry [post]
func (h *SessionHandler) Retry(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.session.Retry(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// Acknowledge handles POST /session/acknowledge
// @Summary      Acknowledge result
// @Description  Closes a confirmed or failed transaction and returns to editing
// @Tags         session
// @Produce      json
// @Success      200  {object}  model.SessionResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /session/acknowledge [post]
func (h *SessionHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.session.Acknowledge(); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}
