package disperse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AlexZinkM/disperse/internal/metrics"
	"github.com/AlexZinkM/disperse/internal/model"
)

const defaultConfirmTimeout = 5 * time.Minute

// failStage tells a submit-stage failure (retryable with the same plan) from a
// confirmation-stage failure (needs a fresh plan)
type failStage int

const (
	failNone failStage = iota
	failSubmit
	failConfirm
)

// Session is the transfer state machine. It owns the current plan and the single
// outstanding transaction. Commands are serialized; gateway calls run without the
// lock held, and a disconnect issued meanwhile invalidates their results.
type Session struct {
	gateway        Gateway
	parser         *Parser
	baseLogger     *zap.Logger
	logger         *zap.Logger
	metrics        *metrics.Metrics
	explorerURL    string
	confirmTimeout time.Duration

	mu          sync.Mutex
	id          string
	epoch       uint64
	state       State
	account     string
	plan        *model.BatchPlan
	parseErrors []model.ParseError
	inflight    *model.BatchPlan
	lastError   error
	txHash      string
	receipt     *model.Receipt
	failStage   failStage
	settled     chan struct{}
	stopTrack   context.CancelFunc
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.baseLogger = logger }
}

// WithMetrics sets the session collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithParser replaces the default 18-decimal parser
func WithParser(p *Parser) Option {
	return func(s *Session) { s.parser = p }
}

// WithExplorerURL sets the block explorer base URL
func WithExplorerURL(base string) Option {
	return func(s *Session) { s.explorerURL = base }
}

// WithConfirmTimeout bounds the receipt wait. Zero disables the bound.
func WithConfirmTimeout(d time.Duration) Option {
	return func(s *Session) { s.confirmTimeout = d }
}

// NewSession creates a disconnected session bound to gateway
func NewSession(gateway Gateway, opts ...Option) *Session {
	s := &Session{
		gateway:        gateway,
		parser:         defaultParser,
		baseLogger:     zap.NewNop(),
		explorerURL:    DefaultExplorerURL,
		confirmTimeout: defaultConfirmTimeout,
		id:             uuid.NewString(),
		state:          StateDisconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.baseLogger.With(zap.String("session_id", s.id))
	return s
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect asks the gateway for an account. On failure the session returns to
// Disconnected with ErrWalletUnavailable or ErrUserRejected as last error.
func (s *Session) Connect(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state != StateDisconnected {
		state := s.state
		s.mu.Unlock()
		return "", &TransitionError{Command: "connect", State: state}
	}
	s.lastError = nil
	s.setState(StateConnecting)
	epoch := s.epoch
	s.mu.Unlock()

	account, err := s.gateway.Connect(ctx)
	if err == nil {
		if _, verr := (AddressValidator{}).Validate(account); verr != nil {
			err = fmt.Errorf("%w: provider returned account %q", ErrWalletUnavailable, account)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return "", ErrSessionReset
	}

	if err != nil {
		if !errors.Is(err, ErrWalletUnavailable) && !errors.Is(err, ErrUserRejected) {
			err = fmt.Errorf("%w: %w", ErrWalletUnavailable, err)
		}
		s.lastError = err
		s.setState(StateDisconnected)
		s.logger.Warn("wallet connection failed", zap.Error(err))
		return "", err
	}

	s.account = account
	s.setState(StateConnected)
	s.logger.Info("wallet connected", zap.String("account", account))
	return account, nil
}

// Disconnect resets the session completely. It is accepted in every state. A
// transaction already broadcast keeps going on-chain but is no longer tracked.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateDisconnected {
		return
	}
	if s.state.InFlight() {
		s.logger.Warn("disconnect with transaction in flight, tracking stopped", zap.String("tx_hash", s.txHash))
	}

	s.stopTracking()
	s.epoch++
	s.account = ""
	s.plan = nil
	s.parseErrors = nil
	s.lastError = nil
	s.clearTransaction()
	s.setState(StateDisconnected)

	s.id = uuid.NewString()
	s.logger = s.baseLogger.With(zap.String("session_id", s.id))
}

// EditInput parses text and rebuilds the current plan. The state becomes Ready when
// the text yields at least one entry, Editing otherwise. While a transaction is in
// flight only the editable plan changes; the submitted plan is never touched.
func (s *Session) EditInput(text string) (model.ParseResult, error) {
	result := s.parser.Parse(text)
	plan, aggErr := Aggregate(result.Entries)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateDisconnected, StateConnecting:
		return model.ParseResult{}, &TransitionError{Command: "editInput", State: s.state}
	}

	for _, pe := range result.Errors {
		s.metrics.ParseError(string(pe.Reason))
	}
	invariant := errors.Is(aggErr, ErrInvariantViolation)
	if invariant {
		s.logger.Error("aggregation invariant violated", zap.Error(aggErr))
		plan = nil
	}

	s.parseErrors = result.Errors
	s.plan = plan

	if s.state.InFlight() {
		return result, aggErr
	}

	if s.state == StateConfirmed || s.state == StateFailed {
		s.clearTransaction()
	}
	s.lastError = nil
	if invariant {
		s.lastError = aggErr
	}
	if plan != nil {
		s.setState(StateReady)
	} else {
		s.setState(StateEditing)
	}
	return result, aggErr
}

// Submit sends the current plan through the gateway. It is rejected with
// ErrAlreadyInFlight while a transaction is Submitting or Pending and with
// ErrNotReady when there is no plan. On success the session is Pending and the
// receipt is awaited in the background.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.mu.Lock()
	switch {
	case s.state.InFlight():
		state := s.state
		s.mu.Unlock()
		return "", fmt.Errorf("%w (state %s)", ErrAlreadyInFlight, state)
	case s.state != StateReady:
		state := s.state
		s.mu.Unlock()
		return "", fmt.Errorf("%w (state %s)", ErrNotReady, state)
	}

	if err := CheckPlan(s.plan); err != nil {
		s.logger.Error("refusing to submit invalid plan", zap.Error(err))
		s.lastError = err
		s.plan = nil
		s.setState(StateEditing)
		s.mu.Unlock()
		return "", err
	}

	s.inflight = s.plan
	s.plan = nil
	s.setState(StateSubmitting)
	epoch := s.epoch
	snapshot := s.inflight.Clone()
	logger := s.logger
	s.mu.Unlock()

	s.metrics.BatchSize(snapshot.Len())
	logger.Info("submitting batch",
		zap.Int("recipients", snapshot.Len()),
		zap.String("total_wei", snapshot.Total.String()),
	)

	txHash, err := s.gateway.SendBatch(ctx, snapshot.Addresses, snapshot.Amounts, snapshot.Total)
	if err == nil && txHash == "" {
		err = &GatewayError{Message: "provider returned empty transaction hash"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		if err == nil {
			s.logger.Warn("transaction broadcast after session reset", zap.String("tx_hash", txHash))
		}
		return "", ErrSessionReset
	}

	if err != nil {
		err = classifySubmitError(err)
		s.lastError = err
		s.failStage = failSubmit
		s.metrics.Submission(outcomeOf(err))
		s.setState(StateFailed)
		s.logger.Warn("batch submission failed", zap.Error(err))
		return "", err
	}

	s.txHash = txHash
	s.metrics.Submission("broadcast")
	s.setState(StatePending)

	trackCtx := context.Background()
	var cancel context.CancelFunc
	if s.confirmTimeout > 0 {
		trackCtx, cancel = context.WithTimeout(trackCtx, s.confirmTimeout)
	} else {
		trackCtx, cancel = context.WithCancel(trackCtx)
	}
	s.stopTrack = cancel
	s.settled = make(chan struct{})
	go s.track(trackCtx, epoch, txHash)

	return txHash, nil
}

// track waits for the receipt and settles the session
func (s *Session) track(ctx context.Context, epoch uint64, txHash string) {
	receipt, err := s.gateway.AwaitConfirmation(ctx, txHash)
	if err == nil && receipt == nil {
		err = &GatewayError{Message: "provider returned no receipt"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return
	}

	switch {
	case err != nil:
		err = classifyConfirmError(err)
		s.lastError = err
		s.failStage = failConfirm
		s.metrics.Submission(outcomeOf(err))
		s.setState(StateFailed)
		s.logger.Warn("confirmation failed", zap.String("tx_hash", txHash), zap.Error(err))
	case receipt.Status != model.ReceiptStatusSuccess:
		s.receipt = receipt
		s.lastError = fmt.Errorf("%w: %s", ErrReverted, txHash)
		s.failStage = failConfirm
		s.metrics.Submission("reverted")
		s.setState(StateFailed)
		s.logger.Warn("transaction reverted", zap.String("tx_hash", txHash))
	default:
		s.receipt = receipt
		s.metrics.Submission("confirmed")
		s.setState(StateConfirmed)
		s.logger.Info("transaction confirmed",
			zap.String("tx_hash", receipt.Hash),
			zap.Uint64("block", receipt.BlockNumber),
		)
	}

	s.stopTracking()
}

// WaitSettled blocks until the outstanding transaction is confirmed or failed, the
// session is reset, or ctx is done. It returns immediately when nothing is pending.
func (s *Session) WaitSettled(ctx context.Context) (model.SessionResponse, error) {
	s.mu.Lock()
	ch := s.settled
	s.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}
	return s.Snapshot(), nil
}

// Retry restores Ready with the plan of a submission that failed before
// broadcast. Plans that reached the chain can't be retried; their nonce and
// amounts are stale.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFailed {
		return &TransitionError{Command: "retry", State: s.state}
	}
	if s.failStage != failSubmit || s.inflight == nil {
		return fmt.Errorf("%w: transaction %s already reached the chain", ErrRetryNotAllowed, s.txHash)
	}

	s.plan = s.inflight
	s.clearTransaction()
	s.lastError = nil
	s.setState(StateReady)
	return nil
}

// Acknowledge closes out a Confirmed or Failed transaction. The session goes back
// to Editing, or to Ready if new input was parsed while the transaction was in flight.
func (s *Session) Acknowledge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmed && s.state != StateFailed {
		return &TransitionError{Command: "acknowledge", State: s.state}
	}

	s.clearTransaction()
	s.lastError = nil
	if s.plan != nil {
		s.setState(StateReady)
	} else {
		s.setState(StateEditing)
	}
	return nil
}

// Snapshot returns a read-only view of the session for presentation
func (s *Session) Snapshot() model.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := model.SessionResponse{
		SessionID:   s.id,
		State:       s.state.String(),
		Account:     s.account,
		Plan:        s.viewPlan(s.plan),
		InFlight:    s.viewPlan(s.inflight),
		ParseErrors: append([]model.ParseError(nil), s.parseErrors...),
		TxHash:      s.txHash,
		ExplorerURL: ExplorerURL(s.explorerURL, s.txHash),
	}
	if s.lastError != nil {
		resp.LastError = s.lastError.Error()
	}
	if s.receipt != nil {
		receipt := *s.receipt
		resp.Receipt = &receipt
	}
	return resp
}

// LastError returns the last gateway or invariant error, nil if none
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// TxHash returns the hash of the outstanding or settled transaction
func (s *Session) TxHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txHash
}

// Plan returns a copy of the editable plan
func (s *Session) Plan() *model.BatchPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

func (s *Session) viewPlan(plan *model.BatchPlan) *model.PlanView {
	if plan == nil {
		return nil
	}
	view := &model.PlanView{
		Recipients: make([]model.PlanRecipient, 0, plan.Len()),
		Total:      s.parser.amounts.Format(plan.Total),
		TotalWei:   plan.Total.String(),
	}
	for i, addr := range plan.Addresses {
		view.Recipients = append(view.Recipients, model.PlanRecipient{
			Address: addr,
			Amount:  s.parser.amounts.Format(plan.Amounts[i]),
			Wei:     plan.Amounts[i].String(),
		})
	}
	return view
}

// setState must be called with mu held
func (s *Session) setState(to State) {
	from := s.state
	s.state = to
	s.metrics.Transition(from.String(), to.String())
	s.logger.Info("session transition", zap.Stringer("from", from), zap.Stringer("to", to))
}

// clearTransaction must be called with mu held
func (s *Session) clearTransaction() {
	s.inflight = nil
	s.txHash = ""
	s.receipt = nil
	s.failStage = failNone
}

// stopTracking must be called with mu held
func (s *Session) stopTracking() {
	if s.stopTrack != nil {
		s.stopTrack()
		s.stopTrack = nil
	}
	if s.settled != nil {
		close(s.settled)
		s.settled = nil
	}
}

func classifySubmitError(err error) error {
	switch {
	case errors.Is(err, ErrUserRejected), errors.Is(err, ErrInsufficientFunds), IsGatewayError(err):
		return err
	default:
		return &GatewayError{Message: "failed to send batch", Err: err}
	}
}

func classifyConfirmError(err error) error {
	switch {
	case errors.Is(err, ErrTimeout), IsGatewayError(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	default:
		return &GatewayError{Message: "failed to await confirmation", Err: err}
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrUserRejected):
		return "rejected"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	default:
		return "gateway_error"
	}
}
