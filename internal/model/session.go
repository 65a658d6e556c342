package model

// PlanRecipient is one recipient of a plan, formatted for display
type PlanRecipient struct {
	Address string `json:"address"`
	Amount  string `json:"amount"` // display units
	Wei     string `json:"wei"`    // smallest unit
}

// PlanView is a read-only rendering of a BatchPlan
type PlanView struct {
	Recipients []PlanRecipient `json:"recipients"`
	Total      string          `json:"total"`
	TotalWei   string          `json:"totalWei"`
}

// SessionResponse represents response for GET /session and every session command
type SessionResponse struct {
	SessionID   string       `json:"sessionId"`
	State       string       `json:"state"`
	Account     string       `json:"account,omitempty"`
	Plan        *PlanView    `json:"plan,omitempty"`
	InFlight    *PlanView    `json:"inFlight,omitempty"`
	ParseErrors []ParseError `json:"parseErrors,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
	TxHash      string       `json:"txHash,omitempty"`
	Receipt     *Receipt     `json:"receipt,omitempty"`
	ExplorerURL string       `json:"explorerUrl,omitempty"`
}
