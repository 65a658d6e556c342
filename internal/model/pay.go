package model

// InputRequest represents request for POST /session/input
type InputRequest struct {
	Text string `json:"text"`
}

// SubmitResponse represents response for POST /session/submit
type SubmitResponse struct {
	TxHash      string `json:"txHash"`
	ExplorerURL string `json:"explorerUrl"`
}
