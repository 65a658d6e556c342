package model

// BalanceResponse represents response for GET /wallet/balance
type BalanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"` // display units
	Wei     string `json:"wei"`
}
