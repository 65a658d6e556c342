package handler

import (
	"context"
	"errors"
	"math/big"
	"net/http"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/model"
)

// BalanceReader reports the signer address and its native balance in wei
type BalanceReader interface {
	Balance(ctx context.Context) (string, *big.Int, error)
}

// WalletHandler manages the local signer key file
type WalletHandler struct {
	filePath string
	password func() ([]byte, error)
	balances BalanceReader
	parser   *disperse.Parser
}

// WithBalance enables GET /wallet/balance, formatting amounts with parser
func (h *WalletHandler) WithBalance(balances BalanceReader, parser *disperse.Parser) *WalletHandler {
	h.balances = balances
	h.parser = parser
	return h
}

// NewWalletHandler creates a WalletHandler for the key file at filePath.
// password returns a copy of the key password; it is zeroed after use.
func NewWalletHandler(filePath string, password func() ([]byte, error)) (*WalletHandler, error) {
	if filePath == "" {
		return nil, errors.New("KEY_FILE_PATH not set")
	}
	return &WalletHandler{filePath: filePath, password: password}, nil
}

// Generate handles POST /wallet/generate
// @Summary      Generate signer key
// @Description  Generates a new secp256k1 key and saves it encrypted to KEY_FILE_PATH
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	passwordBytes, err := h.password()
	if err != nil {
		writeError(w, http.StatusBadRequest, "PASSWORD_NOT_SET", err)
		return
	}
	defer clear(passwordBytes)

	address, err := disperse.GenerateKey(h.filePath, passwordBytes)
	if err != nil {
		if disperse.IsFileExistsError(err) {
			writeError(w, http.StatusConflict, "FILE_EXISTS", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Key generated successfully",
		Address: address,
	})
}

// Balance handles GET /wallet/balance
// @Summary      Get signer balance
// @Description  Gets the native balance of the signer key
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if h.balances == nil {
		writeError(w, http.StatusNotFound, "NOT_CONFIGURED", errors.New("balance lookup not configured"))
		return
	}

	address, balance, err := h.balances.Balance(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "GATEWAY_ERROR", err)
		return
	}

	writeJSON(w, http.StatusOK, model.BalanceResponse{
		Address: address,
		Balance: h.parser.FormatAmount(balance),
		Wei:     balance.String(),
	})
}
