package disperse

import (
	"context"
	"math/big"

	"github.com/AlexZinkM/disperse/internal/model"
)

// Gateway is the wallet/provider capability the session depends on.
//
// Connect fails with ErrWalletUnavailable when no provider is present and with
// ErrUserRejected when the user declines. SendBatch invokes
// disperse(address[], uint256[]) with total attached as value and fails with
// ErrUserRejected, ErrInsufficientFunds or a *GatewayError. AwaitConfirmation
// fails with ErrTimeout or a *GatewayError; a reverted transaction is a receipt,
// not an error.
type Gateway interface {
	Connect(ctx context.Context) (string, error)
	SendBatch(ctx context.Context, addresses []string, amounts []*big.Int, total *big.Int) (string, error)
	AwaitConfirmation(ctx context.Context, txHash string) (*model.Receipt, error)
}
