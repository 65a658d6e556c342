package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/crypto"
	"github.com/AlexZinkM/disperse/internal/model"
)

// DisperseABI is the single entry point of the batch transfer contract
const DisperseABI = `[{"type":"function","name":"disperse","stateMutability":"payable","inputs":[{"name":"recipients","type":"address[]"},{"name":"amounts","type":"uint256[]"}],"outputs":[]}]`

const (
	defaultPollInterval = 2 * time.Second
	// gas estimate headroom, percent
	gasBufferPercent = 20
)

// Backend is the part of ethclient.Client the gateway uses
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// KeySource provides the signer. PrivateKey is called once per signature.
type KeySource interface {
	Address() (common.Address, error)
	PrivateKey() (*ecdsa.PrivateKey, error)
}

// Approver is asked before every signature. Returning false rejects the batch.
type Approver func(ctx context.Context, recipients int, total *big.Int) (bool, error)

// EthereumClient is the disperse gateway backed by a JSON-RPC node and a local key
type EthereumClient struct {
	backend      Backend
	keys         KeySource
	contract     common.Address
	chainID      *big.Int
	abi          abi.ABI
	approve      Approver
	pollInterval time.Duration
	logger       *zap.Logger

	mu      sync.Mutex
	account common.Address
}

// EthereumOption configures an EthereumClient
type EthereumOption func(*EthereumClient)

// WithApprover sets the confirmation hook
func WithApprover(a Approver) EthereumOption {
	return func(c *EthereumClient) { c.approve = a }
}

// WithPollInterval sets the receipt polling interval
func WithPollInterval(d time.Duration) EthereumOption {
	return func(c *EthereumClient) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithClientLogger sets the client logger
func WithClientLogger(l *zap.Logger) EthereumOption {
	return func(c *EthereumClient) { c.logger = l }
}

// DialEthereum connects to rpcURL and creates a gateway for it
func DialEthereum(ctx context.Context, rpcURL string, keys KeySource, contract string, chainID int64, opts ...EthereumOption) (*EthereumClient, error) {
	rpc, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	return NewEthereumClient(rpc, keys, contract, chainID, opts...)
}

// NewEthereumClient creates a gateway on top of backend
func NewEthereumClient(backend Backend, keys KeySource, contract string, chainID int64, opts ...EthereumOption) (*EthereumClient, error) {
	if !common.IsHexAddress(contract) {
		return nil, fmt.Errorf("invalid contract address %q", contract)
	}
	parsed, err := abi.JSON(strings.NewReader(DisperseABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	c := &EthereumClient{
		backend:      backend,
		keys:         keys,
		contract:     common.HexToAddress(contract),
		chainID:      big.NewInt(chainID),
		abi:          parsed,
		pollInterval: defaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect unlocks the signer and checks that the node serves the configured chain
func (c *EthereumClient) Connect(ctx context.Context) (string, error) {
	if c.keys == nil {
		return "", fmt.Errorf("%w: no signer key configured", disperse.ErrWalletUnavailable)
	}

	address, err := c.keys.Address()
	if err != nil {
		return "", fmt.Errorf("%w: %w", disperse.ErrWalletUnavailable, err)
	}

	key, err := c.keys.PrivateKey()
	if err != nil {
		return "", fmt.Errorf("%w: %w", disperse.ErrWalletUnavailable, err)
	}
	if ethcrypto.PubkeyToAddress(key.PublicKey) != address {
		return "", fmt.Errorf("%w: private key does not match address", disperse.ErrWalletUnavailable)
	}

	chainID, err := c.backend.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get chain id: %w", disperse.ErrWalletUnavailable, err)
	}
	if chainID.Cmp(c.chainID) != 0 {
		return "", fmt.Errorf("%w: node is on chain %s, want %s", disperse.ErrWalletUnavailable, chainID, c.chainID)
	}

	c.mu.Lock()
	c.account = address
	c.mu.Unlock()
	c.logger.Info("signer unlocked", zap.String("account", address.Hex()), zap.String("chain_id", chainID.String()))
	return address.Hex(), nil
}

// Balance returns the signer's native balance in wei
func (c *EthereumClient) Balance(ctx context.Context) (string, *big.Int, error) {
	if c.keys == nil {
		return "", nil, errors.New("no signer key configured")
	}
	address, err := c.keys.Address()
	if err != nil {
		return "", nil, err
	}
	balance, err := c.backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return address.Hex(), balance, nil
}

// PackDisperse encodes the contract call for the given recipients
func (c *EthereumClient) PackDisperse(addresses []string, amounts []*big.Int) ([]byte, error) {
	if len(addresses) != len(amounts) {
		return nil, fmt.Errorf("%d addresses but %d amounts", len(addresses), len(amounts))
	}
	recipients := make([]common.Address, len(addresses))
	for i, a := range addresses {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid recipient %q", a)
		}
		recipients[i] = common.HexToAddress(a)
	}
	return c.abi.Pack("disperse", recipients, amounts)
}

// SendBatch signs and broadcasts disperse(addresses, amounts) with total attached as value
func (c *EthereumClient) SendBatch(ctx context.Context, addresses []string, amounts []*big.Int, total *big.Int) (string, error) {
	c.mu.Lock()
	account := c.account
	c.mu.Unlock()
	if account == (common.Address{}) {
		return "", &disperse.GatewayError{Message: "signer not connected"}
	}

	data, err := c.PackDisperse(addresses, amounts)
	if err != nil {
		return "", &disperse.GatewayError{Message: "failed to pack call", Err: err}
	}

	nonce, err := c.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return "", classifyRPCError("failed to get nonce", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return "", classifyRPCError("failed to get gas price", err)
	}

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  account,
		To:    &c.contract,
		Value: total,
		Data:  data,
	})
	if err != nil {
		return "", classifyRPCError("failed to estimate gas", err)
	}
	gas += gas * gasBufferPercent / 100

	// Balance check before signing
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return "", classifyRPCError("failed to get balance", err)
	}
	fee := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gas))
	required := new(big.Int).Add(total, fee)
	if balance.Cmp(required) < 0 {
		return "", fmt.Errorf("%w: need %s wei, have %s wei", disperse.ErrInsufficientFunds, required, balance)
	}

	if c.approve != nil {
		ok, err := c.approve(ctx, len(addresses), total)
		if err != nil {
			return "", fmt.Errorf("%w: %w", disperse.ErrUserRejected, err)
		}
		if !ok {
			return "", disperse.ErrUserRejected
		}
	}

	key, err := c.keys.PrivateKey()
	if err != nil {
		return "", &disperse.GatewayError{Message: "failed to unlock signer", Err: err}
	}
	if ethcrypto.PubkeyToAddress(key.PublicKey) != account {
		return "", &disperse.GatewayError{Message: "private key does not match address"}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &c.contract,
		Value:    total,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), key)
	if err != nil {
		return "", &disperse.GatewayError{Message: "failed to sign transaction", Err: err}
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return "", classifyRPCError("failed to send transaction", err)
	}

	hash := signed.Hash().Hex()
	c.logger.Info("batch broadcast",
		zap.String("tx_hash", hash),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
	)
	return hash, nil
}

// AwaitConfirmation polls for the receipt until it appears or ctx is done
func (c *EthereumClient) AwaitConfirmation(ctx context.Context, txHash string) (*model.Receipt, error) {
	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			return toReceipt(receipt), nil
		case errors.Is(err, ethereum.NotFound):
		case ctx.Err() != nil:
		default:
			return nil, classifyRPCError("failed to get receipt", err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", disperse.ErrTimeout, txHash)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func toReceipt(r *types.Receipt) *model.Receipt {
	status := model.ReceiptStatusReverted
	if r.Status == types.ReceiptStatusSuccessful {
		status = model.ReceiptStatusSuccess
	}
	out := &model.Receipt{
		Status:  status,
		Hash:    r.TxHash.Hex(),
		GasUsed: r.GasUsed,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}

// classifyRPCError maps node error messages onto the gateway error taxonomy
func classifyRPCError(message string, err error) error {
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "insufficient funds"):
		return fmt.Errorf("%w: %w", disperse.ErrInsufficientFunds, err)
	case strings.Contains(errStr, "user denied") || strings.Contains(errStr, "user rejected"):
		return fmt.Errorf("%w: %w", disperse.ErrUserRejected, err)
	default:
		return &disperse.GatewayError{Message: message, Err: err}
	}
}

// FileKeySource reads the signer from an encrypted key file
type FileKeySource struct {
	Path     string
	Password func() ([]byte, error)
}

// Address returns the address stored in the key file without decrypting it
func (f *FileKeySource) Address() (common.Address, error) {
	address, err := crypto.ReadKeyAddress(f.Path)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read key address: %w", err)
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("key file holds invalid address %q", address)
	}
	return common.HexToAddress(address), nil
}

// PrivateKey decrypts the key file
func (f *FileKeySource) PrivateKey() (*ecdsa.PrivateKey, error) {
	password, err := f.Password()
	if err != nil {
		return nil, err
	}
	defer clear(password)

	_, keyData, err := crypto.DecryptKey(f.Path, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt key: %w", err)
	}
	defer clear(keyData.PrivateKey)

	key, err := ethcrypto.ToECDSA(keyData.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
