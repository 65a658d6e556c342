package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the signer password is prompted at runtime and stored in memory - use GetPasswordBytes()
type Config struct {
	Port                string        `envconfig:"PORT" default:"8080"`
	KeyFilePath         string        `envconfig:"KEY_FILE_PATH"`
	RPCURL              string        `envconfig:"RPC_URL" default:"https://testnet-rpc.monad.xyz"`
	ChainID             int64         `envconfig:"CHAIN_ID" default:"10143"`
	ContractAddress     string        `envconfig:"CONTRACT_ADDRESS" default:"0xf662457b7902f302aed42825878c76f8e82a2bbe"`
	ExplorerURL         string        `envconfig:"EXPLORER_URL" default:"https://testnet.monadexplorer.com"`
	TokenDecimals       int           `envconfig:"TOKEN_DECIMALS" default:"18"`
	EnforceChecksum     bool          `envconfig:"ENFORCE_CHECKSUM" default:"false"`
	ConfirmTimeout      time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"5m"`
	ReceiptPollInterval time.Duration `envconfig:"RECEIPT_POLL_INTERVAL" default:"2s"`
	SubmitCooldown      time.Duration `envconfig:"SUBMIT_COOLDOWN" default:"10s"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	if c.ChainID <= 0 {
		return fmt.Errorf("CHAIN_ID must be positive, got %d", c.ChainID)
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("CONTRACT_ADDRESS %q is not an address", c.ContractAddress)
	}
	// uint256 holds at most 77 decimal digits
	if c.TokenDecimals < 0 || c.TokenDecimals > 77 {
		return fmt.Errorf("TOKEN_DECIMALS must be within 0..77, got %d", c.TokenDecimals)
	}
	if c.ReceiptPollInterval <= 0 {
		return errors.New("RECEIPT_POLL_INTERVAL must be positive")
	}
	if c.ConfirmTimeout < 0 || c.SubmitCooldown < 0 {
		return errors.New("durations cannot be negative")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetKeyFilePath returns path to the signer key file from configuration
func GetKeyFilePath() string {
	return Get().KeyFilePath
}

// GetRPCURL returns the JSON-RPC endpoint from configuration
func GetRPCURL() string {
	return Get().RPCURL
}

// GetSubmitCooldown returns the minimum interval between HTTP submits
func GetSubmitCooldown() time.Duration {
	return Get().SubmitCooldown
}

var passwordBytes []byte

// PromptForPassword prompts the user for the signer key password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter key password: ")
	if err != nil {
		return err
	}
	passwordBytes = raw
	return nil
}

// ReadPassword prints prompt to stderr and reads a non-empty password without echo.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
