package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/client"
	"github.com/AlexZinkM/disperse/internal/config"
	"github.com/AlexZinkM/disperse/internal/logger"
	"github.com/AlexZinkM/disperse/internal/metrics"
)

var (
	cfg *config.Config
	log *zap.Logger
)

// Execute runs the disperse CLI
func Execute() error {
	root := &cobra.Command{
		Use:           "disperse",
		Short:         "Send native tokens to many recipients in one transaction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Init(); err != nil {
				return err
			}
			cfg = config.Get()

			l, _, err := logger.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}

	root.AddCommand(parseCmd(), sendCmd(), serveCmd(), keygenCmd(), rekeyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func newParser() *disperse.Parser {
	return disperse.NewParser(cfg.TokenDecimals, cfg.EnforceChecksum)
}

// newSession dials the node and builds a session around the key file signer
func newSession(ctx context.Context, password func() ([]byte, error), m *metrics.Metrics, opts ...client.EthereumOption) (*disperse.Session, *client.EthereumClient, error) {
	if cfg.KeyFilePath == "" {
		return nil, nil, fmt.Errorf("KEY_FILE_PATH not set")
	}

	keys := &client.FileKeySource{Path: cfg.KeyFilePath, Password: password}
	opts = append([]client.EthereumOption{
		client.WithPollInterval(cfg.ReceiptPollInterval),
		client.WithClientLogger(log.Named("gateway")),
	}, opts...)

	gateway, err := client.DialEthereum(ctx, cfg.RPCURL, keys, cfg.ContractAddress, cfg.ChainID, opts...)
	if err != nil {
		return nil, nil, err
	}

	session := disperse.NewSession(gateway,
		disperse.WithLogger(log.Named("session")),
		disperse.WithMetrics(m),
		disperse.WithParser(newParser()),
		disperse.WithExplorerURL(cfg.ExplorerURL),
		disperse.WithConfirmTimeout(cfg.ConfirmTimeout),
	)
	return session, gateway, nil
}

// readInput returns the recipients file contents, or stdin when no file is given
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return disperse.LoadRecipients(args[0])
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
