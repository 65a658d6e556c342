package commands

import (
	"bufio"
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/client"
	"github.com/AlexZinkM/disperse/internal/config"
)

// send <file>: connect, parse, confirm, submit and wait for the receipt.
func sendCmd() *cobra.Command {
	var (
		yes         bool
		skipInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "send <file>",
		Short: "Send one disperse transaction to the recipients in file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := disperse.LoadRecipients(args[0])
			if err != nil {
				return err
			}

			password, err := config.ReadPassword("Enter key password: ")
			if err != nil {
				return err
			}
			defer clear(password)
			passwordCopy := func() ([]byte, error) {
				return append([]byte(nil), password...), nil
			}

			parser := newParser()
			var opts []client.EthereumOption
			if !yes {
				opts = append(opts, client.WithApprover(promptApprover(cmd, parser)))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, _, err := newSession(ctx, passwordCopy, nil, opts...)
			if err != nil {
				return err
			}
			defer session.Disconnect()

			account, err := session.Connect(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "connected as %s\n", account)

			result, err := session.EditInput(text)
			printParseErrors(cmd.ErrOrStderr(), result.Errors)
			if err != nil {
				return err
			}
			if len(result.Errors) > 0 && !skipInvalid {
				return fmt.Errorf("%d line(s) rejected, fix them or pass --skip-invalid", len(result.Errors))
			}
			printPlan(cmd.OutOrStdout(), parser, session.Plan())

			txHash, err := session.Submit(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted %s\n%s\n", txHash, disperse.ExplorerURL(cfg.ExplorerURL, txHash))

			snap, err := session.WaitSettled(ctx)
			if err != nil {
				return fmt.Errorf("stopped waiting for %s: %w", txHash, err)
			}
			if session.State() != disperse.StateConfirmed {
				return session.LastError()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "confirmed in block %d\n", snap.Receipt.BlockNumber)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "send without asking for confirmation")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "send the valid lines even if some were rejected")
	return cmd
}

// promptApprover asks on stderr and reads y/N from stdin
func promptApprover(cmd *cobra.Command, parser *disperse.Parser) client.Approver {
	reader := bufio.NewReader(cmd.InOrStdin())
	return func(ctx context.Context, recipients int, total *big.Int) (bool, error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Send %s to %d recipients? [y/N]: ", parser.FormatAmount(total), recipients)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes", nil
	}
}
