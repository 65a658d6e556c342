package commands

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/config"
	"github.com/AlexZinkM/disperse/internal/crypto"
)

// keygen: create an encrypted signer key file.
func keygenCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signer key and write it encrypted to a key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = cfg.KeyFilePath
			}
			if out == "" {
				return errors.New("no key file path: pass --out or set KEY_FILE_PATH")
			}

			password, err := readNewPassword("Enter key password: ")
			if err != nil {
				return err
			}
			defer clear(password)

			address, err := disperse.GenerateKey(out, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", address, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "key file path, must end in "+crypto.KeyFileExt+" (default KEY_FILE_PATH)")
	return cmd
}

// rekey: re-encrypt a key file under a new password.
func rekeyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "rekey",
		Short: "Re-encrypt the signer key file with a new password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.KeyFilePath
			}
			if file == "" {
				return errors.New("no key file path: pass --file or set KEY_FILE_PATH")
			}

			oldPassword, err := config.ReadPassword("Enter current password: ")
			if err != nil {
				return err
			}
			defer clear(oldPassword)

			newPassword, err := readNewPassword("Enter new password: ")
			if err != nil {
				return err
			}
			defer clear(newPassword)

			address, err := crypto.Reencrypt(file, oldPassword, newPassword)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "re-encrypted key for %s\n", address)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "key file path (default KEY_FILE_PATH)")
	return cmd
}

func readNewPassword(prompt string) ([]byte, error) {
	password, err := config.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	repeat, err := config.ReadPassword("Repeat password: ")
	if err != nil {
		clear(password)
		return nil, err
	}
	defer clear(repeat)

	if !bytes.Equal(password, repeat) {
		clear(password)
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}
