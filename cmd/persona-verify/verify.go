package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/altbridge/persona/browserid"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [assertion-file]",
	Short: "Submit an assertion to the verification service",
	Long: `Verify reads an assertion from the named file, or from standard input
when no file (or "-") is given, submits it to the verification service
scoped to the configured audience, and prints the verifier's response
as JSON.

The exit code is 0 when the verifier accepted the assertion, 1 when it
rejected it, and 2 when verification could not complete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings()
		if err != nil {
			return err
		}
		if s.Audience == "" {
			return errors.New("an audience is required: pass --audience or set it in the config file")
		}

		assertion, err := readAssertion(args)
		if err != nil {
			return err
		}
		if assertion == "" {
			return errors.New("no assertion provided")
		}

		if claims, err := browserid.Inspect(assertion); err == nil {
			slog.Debug("assertion claims",
				slog.String("email", claims.Email),
				slog.String("audience", claims.Audience),
				slog.String("issuer", claims.Issuer),
				slog.Time("expires_at", claims.ExpiresAt))
		}

		client := browserid.NewClient(browserid.ClientConfig{
			VerifierURL: s.Verifier,
			Timeout:     s.Timeout,
		})

		slog.Debug("verifying assertion",
			slog.String("audience", s.Audience),
			slog.String("verifier", s.Verifier))

		res, err := client.Verify(cmd.Context(), assertion, s.Audience)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if !res.Okay() {
			return &browserid.VerificationError{Reason: res.Reason}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

// readAssertion reads the assertion from the file named in args, or
// from standard input when none (or "-") is named.
func readAssertion(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read assertion: %w", err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read assertion from stdin: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}
