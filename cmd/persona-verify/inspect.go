package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/altbridge/persona/browserid"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [assertion-file]",
	Short: "Decode what an assertion claims without verifying it",
	Long: `Inspect decodes the email, audience, expiry, and issuer an assertion
claims for itself and prints them as JSON. No signature is checked and
no network call is made: the output is whatever the assertion's author
put there, useful for debugging and nothing else.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assertion, err := readAssertion(args)
		if err != nil {
			return err
		}

		info, err := browserid.Inspect(assertion)
		if err != nil {
			return err
		}

		claims := struct {
			Email     string `json:"email,omitempty"`
			Audience  string `json:"audience,omitempty"`
			ExpiresAt string `json:"expires_at,omitempty"`
			Issuer    string `json:"issuer,omitempty"`
		}{
			Email:    info.Email,
			Audience: info.Audience,
			Issuer:   info.Issuer,
		}
		if !info.ExpiresAt.IsZero() {
			claims.ExpiresAt = info.ExpiresAt.UTC().Format(time.RFC3339)
		}

		out, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
