package main

import (
	"errors"
	"os"

	"github.com/altbridge/persona/browserid"
)

// Exit codes: 0 the assertion verified, 1 the verifier rejected it,
// 2 anything else went wrong.
func main() {
	if err := rootCmd.Execute(); err != nil {
		var verr *browserid.VerificationError
		if errors.As(err, &verr) {
			os.Exit(1)
		}

		os.Exit(2)
	}
}
