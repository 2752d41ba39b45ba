package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/altbridge/persona/browserid"
)

var (
	flagConfig   string
	flagAudience string
	flagVerifier string
	flagTimeout  time.Duration
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "persona-verify",
	Short: "Verify and inspect email ownership assertions",
	Long: `persona-verify submits BrowserID email assertions to a verification
service and decodes what assertions claim about themselves, for
debugging deployments that authenticate with them.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		initLogger(flagDebug)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flagAudience, "audience", "a", "", "origin the assertion must be scoped to (scheme://host[:port])")
	rootCmd.PersistentFlags().StringVar(&flagVerifier, "verifier", "", "verification endpoint (default "+browserid.DefaultVerifierURL+")")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "verification timeout (default "+browserid.DefaultTimeout.String()+")")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// initLogger routes logs to stderr so stdout stays clean for JSON
// output.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	slog.SetDefault(logger)
}
