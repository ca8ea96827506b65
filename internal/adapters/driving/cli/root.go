// Package cli implements the command-line interface. Commands talk to
// the core exclusively through driving ports injected at startup.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected at startup. Commands check for nil so incomplete
// wiring fails with a clear message instead of a panic.
var (
	ingestService     driving.IngestService
	retrievalService  driving.RetrievalService
	answerService     driving.AnswerService
	collectionService driving.CollectionService
	settingsService   driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ansa",
	Short: "Ask questions grounded in your document",
	Long: `Ansa ingests a document into a local vector collection and answers
questions using only what the document says. When the document does not
contain the answer, the model refuses instead of guessing.

Typical use:
  ansa ingest report.pdf
  ansa ask "Qual foi o faturamento?"
  ansa chat`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace the pipeline steps")
}

// Services bundles the driving ports the commands depend on.
type Services struct {
	Ingest     driving.IngestService
	Retrieval  driving.RetrievalService
	Answer     driving.AnswerService
	Collection driving.CollectionService
	Settings   driving.SettingsService
}

// SetServices injects the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	ingestService = s.Ingest
	retrievalService = s.Retrieval
	answerService = s.Answer
	collectionService = s.Collection
	settingsService = s.Settings
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under ctx, so long-running
// commands like watch mode stop on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
