package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ansa-labs/ansa-cli/internal/watcher"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a document into the collection",
	Long: `Loads a document, splits it into overlapping chunks, embeds each
chunk, and appends the result to the vector collection.

Without a path the configured document is used (document.path in the
settings, or the PDF_PATH environment variable). The collection is
append-only: ingesting the same document again adds a second copy of
its chunks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest whenever the file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path, err := resolveDocumentPath(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := ingestOnce(ctx, cmd, path); err != nil {
		return err
	}

	if !ingestWatch {
		return nil
	}

	cmd.Printf("Watching %s for changes. Press Ctrl+C to stop.\n", path)
	w := watcher.New(path)
	err = w.Watch(ctx, func(ctx context.Context) error {
		return ingestOnce(ctx, cmd, path)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, path string) error {
	run, err := ingestService.Ingest(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingestão concluída: %d chunks processados\n", run.Chunks)
	return nil
}

// resolveDocumentPath returns the explicit argument when given, the
// configured default otherwise.
func resolveDocumentPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	if settingsService == nil {
		return "", errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("load settings: %w", err)
	}
	return settings.Document.Path, nil
}
