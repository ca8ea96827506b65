package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show collection state and recent ingestions",
	Long: `Display how many entries the vector collection holds, the embedding
dimensionality in use, and the most recent ingestion runs.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	ctx := cmd.Context()

	stats, err := collectionService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read collection stats: %w", err)
	}

	cmd.Println("Collection")
	cmd.Println("==========")
	cmd.Printf("  Entries: %d\n", stats.Entries)
	if stats.Dimensions > 0 {
		cmd.Printf("  Dimensions: %d\n", stats.Dimensions)
	} else {
		cmd.Println("  Dimensions: (empty collection)")
	}
	cmd.Println()

	runs, err := collectionService.RecentRuns(ctx, 5)
	if err != nil {
		return fmt.Errorf("failed to read ingestion history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No ingestion runs recorded yet. Run 'ansa ingest' first.")
		return nil
	}

	cmd.Println("Recent ingestions")
	cmd.Println("=================")
	for i := range runs {
		run := &runs[i]
		cmd.Printf("  %s  %s: %d chunks, %d entries (%s)\n",
			run.FinishedAt.Format("2006-01-02 15:04"),
			run.DocumentURI,
			run.Chunks,
			run.Entries,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}

	return nil
}
