// Command ansa ingests a document into a local vector collection and
// answers questions grounded in it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/ai"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/config/file"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/storage/memory"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/storage/milvus"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driven/storage/sqlite"
	"github.com/ansa-labs/ansa-cli/internal/adapters/driving/cli"
	"github.com/ansa-labs/ansa-cli/internal/chunker"
	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driving"
	"github.com/ansa-labs/ansa-cli/internal/core/services"
	"github.com/ansa-labs/ansa-cli/internal/loaders"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	// A .env in the working directory is a convenience for API keys;
	// its absence is fine.
	_ = godotenv.Load()

	// Cobra parses --verbose only once a command runs; peek at the
	// arguments so wiring diagnostics are not lost.
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "--verbose" {
			logger.SetVerbose(true)
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	closers, err := wire(ctx)
	defer closeAll(closers)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cli.SetVersion(version)
	if err := cli.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// wire builds the adapter stack from persisted settings and injects the
// services into the CLI. Providers and the index backend are optional at
// startup so that settings and version keep working before anything is
// configured; commands that need a missing service say so. Returns the
// resources to close on exit, also when wiring fails partway.
func wire(ctx context.Context) ([]io.Closer, error) {
	var closers []io.Closer

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return closers, fmt.Errorf("open config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return closers, fmt.Errorf("load settings: %w", err)
	}

	var embedder driven.EmbeddingService
	if svc, err := ai.CreateEmbeddingService(&settings.Embedding); err != nil {
		logger.Debug("Embedding provider not available: %v", err)
	} else {
		embedder = svc
		closers = append(closers, svc)
	}

	var llm driven.LLMService
	if svc, err := ai.CreateLLMService(&settings.LLM); err != nil {
		logger.Debug("LLM provider not available: %v", err)
	} else {
		llm = svc
		closers = append(closers, svc)
	}

	var (
		index    driven.VectorIndex
		runStore driven.RunStore
	)
	switch settings.Index.Backend {
	case domain.IndexBackendMemory:
		index = memory.NewIndex()
		runStore = memory.NewRunStore()

	case domain.IndexBackendMilvus:
		// The collection schema needs the embedding size up front.
		dims := domain.EmbeddingDimensions()[settings.Embedding.Model]
		if embedder != nil {
			dims = embedder.Dimensions()
		}
		idx, err := milvus.New(ctx, milvus.Config{
			Address:    settings.Index.Address,
			Collection: settings.Index.Collection,
			Dimensions: dims,
		})
		if err != nil {
			logger.Warn("Milvus backend unavailable: %v", err)
		} else {
			index = idx
			closers = append(closers, idx)
		}

	default:
		store, err := sqlite.NewStore(settings.Index.DataDir)
		if err != nil {
			logger.Warn("SQLite backend unavailable: %v", err)
		} else {
			index = store.VectorIndex()
			runStore = store.RunStore()
			closers = append(closers, store)
		}
	}

	splitter := chunker.New(
		chunker.WithChunkSize(settings.Chunking.MaxChars),
		chunker.WithOverlap(settings.Chunking.OverlapChars),
	)

	var (
		retrieval  driving.RetrievalService
		answer     driving.AnswerService
		ingest     driving.IngestService
		collection driving.CollectionService
	)

	if index != nil {
		collection = services.NewCollectionService(index, runStore)
	}
	if embedder != nil && index != nil {
		retrieval = services.NewRetrieverService(embedder, index, settings.Retrieval.TopK)
		ingest = services.NewIngestService(loaders.NewDefaultRegistry(), splitter, embedder, index, runStore)
	}
	if retrieval != nil && llm != nil {
		answerSvc := services.NewAnswerService(retrieval, llm, settings.Answer.RefusalSentence)
		if promptStore, err := file.NewPromptStore(""); err == nil {
			answerSvc.SetPromptStore(promptStore)
		} else {
			logger.Debug("Prompt store unavailable: %v", err)
		}
		answer = answerSvc
	}

	cli.SetServices(&cli.Services{
		Ingest:     ingest,
		Retrieval:  retrieval,
		Answer:     answer,
		Collection: collection,
		Settings:   settingsService,
	})
	cli.SetTUIConfig(&cli.TUIConfig{
		AnswerService:     answer,
		RetrievalService:  retrieval,
		IngestService:     ingest,
		CollectionService: collection,
		SettingsService:   settingsService,
	})

	return closers, nil
}

func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Debug("Close: %v", err)
		}
	}
}
