package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"

	"togaftutor.app/tutor/common/logger"
	"togaftutor.app/tutor/core/config"
	"togaftutor.app/tutor/internal/curriculum"
	"togaftutor.app/tutor/internal/queue"
)

// ingest enqueues corpus documents for the worker. It never processes
// anything itself; running it with a dead worker just parks tasks on
// the stream.
func main() {
	var (
		documentPath = flag.String("document", "", "enqueue a single PDF instead of the whole corpus")
		corpusRoot   = flag.String("corpus", "", "corpus root to walk (default: CORPUS_SOURCE_DIR)")
		reset        = flag.Bool("reset", false, "enqueue a collection reset before ingesting")
		resetOnly    = flag.Bool("reset-only", false, "enqueue a collection reset and exit")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg)

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	producer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
	defer producer.Close()

	if *reset || *resetOnly {
		if err := producer.Enqueue(ctx, queue.IngestMessage{TaskType: queue.TaskTypeCollectionReset}); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue collection reset", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "collection reset enqueued")
		if *resetOnly {
			return
		}
	}

	if *documentPath != "" {
		if err := enqueueDocument(ctx, producer, *documentPath); err != nil {
			slog.ErrorContext(ctx, "failed to enqueue document", "error", err, "document_path", *documentPath)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "document enqueued", "document_path", *documentPath)
		return
	}

	root := *corpusRoot
	if root == "" {
		root = cfg.Corpus.SourceDir
	}

	count, err := enqueueCorpus(ctx, producer, root)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enqueue corpus", "error", err, "corpus_root", root)
		os.Exit(1)
	}
	if count == 0 {
		slog.WarnContext(ctx, "no documents found under corpus root", "corpus_root", root)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "corpus enqueued", "corpus_root", root, "documents", count)
}

func enqueueDocument(ctx context.Context, producer queue.Producer, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	sourceDir := curriculum.DirCoreTopics
	if filepath.Base(filepath.Dir(path)) == curriculum.DirExtendedTopics {
		sourceDir = curriculum.DirExtendedTopics
	}

	return producer.Enqueue(ctx, queue.IngestMessage{
		TaskType:     queue.TaskTypeDocumentIngest,
		DocumentPath: path,
		SourceDir:    sourceDir,
	})
}

func enqueueCorpus(ctx context.Context, producer queue.Producer, root string) (int, error) {
	count := 0
	for _, dir := range []string{curriculum.DirCoreTopics, curriculum.DirExtendedTopics} {
		base := filepath.Join(root, dir)
		if _, err := os.Stat(base); err != nil {
			continue
		}
		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
				return nil
			}
			if err := producer.Enqueue(ctx, queue.IngestMessage{
				TaskType:     queue.TaskTypeDocumentIngest,
				DocumentPath: path,
				SourceDir:    dir,
			}); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			return count, err
		}
	}
	return count, nil
}
