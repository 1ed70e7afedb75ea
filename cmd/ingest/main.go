package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/config"
	"github.com/SaraLat04/Assistant-Juridique/internal/observability"
	"github.com/SaraLat04/Assistant-Juridique/models"
	"github.com/SaraLat04/Assistant-Juridique/vectorstore/chroma"
)

// minChunkChars filters out header fragments and empty article bodies.
const minChunkChars = 20

const batchSize = 100

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "data", "directory containing legal-text CSV files")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	store, err := chroma.NewClient(ctx, cfg.Retrieval.ChromaURL, cfg.Retrieval.Collection, logger)
	if err != nil {
		logger.Fatal("failed to connect to vector store", zap.Error(err))
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		logger.Fatal("failed to list CSV files", zap.Error(err))
	}
	if len(files) == 0 {
		logger.Fatal("no CSV files found", zap.String("dir", dir))
	}

	total := 0
	for _, file := range files {
		n, err := ingestFile(ctx, store, file)
		if err != nil {
			logger.Error("ingestion failed", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Info("file ingested", zap.String("file", file), zap.Int("chunks", n))
		total += n
	}

	count, err := store.Count(ctx)
	if err != nil {
		logger.Warn("failed to read collection count", zap.Error(err))
	}
	logger.Info("ingestion complete",
		zap.Int("chunks_added", total),
		zap.Int("collection_size", count))
}

// ingestFile reads one CSV of legal articles and adds its rows as chunks.
// Header names are matched case-insensitively; rows without usable text are
// skipped.
func ingestFile(ctx context.Context, store *chroma.Client, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	cols := columnIndex(header)
	if _, ok := cols["contenu"]; !ok {
		if _, ok := cols["texte"]; !ok {
			return 0, fmt.Errorf("no text column (contenu or texte) in %s", path)
		}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var batch []models.Chunk
	added := 0
	rowNum := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return added, fmt.Errorf("row %d: %w", rowNum, err)
		}
		rowNum++

		text := strings.TrimSpace(field(row, cols, "contenu"))
		if text == "" {
			text = strings.TrimSpace(field(row, cols, "texte"))
		}
		if len([]rune(text)) < minChunkChars {
			continue
		}

		batch = append(batch, models.Chunk{
			ID:   fmt.Sprintf("%s-%d", base, rowNum),
			Text: text,
			Metadata: models.ChunkMetadata{
				DocumentName: firstNonEmpty(field(row, cols, "doc"), field(row, cols, "document"), base),
				ArticleLabel: field(row, cols, "article"),
				PageRef:      field(row, cols, "pages"),
				Title:        firstNonEmpty(field(row, cols, "titre"), field(row, cols, "chapitre"), field(row, cols, "section")),
				ChunkIndex:   rowNum,
				SourceFile:   filepath.Base(path),
			},
		})

		if len(batch) >= batchSize {
			if err := store.Add(ctx, batch); err != nil {
				return added, err
			}
			added += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := store.Add(ctx, batch); err != nil {
			return added, err
		}
		added += len(batch)
	}
	return added, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
