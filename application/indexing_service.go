package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"cherry-ai/domain"

	"github.com/google/uuid"
)

const (
	embedBatchSize  = 100
	maxKnowledgeDoc = 10 * 1024 * 1024 // 10MB
)

// textExtensions are always treated as text, whatever their bytes look like.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".markdown": true, ".rst": true, ".html": true, ".htm": true,
	".json": true, ".xml": true, ".yaml": true, ".yml": true, ".csv": true, ".tsv": true,
}

// IndexingService seeds the vector store with a directory of knowledge-base
// documents: each file is split, embedded and upserted with its path as source.
type IndexingService struct {
	splitter    domain.TextSplitter
	embedder    domain.EmbeddingClient
	vectorStore domain.VectorStore
}

// NewIndexingService creates a new IndexingService.
func NewIndexingService(splitter domain.TextSplitter, embedder domain.EmbeddingClient, vectorStore domain.VectorStore) *IndexingService {
	return &IndexingService{
		splitter:    splitter,
		embedder:    embedder,
		vectorStore: vectorStore,
	}
}

// IndexDirectory walks rootDir, turns every readable text file into chunks and
// indexes them. Unreadable or binary files are logged and skipped. It returns
// the number of chunks indexed.
func (s *IndexingService) IndexDirectory(ctx context.Context, rootDir string) (int, error) {
	log.Printf("Starting indexing for directory: %s\n", rootDir)
	var docs []domain.Document
	var fileCount int

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		content, err := readTextFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v\n", path, err)
			return nil
		}

		chunks, err := s.splitter.SplitText(content)
		if err != nil {
			log.Printf("Error splitting %s: %v\n", path, err)
			return nil
		}
		fileCount++

		for _, chunk := range chunks {
			docs = append(docs, domain.Document{
				ID:      uuid.New().String(),
				Content: chunk,
				Metadata: map[string]string{
					domain.MetadataSource: path,
					"file_name":           filepath.Base(path),
				},
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, err
		}
		return 0, fmt.Errorf("error walking directory %s: %w", rootDir, err)
	}

	if len(docs) == 0 {
		log.Printf("No documents found in %s.\n", rootDir)
		return 0, nil
	}

	log.Printf("Split %d files into %d chunks. Generating embeddings...\n", fileCount, len(docs))

	for i := 0; i < len(docs); i += embedBatchSize {
		end := min(i+embedBatchSize, len(docs))
		batch := docs[i:end]

		texts := make([]string, len(batch))
		for j, d := range batch {
			texts[j] = d.Content
		}

		embeddings, err := s.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return i, fmt.Errorf("error generating embeddings for batch %d-%d: %w", i+1, end, err)
		}
		if len(embeddings) != len(texts) {
			return i, fmt.Errorf("mismatch between number of batch texts (%d) and embeddings (%d)", len(texts), len(embeddings))
		}
		for j := range batch {
			batch[j].Embedding = embeddings[j]
		}

		if err := s.vectorStore.Upsert(ctx, batch); err != nil {
			return i, fmt.Errorf("error upserting batch %d-%d: %w", i+1, end, err)
		}
	}

	log.Printf("Successfully indexed %d chunks from %s\n", len(docs), rootDir)
	return len(docs), nil
}

// readTextFile reads a file and rejects anything too large or binary.
func readTextFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > maxKnowledgeDoc {
		return "", fmt.Errorf("file too large (>10MB)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] && isBinary(data) {
		return "", fmt.Errorf("binary file")
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return string(data), nil
}

// isBinary reports whether the first kilobyte looks like binary data: any
// NUL byte, invalid UTF-8, or more than 1% control characters.
func isBinary(data []byte) bool {
	head := data[:min(len(data), 1024)]
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	// a multi-byte rune may be cut at the end of head
	if !utf8.Valid(head) && len(head) == len(data) {
		return true
	}

	control := 0
	for _, b := range head {
		if b < 9 || (b > 13 && b < 32 && b != 27) {
			control++
		}
	}
	return control > len(head)/100
}
