package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/extract"
	"github.com/hyperjump/kotae/internal/models"
)

// ErrNoContentExtracted means every page of a document failed extraction or
// was empty; the document as a whole is considered failed.
var ErrNoContentExtracted = errors.New("no content extracted from document")

// State is the pipeline's position in processing a document.
type State int

const (
	StateNotStarted State = iota
	StateExtracting
	StateChunking
	StateEmbedding
	StateUpserting
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateExtracting:
		return "extracting"
	case StateChunking:
		return "chunking"
	case StateEmbedding:
		return "embedding"
	case StateUpserting:
		return "upserting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChunkStore is the subset of the chunk collection the pipeline drives.
type ChunkStore interface {
	Upsert(ctx context.Context, batch []models.EmbeddedChunk) error
}

// PageSource yields document pages one at a time. extract.Document satisfies it.
type PageSource interface {
	NumPages() int
	PageText(n int) (string, error)
	Close() error
}

// Result summarizes a completed ingestion run.
type Result struct {
	Document     string
	Pages        int
	PagesSkipped int
	Chunks       int
}

// Pipeline ingests documents page by page: extract, chunk, and on every full
// batch embed + upsert + drop the batch buffer before reading further pages.
// Peak memory is bounded by the batch size, independent of document length.
// Runs are serialized; ingestion is a sequential administrative operation.
type Pipeline struct {
	embedder   embedding.Embedder
	store      ChunkStore
	chunker    *Chunker
	batchSize  int
	logger     *zap.Logger      // optional; when set, logs progress and skipped pages
	checkpoint func(chunks int) // optional; called at each batch boundary after commit

	runMu sync.Mutex
	mu    sync.Mutex
	state State
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets a logger for progress and skipped-page warnings.
func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// WithCheckpoint sets a hook invoked at every batch boundary with the number
// of chunks just committed. Cancellation is only observed at these boundaries.
func WithCheckpoint(fn func(chunks int)) PipelineOption {
	return func(p *Pipeline) { p.checkpoint = fn }
}

// NewPipeline creates a pipeline. batchSize caps chunks held in memory before
// an embed-and-upsert flush; values below 1 default to 50.
func NewPipeline(embedder embedding.Embedder, store ChunkStore, chunker *Chunker, batchSize int, opts ...PipelineOption) *Pipeline {
	if batchSize <= 0 {
		batchSize = 50
	}
	p := &Pipeline{
		embedder:  embedder,
		store:     store,
		chunker:   chunker,
		batchSize: batchSize,
		state:     StateNotStarted,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// IngestFile opens the PDF at path and runs ingestion. The source document
// name recorded on chunks is the file's base name.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Result, error) {
	doc, err := extract.OpenPDF(path)
	if err != nil {
		p.setState(StateFailed)
		return nil, err
	}
	defer doc.Close()
	return p.Run(ctx, filepath.Base(path), doc)
}

// Run ingests all pages of doc under the given source name. Pages that fail
// extraction are skipped and logged; the run fails only when no page yields
// content. Cancellation is honored between batches, never mid-batch: batches
// already upserted stay committed.
func (p *Pipeline) Run(ctx context.Context, source string, doc PageSource) (*Result, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	result := &Result{Document: source, Pages: doc.NumPages()}
	batch := make([]models.Chunk, 0, p.batchSize)
	pagesWithContent := 0

	for pageNum := 1; pageNum <= result.Pages; pageNum++ {
		if err := ctx.Err(); err != nil {
			p.setState(StateFailed)
			return result, err
		}
		p.setState(StateExtracting)
		text, err := doc.PageText(pageNum)
		if err != nil {
			result.PagesSkipped++
			if p.logger != nil {
				p.logger.Warn("page extraction failed, skipping",
					zap.String("document", source), zap.Int("page", pageNum), zap.Error(err))
			}
			continue
		}
		text = Preprocess(text)
		if text == "" {
			continue
		}
		pagesWithContent++

		p.setState(StateChunking)
		batch = append(batch, p.chunker.Chunk(source, pageNum, text)...)

		for len(batch) >= p.batchSize {
			flush := batch[:p.batchSize]
			rest := batch[p.batchSize:]
			if err := p.flush(ctx, flush); err != nil {
				p.setState(StateFailed)
				return result, err
			}
			result.Chunks += len(flush)
			// Copy the tail into a fresh buffer so the flushed batch is released.
			batch = append(make([]models.Chunk, 0, p.batchSize), rest...)
			if err := ctx.Err(); err != nil {
				p.setState(StateFailed)
				return result, err
			}
		}
	}

	if len(batch) > 0 {
		if err := p.flush(ctx, batch); err != nil {
			p.setState(StateFailed)
			return result, err
		}
		result.Chunks += len(batch)
	}

	if pagesWithContent == 0 {
		p.setState(StateFailed)
		return result, fmt.Errorf("%w: %s", ErrNoContentExtracted, source)
	}
	p.setState(StateDone)
	if p.logger != nil {
		p.logger.Info("document ingested",
			zap.String("document", source),
			zap.Int("pages", result.Pages),
			zap.Int("pages_skipped", result.PagesSkipped),
			zap.Int("chunks", result.Chunks))
	}
	return result, nil
}

// flush embeds one batch and upserts it. The batch slice is not retained.
func (p *Pipeline) flush(ctx context.Context, batch []models.Chunk) error {
	p.setState(StateEmbedding)
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Text
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(batch))
	}

	p.setState(StateUpserting)
	embedded := make([]models.EmbeddedChunk, len(batch))
	for i := range batch {
		embedded[i] = models.EmbeddedChunk{Chunk: batch[i], Embedding: vectors[i]}
	}
	if err := p.store.Upsert(ctx, embedded); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	if p.checkpoint != nil {
		p.checkpoint(len(batch))
	}
	return nil
}
