package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpatel9/examforge/internal/extract"
	"github.com/rpatel9/examforge/internal/gitstore"
	"github.com/rpatel9/examforge/internal/quiz"
)

// Worker processes a single paper ingestion job: extract text, parse
// questions, store the resulting paper JSON.
type Worker struct {
	parser *quiz.Parser
	store  *gitstore.Client
	stats  *PipelineStats
	log    *slog.Logger

	maxQuestions int
	pdfFallback  bool
}

func NewWorker(parser *quiz.Parser, store *gitstore.Client, stats *PipelineStats, log *slog.Logger, maxQuestions int, pdfFallback bool) *Worker {
	return &Worker{
		parser:       parser,
		store:        store,
		stats:        stats,
		log:          log,
		maxQuestions: maxQuestions,
		pdfFallback:  pdfFallback,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "paper_id", job.PaperID, "filename", job.Filename)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	ex, err := extract.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if pdfEx, ok := ex.(*extract.PDFExtractor); ok {
		pdfEx.FallbackPdftotext = w.pdfFallback
	}

	start := time.Now()
	doc, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
	w.stats.Extract.Record(time.Since(start), err)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	log.Info("extracted document", "pages", len(doc.Pages))

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	start = time.Now()
	result, err := w.parser.ParsePages(doc.PageTexts())
	w.stats.Parse.Record(time.Since(start), err)
	if err != nil {
		if errors.Is(err, quiz.ErrNoContent) {
			log.Error("no parsable content")
			job.AddError("no parsable content in document")
		} else {
			log.Error("parse failed", "error", err)
			job.AddError(fmt.Sprintf("parse: %s", err))
		}
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	job.SetCapture(len(result.Paper.Questions), w.maxQuestions, result.Missing, result.Warnings)
	log.Info("parsed paper",
		"questions", len(result.Paper.Questions),
		"missing", len(result.Missing),
		"warnings", len(result.Warnings))

	// Phase 3: Store
	job.SetStatus(StatusStoring, "storing")
	result.Paper.Metadata = map[string]string{
		"source_file":  job.Filename,
		"content_hash": ContentHashHex(job.FileData()),
		"parsed_at":    time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := result.Paper.Encode()
	if err != nil {
		log.Error("encode failed", "error", err)
		job.AddError(fmt.Sprintf("encode: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	name := job.PaperID + ".json"
	message := fmt.Sprintf("Add paper %s from %s", job.PaperID, job.Filename)
	start = time.Now()
	err = w.putWithRetry(ctx, name, payload, message, log)
	w.stats.Store.Record(time.Since(start), err)
	if err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	log.Info("stored paper", "name", name, "bytes", len(payload))

	if len(result.Missing) > 0 || len(result.Warnings) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// putWithRetry writes to the content store, retrying transient errors
// with backoff.
func (w *Worker) putWithRetry(ctx context.Context, name string, payload []byte, message string, log *slog.Logger) error {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.store.Put(ctx, name, payload, message)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		log.Warn("retryable store error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
