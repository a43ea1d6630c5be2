// Package batch drives the scrape pipeline over a CSV of URLs.
package batch

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pagelift/scrape-cli/internal/model"
	"github.com/pagelift/scrape-cli/internal/pipeline"
)

// ReadURLs loads the target URLs from a headerless CSV file, one URL in
// the first column of each row. Blank rows are skipped.
func ReadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &pipeline.IOError{Path: path, Cause: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows may carry extra columns; only the first matters

	var urls []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &pipeline.IOError{Path: path, Cause: eris.Wrap(err, "batch: parse csv")}
		}
		if len(row) == 0 {
			continue
		}
		u := strings.TrimSpace(row[0])
		if u == "" {
			continue
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// Processor handles one URL end to end. Satisfied by *pipeline.Pipeline.
type Processor interface {
	ProcessURL(ctx context.Context, url string) (*model.Document, error)
}

// Runner drives the pipeline over a list of URLs, one at a time.
type Runner struct {
	pipeline Processor
}

// NewRunner builds a Runner around p.
func NewRunner(p Processor) *Runner {
	return &Runner{pipeline: p}
}

// Run processes urls strictly in order. A failed URL is recorded with
// its failing stage and the run moves on; only a cancelled context stops
// the batch early. Returns the summary and the records of the URLs that
// succeeded, in the same order.
func (r *Runner) Run(ctx context.Context, urls []string) (*model.BatchSummary, []model.Record, error) {
	summary := &model.BatchSummary{
		JobID:   uuid.NewString(),
		Total:   len(urls),
		Results: make([]model.URLResult, 0, len(urls)),
	}
	log := zap.L().With(zap.String("job_id", summary.JobID))
	log.Info("batch started", zap.Int("urls", len(urls)))

	// Non-nil so an empty or all-failed batch still serializes as [].
	records := make([]model.Record, 0, len(urls))
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, nil, eris.Wrap(err, "batch: cancelled")
		}

		doc, err := r.pipeline.ProcessURL(ctx, u)
		if err != nil {
			log.Warn("url failed",
				zap.String("url", u),
				zap.String("stage", pipeline.ErrorStage(err)),
				zap.Error(err))
			summary.Failed++
			summary.Results = append(summary.Results, model.URLResult{
				URL:    u,
				Status: model.URLFailed,
				Stage:  pipeline.ErrorStage(err),
				Error:  err.Error(),
			})
			continue
		}

		summary.Succeeded++
		summary.Results = append(summary.Results, model.URLResult{
			URL:    u,
			Status: model.URLSucceeded,
		})
		records = append(records, doc.Record)
		log.Debug("url done", zap.Int("index", i+1), zap.Int("total", len(urls)))
	}

	log.Info("batch finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))
	return summary, records, nil
}
