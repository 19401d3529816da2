package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hbomb79/Hoard/pkg/logger"
)

type (
	processor interface {
		ProcessOne(ctx context.Context, videoID string, filters *Filters) Outcome
	}

	searcher interface {
		Search(query string, maxResults int) ([]string, error)
	}

	// Summary tallies the per-item outcomes of a batch run. The RunID
	// exists purely for log correlation across a batch's output.
	Summary struct {
		RunID    uuid.UUID
		Ingested int
		Skipped  int
		Failed   int
		Invalid  int
	}

	// Runner drives the pipeline over a list of video IDs sourced from a
	// file or from a search query. Items are processed strictly
	// sequentially; one item's failure never aborts the remainder of the
	// batch. Only a failure to obtain the batch source itself (unreadable
	// file, failed search call) aborts the run.
	Runner struct {
		processor processor
		searcher  searcher
	}
)

func NewRunner(processor processor, searcher searcher) *Runner {
	return &Runner{processor: processor, searcher: searcher}
}

// RunFromFile ingests every video referenced by the newline-delimited
// file at the given path. Lines without an extractable video ID are
// logged, counted in the summary and skipped; a failure to read the file
// itself aborts the whole batch.
func (runner *Runner) RunFromFile(ctx context.Context, path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file '%s': %w", path, err)
	}
	defer file.Close()

	summary := newSummary()
	log.Emit(logger.NEW, "Starting batch run %s from file '%s'\n", summary.RunID, path)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		videoID, err := ExtractVideoID(line)
		if err != nil {
			log.Warnf("Ignoring invalid batch line: %s\n", err.Error())
			summary.Invalid++
			continue
		}

		summary.tally(runner.processor.ProcessOne(ctx, videoID, nil))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file '%s': %w", path, err)
	}

	log.Infof("Batch run complete: %s\n", summary)
	return summary, nil
}

// RunFromSearch ingests videos matching the search query, applying the
// provided filters to each candidate. A failure of the search call itself
// aborts the run; per-item failures do not.
func (runner *Runner) RunFromSearch(ctx context.Context, query string, maxResults int, filters *Filters) (*Summary, error) {
	videoIDs, err := runner.searcher.Search(query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search for '%s' failed: %w", query, err)
	}

	summary := newSummary()
	log.Emit(logger.NEW, "Starting batch run %s from search '%s' (%d candidates)\n", summary.RunID, query, len(videoIDs))

	for _, videoID := range videoIDs {
		summary.tally(runner.processor.ProcessOne(ctx, videoID, filters))
	}

	log.Infof("Batch run complete: %s\n", summary)
	return summary, nil
}

func newSummary() *Summary {
	return &Summary{RunID: uuid.New()}
}

func (summary *Summary) tally(outcome Outcome) {
	switch outcome.Type {
	case Ingested:
		summary.Ingested++
	case Skipped:
		summary.Skipped++
	case Aborted:
		summary.Failed++
	}
}

func (summary *Summary) String() string {
	return fmt.Sprintf("Summary{run=%s ingested=%d skipped=%d failed=%d invalid=%d}",
		summary.RunID, summary.Ingested, summary.Skipped, summary.Failed, summary.Invalid)
}
