package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hbomb79/Hoard/internal"
	"github.com/hbomb79/Hoard/internal/ingest"
)

// main is the entry point to the program. It loads the users Hoard
// configuration, wires up the core, and dispatches to exactly one of the
// three ingestion modes based on the flags provided.
func main() {
	var (
		configPath  = flag.String("config", "hoard.yaml", "path to the YAML configuration file")
		singleInput = flag.String("url", "", "single video URL (or bare ID) to ingest")
		batchFile   = flag.String("file", "", "path to a newline-delimited file of video URLs/IDs")
		searchQuery = flag.String("search", "", "search query to source videos from")
		maxResults  = flag.Int("max-results", 10, "maximum number of search results to ingest")
		minViews    = flag.Int64("min-views", 0, "minimum view count for search results (inclusive)")
		minDuration = flag.Int("min-duration", 0, "minimum duration in seconds for search results (inclusive)")
		maxDuration = flag.Int("max-duration", 0, "maximum duration in seconds for search results (inclusive, 0 = unbounded)")
	)
	flag.Parse()

	modes := 0
	for _, mode := range []string{*singleInput, *batchFile, *searchQuery} {
		if mode != "" {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "exactly one of -url, -file or -search must be provided")
		flag.Usage()
		os.Exit(2)
	}

	config := internal.HoardConfig{}
	if err := config.LoadFromFile(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err.Error())
		os.Exit(1)
	}

	hoard, err := internal.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise: %s\n", err.Error())
		os.Exit(1)
	}
	defer hoard.Close()

	ctx := context.Background()
	switch {
	case *singleInput != "":
		err = hoard.IngestSingle(ctx, *singleInput)
	case *batchFile != "":
		_, err = hoard.IngestFromFile(ctx, *batchFile)
	case *searchQuery != "":
		filters := &ingest.Filters{
			MinViews:    *minViews,
			MinDuration: *minDuration,
			MaxDuration: *maxDuration,
		}
		_, err = hoard.IngestFromSearch(ctx, *searchQuery, *maxResults, filters)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestion failed: %s\n", err.Error())
		os.Exit(1)
	}
}
