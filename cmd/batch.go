package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelift/scrape-cli/internal/batch"
	"github.com/pagelift/scrape-cli/internal/pipeline"
	"github.com/pagelift/scrape-cli/internal/store"
	"github.com/pagelift/scrape-cli/internal/writer"
)

var (
	batchCSV    string
	batchOutput string
	batchSchema string
	batchLimit  int
	batchDryRun bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scrape every URL listed in a CSV file",
	Long:  "Reads URLs from the first column of a headerless CSV and processes them sequentially. A failing URL is reported and skipped; the batch carries on.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		schema, err := loadSchema(batchSchema)
		if err != nil {
			return eris.Wrap(err, "load schema")
		}

		urls, err := batch.ReadURLs(batchCSV)
		if err != nil {
			return eris.Wrap(err, "read csv")
		}
		if batchLimit > 0 && len(urls) > batchLimit {
			urls = urls[:batchLimit]
		}

		scraper, err := newScraper()
		if err != nil {
			return err
		}
		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		var st store.Store
		if !batchDryRun {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
		} else {
			zap.L().Info("dry run, store writes disabled")
		}

		p := pipeline.New(scraper, extractor, st, schema)
		summary, records, err := batch.NewRunner(p).Run(ctx, urls)
		if err != nil {
			return eris.Wrap(err, "run batch")
		}

		if err := writer.WriteJSON(batchOutput, records); err != nil {
			return &pipeline.IOError{Path: batchOutput, Cause: err}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCSV, "csv", "", "CSV file with URLs in the first column (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write the extracted records to this JSON file")
	batchCmd.Flags().StringVar(&batchSchema, "schema", "", "extraction schema JSON file (defaults to the product schema)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "process at most N URLs (0 = all)")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "extract without writing to the store")
	_ = batchCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(batchCmd)
}
