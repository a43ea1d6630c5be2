package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelift/scrape-cli/internal/pipeline"
	"github.com/pagelift/scrape-cli/internal/writer"
)

var (
	runURL    string
	runOutput string
	runSchema string
	runNoDB   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape and extract a single URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		schema, err := loadSchema(runSchema)
		if err != nil {
			return eris.Wrap(err, "load schema")
		}

		scraper, err := newScraper()
		if err != nil {
			return err
		}
		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		p := pipeline.New(scraper, extractor, nil, schema)
		if !runNoDB {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			p = pipeline.New(scraper, extractor, st, schema)
		}

		doc, err := p.ProcessURL(ctx, runURL)
		if err != nil {
			return eris.Wrap(err, "process url")
		}

		if err := writer.WriteJSON(runOutput, doc.Record); err != nil {
			return &pipeline.IOError{Path: runOutput, Cause: err}
		}

		zap.L().Info("scrape complete",
			zap.String("url", runURL),
			zap.String("doc_id", doc.ID),
			zap.Int("fields", len(doc.Record)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	runCmd.Flags().StringVar(&runURL, "url", "", "page URL to scrape (required)")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write the extracted record to this JSON file")
	runCmd.Flags().StringVar(&runSchema, "schema", "", "extraction schema JSON file (defaults to the product schema)")
	runCmd.Flags().BoolVar(&runNoDB, "no-db", false, "skip the document store")
	_ = runCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(runCmd)
}
