package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pagelift/scrape-cli/internal/model"
	"github.com/pagelift/scrape-cli/internal/store"
)

var recordsLimit int

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Inspect stored documents",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.List(ctx, recordsLimit)
		if err != nil {
			return eris.Wrap(err, "list documents")
		}
		total, err := st.Count(ctx)
		if err != nil {
			return eris.Wrap(err, "count documents")
		}

		for _, d := range docs {
			fmt.Printf("%s  %s  %s\n", d.ID, d.ScrapedAt.Format("2006-01-02 15:04"), d.SourceURL)
		}
		fmt.Printf("%d of %d documents\n", len(docs), total)
		return nil
	},
}

var recordsGetCmd = &cobra.Command{
	Use:   "get <id-or-url>",
	Short: "Print one stored document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		// Accept either the document ID or the original URL.
		id := args[0]
		doc, err := st.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			doc, err = st.Get(ctx, model.DocumentID(id))
		}
		if errors.Is(err, store.ErrNotFound) {
			return eris.Errorf("no document for %q", id)
		}
		if err != nil {
			return eris.Wrap(err, "get document")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	recordsListCmd.Flags().IntVar(&recordsLimit, "limit", 20, "maximum documents to list (0 = all)")
	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsGetCmd)
	rootCmd.AddCommand(recordsCmd)
}
