package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NasuPanda/mnemos-web/internal/cache"
	"github.com/NasuPanda/mnemos-web/internal/datastore"
	"github.com/NasuPanda/mnemos-web/internal/storage"
)

var (
	jsonFlag  bool
	forceFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Resolve the document the server would load and summarize it",
	Long: `Walks the same chain as server startup: backing store first, then the local
backup, then a fresh default document. Prints where the document came from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStores()
		if err != nil {
			return err
		}
		defer s.Close()

		store := datastore.New(datastore.Options{
			Remote:   s.remote,
			Key:      s.cfg.DocumentKey,
			Local:    s.local,
			LocalKey: s.localKey,
		})
		doc, src := store.Resolve(cmd.Context())

		out := cmd.OutOrStdout()
		if jsonFlag {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		}

		active, archived := cache.Partition(doc.Items)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "source\t%s\n", src)
		fmt.Fprintf(w, "last updated\t%s\n", doc.LastUpdated.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "items\t%d active, %d archived\n", len(active), len(archived))
		fmt.Fprintf(w, "settings\tconfident=%d medium=%d wtf=%d\n", doc.Settings.ConfidentDays, doc.Settings.MediumDays, doc.Settings.WTFDays)
		for _, c := range doc.Categories {
			fmt.Fprintf(w, "category\t%s (%d items)\n", c, doc.CountSection(c))
		}
		return w.Flush()
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Copy the local backup to the backing store",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStores()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := copyDocument(cmd, s.local, s.localKey, s.remote, s.cfg.DocumentKey)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pushed %d items to %s\n", n, s.remote.Name())
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Overwrite the local backup with the backing store's document",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStores()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := copyDocument(cmd, s.remote, s.cfg.DocumentKey, s.local, s.localKey)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pulled %d items into %s\n", n, s.local.Name())
		return nil
	},
}

// copyDocument moves a document between backends after checking it decodes.
func copyDocument(cmd *cobra.Command, from storage.Backend, fromKey string, to storage.Backend, toKey string) (int, error) {
	ctx := cmd.Context()

	if !from.Probe(ctx) {
		return 0, fmt.Errorf("%s is unavailable", from.Name())
	}
	data, ok := from.Get(ctx, fromKey)
	if !ok {
		return 0, fmt.Errorf("no document %q in %s", fromKey, from.Name())
	}
	doc, err := datastore.Decode(data)
	if err != nil {
		return 0, err
	}
	if len(doc.Items) == 0 && !forceFlag {
		return 0, errors.New("source document has no items; pass --force to copy it anyway")
	}

	encoded, err := datastore.Encode(doc)
	if err != nil {
		return 0, err
	}
	if !to.Put(ctx, toKey, encoded) {
		return 0, fmt.Errorf("failed to write to %s", to.Name())
	}
	return len(doc.Items), nil
}

func initDocumentCmds() {
	showCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the full document as JSON")
	pushCmd.Flags().BoolVar(&forceFlag, "force", false, "Copy even when the document is empty")
	pullCmd.Flags().BoolVar(&forceFlag, "force", false, "Copy even when the document is empty")
}
