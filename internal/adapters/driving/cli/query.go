package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikicorpus/internal/core/domain"
)

// outToConfigured is the --out value used when the flag is given bare.
const outToConfigured = "@paths.results"

const snippetRunes = 200

var (
	queryTopK int
	queryOut  string
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Search the vector store",
	Long: `Embeds the query text and prints the closest chunks, best first.

With --out the full hits are also written to a results file: a bare --out
uses paths.results, --out=FILE writes to FILE.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{annotationNeeds: needEmbedding},
	RunE:        runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 5, "number of hits to return")
	queryCmd.Flags().StringVar(&queryOut, "out", "", "write hits to a results file")
	queryCmd.Flags().Lookup("out").NoOptDefVal = outToConfigured
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured("search")
	}

	query := strings.Join(args, " ")
	hits, err := searchService.Search(cmd.Context(), query, queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	outputHits(cmd, hits)

	if queryOut == "" {
		return nil
	}
	path, err := resultsPath(queryOut)
	if err != nil {
		return err
	}
	if err := writeResultsFile(path, query, hits); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	cmd.Printf("Results exported to %s\n", path)
	return nil
}

func outputHits(cmd *cobra.Command, hits []domain.ScoredPoint) {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		// Format: [N] Title (Score)
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, hit.Payload.Title, hit.Score)
		if s := snippet(hit.Payload.Text, snippetRunes); s != "" {
			cmd.Printf("      %s\n", s)
		}
		cmd.Println()
	}
}

// resultsPath resolves the --out flag value.
func resultsPath(out string) (string, error) {
	if out != outToConfigured {
		return out, nil
	}
	if settingsService == nil {
		return "", errNotConfigured("settings")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Paths.Results, nil
}

// writeResultsFile writes hits in the plain-text report layout.
func writeResultsFile(path, query string, hits []domain.ScoredPoint) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeResults(f, query, hits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeResults(w io.Writer, query string, hits []domain.ScoredPoint) error {
	rule := strings.Repeat("=", 50)

	if _, err := fmt.Fprintf(w, "Query: %s\n%s\n\n", query, rule); err != nil {
		return err
	}
	for i, hit := range hits {
		title := hit.Payload.Title
		if title == "" {
			title = "No Title"
		}
		_, err := fmt.Fprintf(w, "Result %d (Score: %.4f)\nTitle: %s\n%s\n%s\n\n%s\n\n",
			i+1, hit.Score, title, strings.Repeat("-", 20), hit.Payload.Text, rule)
		if err != nil {
			return err
		}
	}
	return nil
}

// snippet returns the first n runes of text on one line.
func snippet(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
