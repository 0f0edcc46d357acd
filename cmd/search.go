package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/image-cluster/internal/cluster"
	"github.com/kozaktomas/image-cluster/internal/config"
	"github.com/kozaktomas/image-cluster/internal/corpus"
	"github.com/kozaktomas/image-cluster/internal/fingerprint"
)

var searchCmd = &cobra.Command{
	Use:   "search [files...]",
	Short: "Find images similar to the given query images",
	Long: `Find images similar to one or more query images.

The candidate file paths are read from stdin, one per line. Every
candidate within the distance threshold of any query image is printed,
in input order. No clustering is performed.

Examples:
  # Search a directory for images similar to query.jpg
  find ./photos -type f | image-cluster search query.jpg

  # Multiple queries, stricter threshold
  find ./photos -type f | image-cluster search -t 1 a.jpg b.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Float64P("threshold", "t", 2.0, "Maximum hash distance for similarity (lower = stricter)")
	searchCmd.Flags().Int("workers", 0, "Number of parallel workers (default: number of CPU cores)")
	searchCmd.Flags().String("algo", "", "Hash algorithm: phash or dhash")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	threshold := mustGetFloat64(cmd, "threshold")
	if threshold < 0 {
		return fmt.Errorf("threshold must not be negative, got %g", threshold)
	}
	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = mustGetInt(cmd, "workers")
	}
	algo := cfg.Algo
	if cmd.Flags().Changed("algo") {
		algo = mustGetString(cmd, "algo")
	}

	oracle, err := fingerprint.Select(algo)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	queries := corpus.Files(args)
	queryTable, err := cluster.HashAll[uint64](ctx, queries, oracle, workers, nil)
	if err != nil {
		return err
	}
	if queryTable.Count() == 0 {
		return errors.New("none of the query images could be read")
	}

	haystack, err := corpus.Stdin(os.Stdin)
	if err != nil {
		return err
	}
	haystackTable, err := cluster.HashAll[uint64](ctx, haystack, oracle, workers, nil)
	if err != nil {
		return err
	}

	for i := range haystack.Len() {
		candidate, ok := haystackTable.At(i)
		if !ok {
			continue
		}
		for q := range queries.Len() {
			query, ok := queryTable.At(q)
			if !ok {
				continue
			}
			if oracle.Distance(candidate, query) <= threshold {
				fmt.Println(haystack.ID(i))
				break
			}
		}
	}
	return nil
}
