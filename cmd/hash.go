package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/image-cluster/internal/fingerprint"
)

var hashCmd = &cobra.Command{
	Use:   "hash [files...]",
	Short: "Print perceptual hashes for image files",
	Long: `Compute and print the pHash and dHash of each image file.

Useful for inspecting why two images do or do not end up in the same
cluster. Unreadable files are reported on stderr and skipped.

Examples:
  # Print hashes as a table
  image-cluster hash a.jpg b.jpg

  # Output as JSON
  image-cluster hash --json a.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)

	hashCmd.Flags().Bool("json", false, "Output as JSON")
}

// fileHashes is one row of hash output.
type fileHashes struct {
	File  string `json:"file"`
	PHash string `json:"phash"`
	DHash string `json:"dhash"`
}

func runHash(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")

	var rows []fileHashes
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		pHash, err := fingerprint.PHash{}.Compute(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		dHash, err := fingerprint.DHash{}.Compute(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
			continue
		}
		rows = append(rows, fileHashes{
			File:  path,
			PHash: fingerprint.Format(pHash),
			DHash: fingerprint.Format(dHash),
		})
	}

	if jsonOutput {
		if err := json.NewEncoder(os.Stdout).Encode(rows); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tPHASH\tDHASH")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", row.File, row.PHash, row.DHash)
	}
	return w.Flush()
}
