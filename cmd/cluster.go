package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/image-cluster/internal/cluster"
	"github.com/kozaktomas/image-cluster/internal/config"
	"github.com/kozaktomas/image-cluster/internal/corpus"
	"github.com/kozaktomas/image-cluster/internal/fingerprint"
	"github.com/kozaktomas/image-cluster/internal/report"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group similar images into clusters",
	Long: `Group a collection of images into clusters of mutual visual similarity.

Every image is hashed with a perceptual hash, all pairs of hashes are
compared against the distance threshold and connected groups of similar
images are reported as clusters. Images without any similar counterpart
are unique; unreadable or non-image files are skipped entirely.

Examples:
  # Cluster all images in a directory
  image-cluster cluster --dir ./photos

  # Descend into subdirectories
  image-cluster cluster --dir ./photos --recursive

  # Read the file list from stdin
  find ./photos -name '*.jpg' | image-cluster cluster --dir -

  # Stricter similarity (lower = stricter)
  image-cluster cluster --dir ./photos --threshold 0.1

  # One cluster per line and nothing else, for piping
  image-cluster cluster --dir ./photos --one-line

  # Also list images that have no similar counterpart
  image-cluster cluster --dir ./photos --unique

  # Output as JSON
  image-cluster cluster --dir ./photos --json`,
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)

	clusterCmd.Flags().StringP("dir", "d", "", "Directory of images, or - to read paths from stdin")
	clusterCmd.Flags().BoolP("recursive", "r", false, "Load images from subdirectories too")
	clusterCmd.Flags().Float64P("threshold", "t", 0, "Maximum hash distance for similarity (lower = stricter)")
	clusterCmd.Flags().Int("workers", 0, "Number of parallel workers (default: number of CPU cores)")
	clusterCmd.Flags().String("algo", "", "Hash algorithm: phash or dhash")
	clusterCmd.Flags().BoolP("one-line", "l", false, "Print each cluster on one line and nothing else")
	clusterCmd.Flags().Bool("unique", false, "Also report images without any similar counterpart")
	clusterCmd.Flags().Bool("json", false, "Output as JSON")

	if err := clusterCmd.MarkFlagRequired("dir"); err != nil {
		panic(fmt.Sprintf("marking --dir required: %v", err))
	}
}

func runCluster(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	dir := mustGetString(cmd, "dir")
	recursive := mustGetBool(cmd, "recursive")
	oneLine := mustGetBool(cmd, "one-line")
	jsonOutput := mustGetBool(cmd, "json")
	withUnique := mustGetBool(cmd, "unique")

	// Flags override environment and embedded defaults.
	threshold := cfg.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = mustGetFloat64(cmd, "threshold")
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

	var list *corpus.List
	if dir == "-" {
		list, err = corpus.Stdin(os.Stdin)
	} else {
		list, err = corpus.Dir(dir, recursive, cfg.Extensions)
	}
	if err != nil {
		return err
	}

	quiet := oneLine || jsonOutput
	if !quiet {
		fmt.Printf("File list created, %d files.\n", list.Len())
	}

	opts := cluster.Options{Threshold: threshold, Workers: workers}
	if !quiet {
		opts.OnProgress = stageProgress(list.Len())
	}

	res, err := cluster.Run[uint64](cmd.Context(), list, oracle, opts)
	if err != nil {
		return err
	}

	rep := report.Assemble(res, list.ID)

	if jsonOutput {
		return rep.WriteJSON(os.Stdout, report.Meta{
			Threshold: threshold,
			Algo:      algo,
			Workers:   workers,
		})
	}
	if oneLine {
		return rep.WriteOneLine(os.Stdout, withUnique)
	}

	fmt.Printf("\nFound %d clusters, %d unique images (%d hashed).\n\n",
		len(rep.Clusters), len(rep.Unique), rep.Hashed)
	return rep.WriteMultiLine(os.Stdout, withUnique)
}

// stageProgress renders one progress bar per pipeline stage. The
// returned callback is invoked concurrently by the workers; bar.Add is
// safe for that, and the switch from the hashing bar to the comparison
// bar happens exactly once.
func stageProgress(total int) func(cluster.ProgressInfo) {
	hashBar := newProgressBar("Hashing images", total)
	var compareBar *progressbar.ProgressBar
	var compareOnce sync.Once

	return func(p cluster.ProgressInfo) {
		switch p.Phase {
		case cluster.PhaseHash:
			_ = hashBar.Add(1)
		case cluster.PhaseCompare:
			compareOnce.Do(func() {
				_ = hashBar.Finish()
				fmt.Println()
				compareBar = newProgressBar("Comparing hashes", p.Total)
			})
			_ = compareBar.Add(1)
		}
	}
}

func newProgressBar(description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}
