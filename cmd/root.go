package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "image-cluster",
	Short: "Find groups of visually similar images",
	Long: `Image Cluster is a CLI tool that groups large collections of images by
visual similarity. It computes perceptual hashes in parallel, compares
all pairs against a distance threshold and reports the connected
groups of similar images.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
