package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "photo-analyzer",
	Short: "Pose-based body measurements from progress photos",
	Long: `Photo Analyzer runs a pose-estimation model over progress photos and
derives uncalibrated pixel measurements between body landmarks: shoulder and
hip width, limb and torso lengths, and left/right symmetry ratios.

It runs as an HTTP API (serve) or directly on local files (analyze).`,
	SilenceUsage: true,
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
