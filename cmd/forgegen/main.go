// Package main is the entry point for the forgegen CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deepforge-server/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "forgegen",
	Short: "DeepForge level generator",
	Long:  `forgegen builds dungeon levels offline: generate by seed, dump ASCII previews and store level files locally or in Redis.`,
}

func main() {
	logger.Init()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(levelsCmd)
}
