// Package main is the entry point for the Movie Mania CLI: a natural
// language movie query assistant backed by Postgres, Qdrant, and an LLM.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moviemania/movie-mania-backend/internal/config"
	"github.com/moviemania/movie-mania-backend/internal/platform/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "movie-mania",
	Short:         "Natural-language movie query assistant",
	Long:          "Movie Mania answers questions about movies and actors by combining SQL over a movie database with semantic search over a plot corpus.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// bootstrap loads config and builds the logger shared by every subcommand.
func bootstrap() (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ingestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
