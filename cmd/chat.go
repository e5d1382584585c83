package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/moviemania/movie-mania-backend/internal/pipeline"
	"github.com/moviemania/movie-mania-backend/internal/platform/llm"
	"github.com/moviemania/movie-mania-backend/internal/platform/ollama"
	"github.com/moviemania/movie-mania-backend/internal/platform/qdrant"
	"github.com/moviemania/movie-mania-backend/internal/refdata"
)

const exitKeyword = "exit"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive movie question session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ai, err := llm.NewClient(log)
		if err != nil {
			return err
		}
		qdrantCfg, err := qdrant.ResolveConfigFromEnv()
		if err != nil {
			return err
		}
		vec, err := qdrant.NewVectorStore(log, qdrantCfg)
		if err != nil {
			return err
		}
		emb := ollama.NewEmbedder(log)
		lists := refdata.Load(log, cfg.Data.MoviesList, cfg.Data.ActorsList)

		session := pipeline.NewSession(ai, vec, emb, lists, log)

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Movie Mania")).
			Println("Ask questions about movies, actors, and more!\nType 'exit' to quit.")
		pterm.Println()

		scanner := bufio.NewScanner(os.Stdin)
		for {
			pterm.Print(pterm.FgGreen.Sprint("question> "))
			if !scanner.Scan() {
				break
			}
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				continue
			}
			if strings.EqualFold(query, exitKeyword) {
				pterm.Println("Thank you for using Movie Mania. Goodbye!")
				break
			}

			answer, err := session.ProcessQuery(context.Background(), query)
			if err != nil {
				pterm.Error.Println(err.Error())
				continue
			}

			pterm.Println()
			pterm.DefaultBox.WithTitle("Answer").Println(answer)
			pterm.Println()
		}
		return scanner.Err()
	},
}
