package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moviemania/movie-mania-backend/internal/db"
	"github.com/moviemania/movie-mania-backend/internal/platform/ollama"
	"github.com/moviemania/movie-mania-backend/internal/platform/qdrant"
)

const ingestConcurrency = 4

var ingestWriteLists bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Embed movie plots and index them into the vector store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		raw, err := os.ReadFile(cfg.Data.Dataset)
		if err != nil {
			return fmt.Errorf("read dataset: %w", err)
		}
		var movies []db.DatasetMovie
		if err := json.Unmarshal(raw, &movies); err != nil {
			return fmt.Errorf("parse dataset: %w", err)
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

		ctx := context.Background()
		if err := vec.EnsureCollection(ctx); err != nil {
			return err
		}

		bar, _ := pterm.DefaultProgressbar.
			WithTotal(len(movies)).
			WithTitle("indexing movies").
			Start()

		var mu sync.Mutex
		points := make([]qdrant.Point, 0, len(movies))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(ingestConcurrency)
		for _, m := range movies {
			m := m
			g.Go(func() error {
				p, err := buildPoint(gctx, emb, m)
				if err != nil {
					return fmt.Errorf("embed %q: %w", m.Title, err)
				}
				mu.Lock()
				points = append(points, p)
				bar.Increment()
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if err := vec.Upsert(ctx, points); err != nil {
			return err
		}
		pterm.Success.Printfln("indexed %d movies into %s", len(points), qdrantCfg.Collection)

		if ingestWriteLists {
			if err := writeLists(movies, cfg.Data.MoviesList, cfg.Data.ActorsList); err != nil {
				return err
			}
			pterm.Success.Printfln("wrote %s and %s", cfg.Data.MoviesList, cfg.Data.ActorsList)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestWriteLists, "write-lists", false, "also write the movie and actor reference lists used for name correction")
}

func buildPoint(ctx context.Context, emb ollama.Embedder, m db.DatasetMovie) (qdrant.Point, error) {
	vector, err := emb.Embed(ctx, strings.ToLower(m.Plot))
	if err != nil {
		return qdrant.Point{}, err
	}
	return qdrant.Point{
		ID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.ToLower(m.Title))).String(),
		Vector: ollama.Normalize(vector),
		Payload: map[string]any{
			"Title":      strings.ToLower(m.Title),
			"Genre":      lowerAll(m.Genres),
			"Year":       strings.ToLower(m.Year),
			"Actors":     lowerAll(m.Actors),
			"ImdbRating": strings.ToLower(m.ImdbRating),
			"Plot":       strings.ToLower(m.Plot),
		},
	}, nil
}

func writeLists(movies []db.DatasetMovie, moviesPath, actorsPath string) error {
	titles := make(map[string]struct{})
	actors := make(map[string]struct{})
	for _, m := range movies {
		titles[strings.ToLower(m.Title)] = struct{}{}
		for _, a := range m.Actors {
			actors[strings.ToLower(a)] = struct{}{}
		}
	}
	if err := writeJSONList(moviesPath, sortedKeys(titles)); err != nil {
		return err
	}
	return writeJSONList(actorsPath, sortedKeys(actors))
}

func writeJSONList(path string, values []string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
