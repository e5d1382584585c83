package db

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DatasetMovie is one record of the JSON seed dataset.
type DatasetMovie struct {
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	ImdbRating string   `json:"imdb_rating"`
	Plot       string   `json:"plot"`
	Actors     []string `json:"actors"`
	Genres     []string `json:"genres"`
	Languages  []string `json:"languages"`
}

// SeedFromFile loads a JSON array of movies and inserts them, lowercasing all
// text fields and substituting "N/A" for missing year/rating. Existing titles
// are skipped.
func (s *PostgresService) SeedFromFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read dataset: %w", err)
	}
	var records []DatasetMovie
	if err := json.Unmarshal(raw, &records); err != nil {
		return 0, fmt.Errorf("parse dataset: %w", err)
	}

	inserted := 0
	for _, rec := range records {
		title := normalizeText(rec.Title)
		if title == "" {
			continue
		}

		var existing int64
		if err := s.db.Model(&Movie{}).Where("title = ?", title).Count(&existing).Error; err != nil {
			return inserted, err
		}
		if existing > 0 {
			continue
		}

		movie := Movie{
			Title:      title,
			Year:       normalizeMissing(rec.Year, "N/A"),
			ImdbRating: normalizeMissing(rec.ImdbRating, "N/A"),
			Plot:       normalizeText(rec.Plot),
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&movie).Error; err != nil {
				return err
			}
			actors, err := findOrCreateNamed[Actor](tx, rec.Actors, func(name string) Actor { return Actor{Name: name} })
			if err != nil {
				return err
			}
			if len(actors) > 0 {
				if err := tx.Model(&movie).Association("Actors").Append(actors); err != nil {
					return err
				}
			}
			genres, err := findOrCreateNamed[Genre](tx, rec.Genres, func(name string) Genre { return Genre{Name: name} })
			if err != nil {
				return err
			}
			if len(genres) > 0 {
				if err := tx.Model(&movie).Association("Genres").Append(genres); err != nil {
					return err
				}
			}
			languages, err := findOrCreateNamed[Language](tx, rec.Languages, func(name string) Language { return Language{Name: name} })
			if err != nil {
				return err
			}
			if len(languages) > 0 {
				if err := tx.Model(&movie).Association("Languages").Append(languages); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return inserted, fmt.Errorf("seed movie %q: %w", title, err)
		}
		inserted++
	}

	s.log.Info("Dataset seeded", "path", path, "inserted", inserted, "total", len(records))
	return inserted, nil
}

func findOrCreateNamed[T any](tx *gorm.DB, names []string, build func(string) T) ([]T, error) {
	out := make([]T, 0, len(names))
	for _, raw := range names {
		name := normalizeMissing(raw, "n/a")
		if name == "" {
			continue
		}
		item := build(name)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
			return nil, err
		}
		var found T
		if err := tx.Where("name = ?", name).First(&found).Error; err != nil {
			return nil, err
		}
		out = append(out, found)
	}
	return out, nil
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeMissing(s, placeholder string) string {
	v := normalizeText(s)
	// A literal "N/A" in the dataset must come out as the placeholder, not
	// its lowercased form, so NULLIF(..., 'N/A') casts keep working.
	if v == "" || v == "n/a" {
		return placeholder
	}
	return v
}
