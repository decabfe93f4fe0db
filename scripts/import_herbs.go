// Package scripts holds the startup seed importer: it loads a herb list from
// a JSON file plus a folder of photos and saves everything through the write
// service so thumbnail derivatives are generated on the way in.
package scripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"DermanlykBackend/internal/model"
	"DermanlykBackend/internal/repository/postgres"
	"DermanlykBackend/internal/service"
)

const seedFile = "herbs.json"

type seedHerb struct {
	Name          string `json:"name"`
	NameLatin     string `json:"name_latin"`
	Character     string `json:"character"`
	Usage         string `json:"usage"`
	NaturalSource string `json:"natural_source"`
	Content       string `json:"content"`
	Photo         string `json:"photo"`
}

// ImportHerbsFromDir loads dir/herbs.json and creates every herb that is not
// already in the catalog. A herb's "photo" entry names an image file inside
// dir; missing or unreadable photo files are logged and skipped, the record
// is still created.
func ImportHerbsFromDir(ctx context.Context, repo *postgres.HerbRepository, writer *service.HerbWriter, dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, seedFile))
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no seed file, skipping import", "dir", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seeds []seedHerb
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	imported := 0
	for _, seed := range seeds {
		existing, err := repo.FindNameExact(ctx, seed.Name)
		if err != nil {
			return fmt.Errorf("check existing herb %q: %w", seed.Name, err)
		}
		if len(existing) > 0 {
			continue
		}

		var photo []byte
		if seed.Photo != "" {
			photo, err = os.ReadFile(filepath.Join(dir, seed.Photo))
			if err != nil {
				slog.Warn("seed photo unreadable, importing without it",
					"herb", seed.Name, "photo", seed.Photo, "error", err)
				photo = nil
			}
		}

		h := &model.Herb{
			Name:          seed.Name,
			NameLatin:     seed.NameLatin,
			Character:     seed.Character,
			Usage:         seed.Usage,
			NaturalSource: seed.NaturalSource,
			Content:       seed.Content,
		}
		if err := writer.Create(ctx, h, photo); err != nil {
			return fmt.Errorf("import herb %q: %w", seed.Name, err)
		}
		imported++
	}

	slog.Info("seed import finished", "total", len(seeds), "imported", imported)
	return nil
}
