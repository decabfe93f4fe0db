package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"DermanlykBackend/internal/imagestore"
	"DermanlykBackend/internal/model"
)

// WriterRepository is the mutation surface the write path needs.
type WriterRepository interface {
	GetByID(ctx context.Context, id int) (*model.Herb, error)
	Insert(ctx context.Context, h *model.Herb) error
	UpdatePhoto(ctx context.Context, id int, photo string) error
	SoftDelete(ctx context.Context, id int) error
	CountActiveByPhoto(ctx context.Context, photo string, excludeID int) (int, error)
}

// HerbWriter is the explicit write path for catalog records: photo derivation
// and derivative cleanup happen here, as visible calls, rather than behind
// persistence hooks. Derivative work is best-effort and never blocks the
// catalog write itself.
type HerbWriter struct {
	repo   WriterRepository
	images *imagestore.Store
}

func NewHerbWriter(repo WriterRepository, images *imagestore.Store) *HerbWriter {
	return &HerbWriter{repo: repo, images: images}
}

// Create inserts a new herb. When photo bytes are supplied, derivatives are
// generated first and the record stores the content-hash reference. Bytes
// that do not decode as an image are skipped silently.
func (w *HerbWriter) Create(ctx context.Context, h *model.Herb, photo []byte) error {
	if len(photo) > 0 {
		rel, err := w.images.DeriveAndStore(photo)
		switch {
		case errors.Is(err, imagestore.ErrNotImage):
			slog.Warn("skipping photo: undecodable image", "herb", h.Name)
		case err != nil:
			return fmt.Errorf("derive photo for %q: %w", h.Name, err)
		default:
			h.Photo = rel
		}
	}
	return w.repo.Insert(ctx, h)
}

// UpdatePhoto replaces a herb's photo. A nil/empty photo clears the field.
// When the stored reference changes, the previous value's derivatives are
// removed unless another active record still shares them.
func (w *HerbWriter) UpdatePhoto(ctx context.Context, id int, photo []byte) error {
	old, err := w.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	next := ""
	if len(photo) > 0 {
		rel, err := w.images.DeriveAndStore(photo)
		switch {
		case errors.Is(err, imagestore.ErrNotImage):
			slog.Warn("skipping photo update: undecodable image", "id", id)
			return nil
		case err != nil:
			return fmt.Errorf("derive photo for herb %d: %w", id, err)
		}
		next = rel
	}

	if err := w.repo.UpdatePhoto(ctx, id, next); err != nil {
		return err
	}

	if old.Photo != "" && old.Photo != next {
		w.cleanup(ctx, old.Photo, id)
	}
	return nil
}

// Delete soft-deletes the herb and removes its derivatives.
func (w *HerbWriter) Delete(ctx context.Context, id int) error {
	old, err := w.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := w.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	if old.Photo != "" {
		w.cleanup(ctx, old.Photo, id)
	}
	return nil
}

// cleanup removes a superseded reference's derivatives. Content-addressed
// files can be shared across records, so the delete is skipped while another
// active record still points at the same path. Failures are logged, not
// propagated: the record mutation has already succeeded.
func (w *HerbWriter) cleanup(ctx context.Context, prev string, excludeID int) {
	n, err := w.repo.CountActiveByPhoto(ctx, prev, excludeID)
	if err != nil {
		slog.Error("derivative cleanup: reference count failed", "photo", prev, "error", err)
		return
	}
	if n > 0 {
		slog.Debug("derivative cleanup skipped: still referenced", "photo", prev, "refs", n)
		return
	}
	if err := w.images.Cleanup(prev); err != nil {
		slog.Error("derivative cleanup failed", "photo", prev, "error", err)
	}
}
