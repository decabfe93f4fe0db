// Package imagestore derives and manages the fixed-size WEBP thumbnails kept
// for every herb photo. Derivatives are content-addressed: the filename is the
// SHA-256 of the original upload, so identical photos collapse to one file
// per size class.
package imagestore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
)

// ErrNotImage is returned when the uploaded bytes do not decode as an image.
// Callers treat it as a skip, not a failure: the catalog write still goes
// through with the photo field untouched.
var ErrNotImage = errors.New("not a decodable image")

// SizeClass is one of the derivative sizes kept per photo. Max is the bounding
// box edge; resizing preserves aspect ratio and never upscales.
type SizeClass struct {
	Key string
	Max uint
}

// Sizes are the derivative classes, smallest first.
var Sizes = []SizeClass{
	{Key: "s", Max: 100},
	{Key: "m", Max: 300},
	{Key: "l", Max: 600},
}

const derivativeExt = ".webp"

type Store struct {
	root    string
	subdir  string
	quality float32
}

// New creates a Store writing derivatives under root/{size}/{subdir}/.
func New(root, subdir string) *Store {
	return &Store{root: root, subdir: subdir, quality: 80}
}

// DeriveAndStore decodes the source image, normalizes its EXIF orientation and
// writes one thumbnail per size class under the content-hash filename. It
// returns the relative photo reference ("{subdir}/{sha256hex}.webp") to store
// on the record; size selection happens at read time by prefixing a size key.
func (s *Store) DeriveAndStore(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	img = normalizeOrientation(img, data)

	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:]) + derivativeExt

	for _, sc := range Sizes {
		thumb := resize.Thumbnail(sc.Max, sc.Max, img, resize.Lanczos3)

		dir := filepath.Join(s.root, sc.Key, s.subdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create derivative dir: %w", err)
		}
		if err := writeWebp(filepath.Join(dir, name), thumb, s.quality); err != nil {
			return "", err
		}
	}

	return path.Join(s.subdir, name), nil
}

// Cleanup removes every size class derivative for a previous photo reference.
// Missing files are not an error; the delete is idempotent.
func (s *Store) Cleanup(prevRel string) error {
	if prevRel == "" {
		return nil
	}
	for _, sc := range Sizes {
		p := filepath.Join(s.root, sc.Key, filepath.FromSlash(prevRel))
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove derivative %s: %w", p, err)
		}
	}
	return nil
}

// DerivativePath returns the path of one size class derivative relative to
// the media root, e.g. "l/herbs/<hash>.webp".
func DerivativePath(rel, sizeKey string) string {
	return path.Join(sizeKey, rel)
}

func writeWebp(p string, img image.Image, quality float32) error {
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create derivative file: %w", err)
	}
	defer f.Close()

	if err := webp.Encode(f, img, &webp.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// normalizeOrientation applies the EXIF orientation tag, if any, so the
// thumbnails come out upright. Sources without EXIF pass through unchanged.
func normalizeOrientation(img image.Image, data []byte) image.Image {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return img
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
