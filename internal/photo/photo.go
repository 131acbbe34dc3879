// Package photo downsizes user-selected pictures and keeps them inline as
// data URLs inside a section's photo list.
package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/r381893/hot-work-form/internal/model"
)

const (
	DefaultMaxDimension = 1200
	DefaultQuality      = 85
	// DefaultMaxPixels bounds the decoded size of an input picture (about a
	// 48 megapixel camera).
	DefaultMaxPixels = 50_000_000

	dataURLPrefix = "data:image/jpeg;base64,"
)

var (
	ErrSectionFull = errors.New("section already holds the maximum number of photos")
	ErrIndex       = errors.New("photo index out of range")
	ErrTooLarge    = errors.New("photo dimensions too large")
)

// Pipeline re-encodes photos so neither side exceeds MaxDimension.
type Pipeline struct {
	MaxDimension int
	Quality      int
	MaxPhotos    int
	// MaxPixels rejects inputs whose header announces more pixels; zero
	// means DefaultMaxPixels.
	MaxPixels int
	// Workers bounds concurrent decodes; zero means one per accepted file.
	Workers int
}

func New() *Pipeline {
	return &Pipeline{
		MaxDimension: DefaultMaxDimension,
		Quality:      DefaultQuality,
		MaxPhotos:    model.MaxPhotos,
	}
}

func (p *Pipeline) maxPhotos() int {
	if p.MaxPhotos <= 0 {
		return model.MaxPhotos
	}
	return p.MaxPhotos
}

// Add appends as many of files to current as there are free slots. The
// returned dropped count tells the caller how many files did not fit. If any
// accepted file cannot be decoded, nothing is added.
func (p *Pipeline) Add(ctx context.Context, current []string, files [][]byte) (photos []string, dropped int, err error) {
	free := p.maxPhotos() - len(current)
	if free <= 0 {
		return current, len(files), ErrSectionFull
	}

	accepted := files
	if len(accepted) > free {
		accepted = accepted[:free]
		dropped = len(files) - free
	}

	encoded := make([]string, len(accepted))
	g, gctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}
	for i, data := range accepted {
		i, data := i, data
		g.Go(func() error {
			out, err := p.Encode(gctx, data)
			if err != nil {
				return fmt.Errorf("photo %d: %w", i+1, err)
			}
			encoded[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return current, dropped, err
	}

	photos = make([]string, 0, len(current)+len(encoded))
	photos = append(photos, current...)
	photos = append(photos, encoded...)
	return photos, dropped, nil
}

// Remove drops the photo at index; later photos shift down.
func Remove(current []string, index int) ([]string, error) {
	if index < 0 || index >= len(current) {
		return current, ErrIndex
	}
	out := make([]string, 0, len(current)-1)
	out = append(out, current[:index]...)
	return append(out, current[index+1:]...), nil
}

// Encode decodes raw image bytes, downsizes them and returns a JPEG data URL.
func (p *Pipeline) Encode(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty image")
	}

	maxPixels := p.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	src, err := decode(data, maxPixels)
	if err != nil {
		return "", err
	}

	b := src.Bounds()
	w, h := Fit(b.Dx(), b.Dy(), p.MaxDimension)

	// JPEG has no alpha; flatten onto white like a canvas export does.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	stddraw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, stddraw.Src)
	if w == b.Dx() && h == b.Dy() {
		stddraw.Draw(dst, dst.Bounds(), src, b.Min, stddraw.Over)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, stddraw.Over, nil)
	}

	quality := p.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encoding photo: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Fit scales w×h down so neither side exceeds bound, keeping the aspect ratio.
// Images already within bounds are returned unchanged.
func Fit(w, h, bound int) (int, int) {
	if bound <= 0 || (w <= bound && h <= bound) {
		return w, h
	}
	if w >= h {
		return bound, max(1, h*bound/w)
	}
	return max(1, w*bound/h), bound
}

// Decode returns the raw bytes of a stored data URL.
func Decode(dataURL string) ([]byte, error) {
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok || !strings.HasPrefix(dataURL, "data:") {
		return nil, errors.New("not a base64 data URL")
	}
	return base64.StdEncoding.DecodeString(payload)
}

// decode checks the announced size before allocating any pixels.
func decode(raw []byte, maxPixels int) (image.Image, error) {
	cfg, _, cfgErr := image.DecodeConfig(bytes.NewReader(raw))
	if cfgErr != nil {
		cfg, cfgErr = webp.DecodeConfig(bytes.NewReader(raw))
	}
	if cfgErr == nil {
		if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
			return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("unable to decode image: %w", err)
}
