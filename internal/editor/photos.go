package editor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/r381893/hot-work-form/internal/index"
	"github.com/r381893/hot-work-form/internal/model"
	"github.com/r381893/hot-work-form/internal/photo"
)

// AddPhotos attaches as many files to section as it has room for and returns
// how many were added. Files that did not fit are reported to the user.
// A permit with an id is saved right away.
func (e *Editor) AddPhotos(ctx context.Context, section model.Section, files [][]byte) (int, error) {
	e.mu.Lock()
	sec := e.fields.Section(section)
	if sec == nil {
		e.mu.Unlock()
		return 0, fmt.Errorf("unknown section %q", section)
	}
	current := append([]string(nil), sec.Photos...)
	e.mu.Unlock()

	limit := e.photos.MaxPhotos
	if limit <= 0 {
		limit = model.MaxPhotos
	}

	photos, dropped, err := e.photos.Add(ctx, current, files)
	if errors.Is(err, photo.ErrSectionFull) {
		e.notify.Warn(fmt.Sprintf(msgPhotoLimit, limit))
		return 0, err
	}
	if err != nil {
		e.log.Warn("photo processing failed", zap.String("section", string(section)), zap.Error(err))
		e.notify.Error(msgPhotoFailed)
		return 0, err
	}
	if dropped > 0 {
		e.notify.Warn(fmt.Sprintf(msgPhotoLimit, limit))
	}

	added := photos[len(current):]

	e.mu.Lock()
	sec = e.fields.Section(section)
	// the list may have changed while decoding
	if room := limit - len(sec.Photos); len(added) > room {
		added = added[:max(0, room)]
	}
	sec.Photos = append(sec.Photos, added...)
	entries, err := e.persistLocked(ctx)
	e.mu.Unlock()

	if err != nil {
		e.log.Error("saving photos failed", zap.Error(err))
		e.notify.Error(msgSaveFailed)
		return len(added), err
	}
	e.listChanged(entries)
	return len(added), nil
}

// RemovePhoto drops the photo at position pos from section.
func (e *Editor) RemovePhoto(ctx context.Context, section model.Section, pos int) error {
	e.mu.Lock()
	sec := e.fields.Section(section)
	if sec == nil {
		e.mu.Unlock()
		return fmt.Errorf("unknown section %q", section)
	}
	photos, err := photo.Remove(sec.Photos, pos)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	sec.Photos = photos

	var entries []index.Entry
	entries, err = e.persistLocked(ctx)
	e.mu.Unlock()

	if err != nil {
		e.log.Error("saving photos failed", zap.Error(err))
		e.notify.Error(msgSaveFailed)
		return err
	}
	e.listChanged(entries)
	return nil
}
