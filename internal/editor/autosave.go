package editor

import (
	"context"

	"go.uber.org/zap"

	"github.com/r381893/hot-work-form/internal/model"
)

// Change applies an edit to the on-screen values. While the permit has an id,
// the edit (re)starts the auto-save countdown; a burst of edits produces one
// save once the editor has been quiet for the auto-save delay.
func (e *Editor) Change(edit func(f *model.Fields)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	edit(&e.fields)
	if e.currentID != "" {
		e.scheduleLocked()
	}
}

// AutoSavePending reports whether an automatic save is scheduled.
func (e *Editor) AutoSavePending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

func (e *Editor) scheduleLocked() {
	e.cancelPendingLocked()
	e.pending = true
	gen := e.gen
	e.timer = e.clock.AfterFunc(e.delay, func() { e.autoSave(gen) })
}

// cancelPendingLocked drops a scheduled save. The generation bump makes a
// callback that already fired find itself stale.
func (e *Editor) cancelPendingLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.pending = false
	e.gen++
}

func (e *Editor) autoSave(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || !e.pending {
		e.mu.Unlock()
		return
	}
	e.pending = false
	e.timer = nil
	id := e.currentID
	entries, err := e.saveLocked(context.Background())
	e.mu.Unlock()

	if err != nil {
		e.log.Error("auto-save failed", zap.String("id", id), zap.Error(err))
		e.notify.Error(msgSaveFailed)
		return
	}
	e.log.Debug("auto-saved", zap.String("id", id))
	e.listChanged(entries)
}
