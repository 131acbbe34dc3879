// Package editor owns the permit currently on screen: which record it is, its
// field values, and when they are written back to the store.
package editor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/r381893/hot-work-form/internal/export"
	"github.com/r381893/hot-work-form/internal/index"
	"github.com/r381893/hot-work-form/internal/model"
	"github.com/r381893/hot-work-form/internal/photo"
	"github.com/r381893/hot-work-form/internal/store"
)

// DefaultAutoSaveDelay is the quiet period after the last edit before an
// automatic save.
const DefaultAutoSaveDelay = time.Second

var (
	ErrNoCurrentRecord = errors.New("no form selected")
	ErrDeleteCancelled = errors.New("delete cancelled")
	ErrSectionFull     = photo.ErrSectionFull
	ErrExport          = errors.New("export failed")
)

// Confirmer asks the user to approve a destructive action.
type Confirmer func(prompt string) bool

// Options configures an Editor. Store is required.
type Options struct {
	Store         *store.Store
	Defaults      model.Defaults
	Clock         clockwork.Clock
	AutoSaveDelay time.Duration
	Photos        *photo.Pipeline
	Labels        export.Labels
	Fonts         export.Fonts
	Index         index.Options
	// ExportDir receives exported files; empty keeps artifacts in memory only.
	ExportDir string
	Notifier  Notifier
	Logger    *zap.Logger
	NewID     func() string
	// Renderer overrides the renderer chosen for a format.
	Renderer func(export.Format) (export.Renderer, error)
	// OnListChanged receives the refreshed index after every write.
	OnListChanged func([]index.Entry)
}

type Editor struct {
	mu        sync.Mutex
	currentID string
	fields    model.Fields

	timer   clockwork.Timer
	pending bool
	gen     uint64

	store    *store.Store
	defaults model.Defaults
	clock    clockwork.Clock
	delay    time.Duration
	photos   *photo.Pipeline
	labels   export.Labels
	fonts    export.Fonts
	indexOpt index.Options
	writer   *export.Writer
	notify   Notifier
	log      *zap.Logger
	newID    func() string
	renderer func(export.Format) (export.Renderer, error)
	onList   func([]index.Entry)
}

func New(opts Options) *Editor {
	e := &Editor{
		store:    opts.Store,
		defaults: opts.Defaults,
		clock:    opts.Clock,
		delay:    opts.AutoSaveDelay,
		photos:   opts.Photos,
		labels:   opts.Labels,
		fonts:    opts.Fonts,
		indexOpt: opts.Index,
		notify:   opts.Notifier,
		log:      opts.Logger,
		newID:    opts.NewID,
		renderer: opts.Renderer,
		onList:   opts.OnListChanged,
	}
	if e.clock == nil {
		e.clock = clockwork.NewRealClock()
	}
	if e.delay <= 0 {
		e.delay = DefaultAutoSaveDelay
	}
	if e.photos == nil {
		e.photos = photo.New()
	}
	if e.labels.Titles == nil {
		e.labels = export.DefaultLabels()
	}
	if e.notify == nil {
		e.notify = nopNotifier{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	if e.renderer == nil {
		e.renderer = func(f export.Format) (export.Renderer, error) {
			return export.NewRenderer(f, e.fonts)
		}
	}
	if opts.ExportDir != "" {
		e.writer = &export.Writer{Dir: opts.ExportDir}
	}
	e.fields = e.defaults.Blank()
	return e
}

// Start prepares an unsaved permit when the store holds none yet and
// publishes the initial listing.
func (e *Editor) Start(ctx context.Context) []index.Entry {
	records := e.store.LoadAll(ctx)

	e.mu.Lock()
	if len(records) == 0 {
		e.currentID = e.newID()
		e.fields = e.defaults.Blank()
	}
	e.mu.Unlock()

	entries := index.List(records, e.indexOpt)
	e.listChanged(entries)
	e.log.Info("editor started", zap.Int("records", len(records)))
	return entries
}

// CurrentID is the id of the permit on screen, or "" when it has none yet.
func (e *Editor) CurrentID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentID
}

// Fields returns a copy of the current values.
func (e *Editor) Fields() model.Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields.Clone()
}

// NewRecord starts a blank permit under a fresh id. Nothing is stored until
// the first save.
func (e *Editor) NewRecord() string {
	e.mu.Lock()
	flushed, err := e.flushLocked(context.Background())
	e.currentID = e.newID()
	e.fields = e.defaults.Blank()
	id := e.currentID
	e.mu.Unlock()

	e.afterFlush(flushed, err)
	e.notify.Info(msgCreated)
	return id
}

// Load shows the stored permit id. Unknown ids leave the editor untouched.
func (e *Editor) Load(ctx context.Context, id string) bool {
	e.mu.Lock()
	if _, ok := e.store.Get(ctx, id); !ok {
		e.mu.Unlock()
		e.log.Debug("load of unknown form ignored", zap.String("id", id))
		return false
	}

	flushed, err := e.flushLocked(ctx)
	// re-read, the flush may have written id itself
	rec, _ := e.store.Get(ctx, id)
	e.currentID = id
	e.fields = e.defaults.Populate(&rec)
	e.mu.Unlock()

	e.afterFlush(flushed, err)
	e.notify.Info(msgLoaded)
	return true
}

// Save writes the current values, allocating an id on first save.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	e.cancelPendingLocked()
	if e.currentID == "" {
		e.currentID = e.newID()
	}
	entries, err := e.saveLocked(ctx)
	e.mu.Unlock()

	if err != nil {
		e.log.Error("saving form failed", zap.Error(err))
		e.notify.Error(msgSaveFailed)
		return err
	}
	e.listChanged(entries)
	e.notify.Info(msgSaved)
	return nil
}

// Delete removes the current permit after confirm approves it and resets the
// editor to a blank, unsaved state.
func (e *Editor) Delete(ctx context.Context, confirm Confirmer) error {
	id := e.CurrentID()
	if id == "" {
		e.notify.Warn(msgNothingSelected)
		return ErrNoCurrentRecord
	}
	if confirm == nil || !confirm(msgConfirmDelete) {
		return ErrDeleteCancelled
	}

	e.mu.Lock()
	if e.currentID != id {
		e.mu.Unlock()
		return ErrDeleteCancelled
	}
	// a pending save would only rewrite the form being removed
	e.cancelPendingLocked()

	records := e.store.LoadAll(ctx)
	delete(records, id)
	if err := e.store.SaveAll(ctx, records); err != nil {
		e.mu.Unlock()
		e.log.Error("deleting form failed", zap.String("id", id), zap.Error(err))
		e.notify.Error(msgDeleteFailed)
		return err
	}
	e.currentID = ""
	e.fields = e.defaults.Blank()
	e.mu.Unlock()

	e.log.Info("form deleted", zap.String("id", id))
	e.listChanged(index.List(records, e.indexOpt))
	e.notify.Info(msgDeleted)
	return nil
}

// List returns the saved permits, most recently updated first.
func (e *Editor) List(ctx context.Context) []index.Entry {
	return index.List(e.store.LoadAll(ctx), e.indexOpt)
}

func (e *Editor) saveLocked(ctx context.Context) ([]index.Entry, error) {
	records := e.store.LoadAll(ctx)
	rec := model.Collect(e.currentID, e.fields, records, e.clock.Now())
	records[rec.ID] = rec
	if err := e.store.SaveAll(ctx, records); err != nil {
		return nil, err
	}
	e.log.Debug("form saved", zap.String("id", rec.ID), zap.Time("updatedAt", rec.UpdatedAt))
	return index.List(records, e.indexOpt), nil
}

// persistLocked saves immediately when the permit has an id.
func (e *Editor) persistLocked(ctx context.Context) ([]index.Entry, error) {
	if e.currentID == "" {
		return nil, nil
	}
	e.cancelPendingLocked()
	return e.saveLocked(ctx)
}

func (e *Editor) listChanged(entries []index.Entry) {
	if e.onList != nil && entries != nil {
		e.onList(entries)
	}
}

// Export renders target from the values on screen and writes the result to
// the export directory. Failures of the renderer, including panics, are
// reported and leave no file behind.
func (e *Editor) Export(ctx context.Context, target export.Target, format export.Format) (art export.Artifact, err error) {
	e.mu.Lock()
	fields := e.fields.Clone()
	id := e.currentID
	e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: renderer panicked: %v", ErrExport, r)
		}
		if err != nil {
			art = export.Artifact{}
			e.log.Error("export failed",
				zap.String("target", string(target)),
				zap.String("format", string(format)),
				zap.Error(err))
			e.notify.Error(msgExportFailed)
		}
	}()

	docs, err := export.Build(fields, target, e.labels)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("%w: %w", ErrExport, err)
	}
	r, err := e.renderer(format)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("%w: %w", ErrExport, err)
	}
	art, err = r.Render(ctx, docs)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("%w: %w", ErrExport, err)
	}
	art.Name = export.FileName(id, target, format)

	if e.writer != nil {
		path, err := e.writer.Write(art)
		if err != nil {
			return export.Artifact{}, fmt.Errorf("%w: %w", ErrExport, err)
		}
		art.Path = path
		e.notify.Info(fmt.Sprintf(msgExported, filepath.Base(path)))
	}
	return art, nil
}

// Close writes out a pending automatic save.
func (e *Editor) Close(ctx context.Context) error {
	e.mu.Lock()
	entries, err := e.flushLocked(ctx)
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.listChanged(entries)
	return nil
}

// flushLocked performs a scheduled automatic save right away. It must run
// before the editor switches to another permit.
func (e *Editor) flushLocked(ctx context.Context) ([]index.Entry, error) {
	if !e.pending {
		return nil, nil
	}
	id := e.currentID
	e.cancelPendingLocked()
	entries, err := e.saveLocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", id, err)
	}
	return entries, nil
}

func (e *Editor) afterFlush(entries []index.Entry, err error) {
	if err != nil {
		e.log.Error("auto-save before switching forms failed", zap.Error(err))
		e.notify.Error(msgSaveFailed)
		return
	}
	e.listChanged(entries)
}
