// Package program is the desktop window around the permit editor.
package program

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/r381893/hot-work-form/internal/editor"
	"github.com/r381893/hot-work-form/internal/export"
	"github.com/r381893/hot-work-form/internal/index"
	"github.com/r381893/hot-work-form/internal/model"
	"github.com/r381893/hot-work-form/internal/photo"
	"github.com/r381893/hot-work-form/internal/store"
	"github.com/r381893/hot-work-form/internal/theme"
)

const (
	appID      = "com.github.r381893.hotwork"
	windowName = "Hot Work Permit"
)

// Options configures the window. Editor is completed with the window's
// notifier and list callback.
type Options struct {
	Editor    editor.Options
	Labels    export.Labels
	StorePath string
	FontPath  string
	Logger    *zap.Logger
}

type MainApp struct {
	app    fyne.App
	win    fyne.Window
	ed     *editor.Editor
	labels export.Labels
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	storePath string
	selector  *widget.Select
	entries   []index.Entry
	forms     map[model.Section]*sectionForm
	complete  *widget.Entry
	// loading suppresses change handlers while widgets are filled from the editor
	loading bool
}

func NewMainApp(opts Options) (*MainApp, error) {
	th, err := theme.New(opts.FontPath, 13)
	if err != nil {
		return nil, err
	}

	m := &MainApp{
		app:       th.Apply(app.NewWithID(appID)),
		labels:    opts.Labels,
		log:       opts.Logger,
		storePath: opts.StorePath,
		forms:     make(map[model.Section]*sectionForm, len(model.Sections)),
	}
	if m.labels.Titles == nil {
		m.labels = export.DefaultLabels()
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	edOpts := opts.Editor
	edOpts.Labels = m.labels
	edOpts.Notifier = &notifier{app: m.app, win: func() fyne.Window { return m.win }}
	edOpts.OnListChanged = func(entries []index.Entry) {
		fyne.Do(func() { m.setEntries(entries) })
	}
	m.ed = editor.New(edOpts)

	m.buildWindow()
	return m, nil
}

func (m *MainApp) buildWindow() {
	m.win = m.app.NewWindow(windowName)
	m.win.SetMainMenu(m.buildMainMenu())

	m.selector = widget.NewSelect(nil, func(string) {
		if m.loading {
			return
		}
		i := m.selector.SelectedIndex()
		if i < 0 || i >= len(m.entries) {
			return
		}
		if m.ed.Load(m.ctx, m.entries[i].ID) {
			m.showFields()
		}
	})
	m.selector.PlaceHolder = "Saved forms"

	newBtn := widget.NewButton("New", func() {
		m.ed.NewRecord()
		m.showFields()
		m.selectCurrent()
	})
	saveBtn := widget.NewButton("Save", func() {
		if err := m.ed.Save(m.ctx); err == nil {
			m.selectCurrent()
		}
	})
	deleteBtn := widget.NewButton("Delete", m.deleteCurrent)

	toolbar := container.NewBorder(nil, nil, nil,
		container.New(layout.NewGridLayoutWithColumns(3), newBtn, saveBtn, deleteBtn),
		m.selector,
	)

	m.complete = widget.NewEntry()
	m.complete.SetPlaceHolder("16:30")
	m.complete.OnChanged = func(string) { m.changed() }

	tabs := container.NewAppTabs()
	for _, s := range model.Sections {
		s := s
		form := newSectionForm(s, m.changed)
		form.addPhoto = widget.NewButton("Add photo", func() { m.pickPhoto(s) })
		m.forms[s] = form

		var extra []*widget.FormItem
		if s == model.SectionAfter {
			extra = append(extra, widget.NewFormItem("Complete time", m.complete))
		}
		tabs.Append(container.NewTabItem(m.labels.Titles[s], form.content(m.fieldLabels(), extra...)))
	}

	m.win.SetContent(container.NewBorder(toolbar, nil, nil, nil, tabs))
}

func (m *MainApp) fieldLabels() export.Labels {
	l := m.labels
	for _, p := range []*string{&l.Date, &l.Company, &l.WorkName, &l.WorkLocation, &l.WorkTime, &l.WorkContent} {
		*p = strings.TrimSuffix(strings.TrimSpace(*p), ":")
	}
	return l
}

func (m *MainApp) buildMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New form", func() {
			m.ed.NewRecord()
			m.showFields()
			m.selectCurrent()
		}),
		fyne.NewMenuItem("Save", func() { _ = m.ed.Save(m.ctx) }),
	)

	var items []*fyne.MenuItem
	targets := append([]export.Target{export.TargetAll}, sectionTargets()...)
	for _, f := range []export.Format{export.FormatPNG, export.FormatPDF, export.FormatXLSX} {
		for _, t := range targets {
			t, f := t, f
			name := fmt.Sprintf("%s: %s", strings.ToUpper(string(f)), m.targetName(t))
			items = append(items, fyne.NewMenuItem(name, func() { m.export(t, f) }))
		}
		items = append(items, fyne.NewMenuItemSeparator())
	}
	exportMenu := fyne.NewMenu("Export", items[:len(items)-1]...)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About", "Hot work permit form\nForms are saved automatically while you type.", m.win)
		}),
	)

	return fyne.NewMainMenu(fileMenu, exportMenu, helpMenu)
}

func sectionTargets() []export.Target {
	out := make([]export.Target, 0, len(model.Sections))
	for _, s := range model.Sections {
		out = append(out, export.Target(s))
	}
	return out
}

func (m *MainApp) targetName(t export.Target) string {
	if t == export.TargetAll {
		return "All sections"
	}
	return m.labels.Titles[model.Section(t)]
}

func (m *MainApp) export(t export.Target, f export.Format) {
	go func() {
		art, err := m.ed.Export(m.ctx, t, f)
		if err != nil {
			return
		}
		m.log.Info("exported", zap.String("path", art.Path), zap.Int("bytes", len(art.Data)))
	}()
}

func (m *MainApp) changed() {
	if m.loading {
		return
	}
	m.ed.Change(func(f *model.Fields) {
		for s, form := range m.forms {
			form.read(f.Section(s))
		}
		f.CompleteTime = m.complete.Text
	})
}

func (m *MainApp) deleteCurrent() {
	if m.ed.CurrentID() == "" {
		// reports that nothing is selected
		_ = m.ed.Delete(m.ctx, nil)
		return
	}
	dialog.ShowConfirm("Delete", "Delete this form?", func(ok bool) {
		if !ok {
			return
		}
		if err := m.ed.Delete(m.ctx, func(string) bool { return true }); err == nil {
			m.showFields()
		}
	}, m.win)
}

func (m *MainApp) pickPhoto(s model.Section) {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, m.win)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()

		data, err := io.ReadAll(r)
		if err != nil {
			dialog.ShowError(fmt.Errorf("read %s: %w", r.URI().Name(), err), m.win)
			return
		}
		go func() {
			if _, err := m.ed.AddPhotos(m.ctx, s, [][]byte{data}); err != nil {
				m.log.Debug("photo not added", zap.Error(err))
			}
			fyne.Do(func() { m.showPhotos(s) })
		}()
	}, m.win)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".webp", ".gif"}))
	open.Show()
}

// showFields copies the editor's values into the widgets.
func (m *MainApp) showFields() {
	fields := m.ed.Fields()

	m.loading = true
	for s, form := range m.forms {
		form.set(*fields.Section(s))
	}
	m.complete.SetText(fields.CompleteTime)
	m.loading = false

	for _, s := range model.Sections {
		m.showPhotos(s)
	}
}

func (m *MainApp) showPhotos(s model.Section) {
	form := m.forms[s]
	fields := m.ed.Fields()

	form.photos.RemoveAll()
	for i, p := range fields.Section(s).Photos {
		raw, err := photo.Decode(p)
		if err != nil {
			m.log.Warn("stored photo unreadable", zap.String("section", string(s)), zap.Int("index", i), zap.Error(err))
			continue
		}
		img := canvas.NewImageFromReader(bytes.NewReader(raw), fmt.Sprintf("%s-%d.jpg", s, i))
		img.FillMode = canvas.ImageFillContain
		img.SetMinSize(fyne.NewSize(160, 120))

		remove := widget.NewButton("Remove", func() {
			if err := m.ed.RemovePhoto(m.ctx, s, i); err != nil {
				m.log.Warn("remove photo", zap.Error(err))
			}
			m.showPhotos(s)
		})
		form.photos.Add(container.NewBorder(nil, remove, nil, nil, img))
	}
	form.photos.Refresh()
}

func (m *MainApp) setEntries(entries []index.Entry) {
	m.entries = entries
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}

	m.loading = true
	m.selector.SetOptions(labels)
	m.loading = false
	m.selectCurrent()
}

func (m *MainApp) selectCurrent() {
	id := m.ed.CurrentID()

	m.loading = true
	defer func() { m.loading = false }()
	for i, e := range m.entries {
		if e.ID == id {
			m.selector.SetSelectedIndex(i)
			return
		}
	}
	m.selector.ClearSelected()
}

// watch refreshes the list when another process, such as the command line,
// writes the store.
func (m *MainApp) watch() {
	if m.storePath == "" {
		return
	}
	err := store.Watch(m.ctx, m.storePath, m.log, func() {
		entries := m.ed.List(m.ctx)
		fyne.Do(func() { m.setEntries(entries) })
	})
	if err != nil {
		m.log.Warn("store watcher stopped", zap.Error(err))
	}
}

func (m *MainApp) RunApp() {
	m.ed.Start(m.ctx)
	m.showFields()
	go m.watch()

	m.win.Resize(fyne.NewSize(900, 700))
	m.win.CenterOnScreen()
	m.win.ShowAndRun()

	m.cancel()
	if err := m.ed.Close(context.Background()); err != nil {
		m.log.Error("final save failed", zap.Error(err))
	}
}

// notifier routes editor messages to desktop notifications; errors also open
// a dialog on the window.
type notifier struct {
	app fyne.App
	win func() fyne.Window
}

func (n *notifier) Info(msg string) {
	n.app.SendNotification(fyne.NewNotification("Hot work", msg))
}

func (n *notifier) Warn(msg string) {
	n.app.SendNotification(fyne.NewNotification("Warning", msg))
}

func (n *notifier) Error(msg string) {
	n.app.SendNotification(fyne.NewNotification("Error", msg))
	fyne.Do(func() {
		if w := n.win(); w != nil {
			dialog.ShowInformation("Error", msg, w)
		}
	})
}
