// Package index derives the listing of saved permits shown for selection.
package index

import (
	"cmp"
	"slices"
	"time"

	"github.com/r381893/hot-work-form/internal/model"
)

// Entry is one selectable permit.
type Entry struct {
	ID        string
	Label     string
	UpdatedAt time.Time
}

type Options struct {
	// Placeholder names permits without any work name.
	Placeholder string
	// DateLayout formats the update date in labels.
	DateLayout string
	// Location is the zone labels are rendered in; nil means time.Local.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Placeholder == "" {
		o.Placeholder = "Untitled"
	}
	if o.DateLayout == "" {
		o.DateLayout = model.DisplayDateLayout
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// List orders records by most recent update first.
func List(records map[string]model.FormRecord, opts Options) []Entry {
	opts = opts.withDefaults()

	entries := make([]Entry, 0, len(records))
	for id, rec := range records {
		entries = append(entries, Entry{
			ID:        id,
			Label:     Label(&rec, opts),
			UpdatedAt: rec.UpdatedAt,
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return entries
}

// Label renders "<work name> - <update date>".
func Label(rec *model.FormRecord, opts Options) string {
	opts = opts.withDefaults()

	name := rec.WorkName()
	if name == "" {
		name = opts.Placeholder
	}
	return name + " - " + rec.UpdatedAt.In(opts.Location).Format(opts.DateLayout)
}
