package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r381893/hot-work-form/internal/model"
)

func at(day int) time.Time {
	return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC)
}

func TestListOrdersByUpdatedAtDesc(t *testing.T) {
	records := map[string]model.FormRecord{
		"old":   {ID: "old", UpdatedAt: at(1)},
		"new":   {ID: "new", UpdatedAt: at(3)},
		"mid-b": {ID: "mid-b", UpdatedAt: at(2)},
		"mid-a": {ID: "mid-a", UpdatedAt: at(2)},
	}

	entries := List(records, Options{Location: time.UTC})
	require.Len(t, entries, 4)

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"new", "mid-a", "mid-b", "old"}, ids)
}

func TestLabel(t *testing.T) {
	opts := Options{Location: time.UTC}

	rec := model.FormRecord{UpdatedAt: at(1)}
	rec.Before.WorkName = "Tank Weld"
	assert.Equal(t, "Tank Weld - 2024/03/01", Label(&rec, opts))

	rec.Before.WorkName = ""
	rec.During.WorkName = "Pipe Cut"
	assert.Equal(t, "Pipe Cut - 2024/03/01", Label(&rec, opts))

	rec.During.WorkName = ""
	assert.Equal(t, "Untitled - 2024/03/01", Label(&rec, opts))

	opts.Placeholder = "(unnamed)"
	opts.DateLayout = "02.01.2006"
	assert.Equal(t, "(unnamed) - 01.03.2024", Label(&rec, opts))
}

func TestListEmpty(t *testing.T) {
	assert.Empty(t, List(nil, Options{}))
}
