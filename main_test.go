package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r381893/hot-work-form/internal/model"
	"github.com/r381893/hot-work-form/internal/store"
)

func seed(t *testing.T, dir string, recs ...model.FormRecord) {
	t.Helper()
	backend, err := store.OpenSQLite(filepath.Join(dir, "forms.db"))
	require.NoError(t, err)
	defer backend.Close()

	st := store.New(backend, "", nil)
	for _, r := range recs {
		require.NoError(t, st.Put(context.Background(), r))
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tankWeld() model.FormRecord {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	return model.FormRecord{
		ID: "tank",
		Before: model.SectionData{
			Date:     "2024-03-01",
			Company:  "Southern Plant Repair Section",
			WorkName: "Tank Weld",
			WorkTime: model.WorkTime{Start: "08:00", End: "17:00"},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir, tankWeld())

	out, err := run(t, "", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "tank\tTank Weld - 2024/03/01\n", out)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	seed(t, dir, tankWeld())

	out, err := run(t, "", "export", "tank", "--data-dir", dir, "--format", "xlsx", "--out", outDir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(outDir, "hotwork-tank-all.xlsx"), path)
	assert.FileExists(t, path)

	_, err = run(t, "", "export", "missing", "--data-dir", dir)
	assert.ErrorIs(t, err, errUnknownForm)

	_, err = run(t, "", "export", "tank", "--data-dir", dir, "--format", "gif")
	assert.Error(t, err)
}

func TestDeleteCommand(t *testing.T) {
	dir := t.TempDir()
	other := tankWeld()
	other.ID = "other"
	seed(t, dir, tankWeld(), other)

	out, err := run(t, "n\n", "delete", "tank", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")

	_, err = run(t, "", "delete", "tank", "--data-dir", dir, "--yes")
	require.NoError(t, err)

	out, err = run(t, "", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "other\tTank Weld - 2024/03/01\n", out)
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "", "config", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out)
	assert.FileExists(t, filepath.Join(dir, "config.json"))
}
