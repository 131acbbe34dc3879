package theme

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	fynetheme "fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFonts(t *testing.T) {
	th, err := New("", 12)
	require.NoError(t, err)

	assert.Equal(t, float32(12), th.Size(fynetheme.SizeNameText))
	assert.Equal(t, fynetheme.DefaultTheme().Size(fynetheme.SizeNamePadding), th.Size(fynetheme.SizeNamePadding))
	assert.Equal(t, fynetheme.DefaultTheme().Font(fyne.TextStyle{}), th.Font(fyne.TextStyle{}))
}

func TestCustomFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permit.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not really a font"), 0o644))

	th, err := New(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "permit.ttf", th.Font(fyne.TextStyle{Bold: true}).Name())
	assert.NotEqual(t, "permit.ttf", th.Font(fyne.TextStyle{Monospace: true}).Name())
	assert.Equal(t, fynetheme.DefaultTheme().Size(fynetheme.SizeNameText), th.Size(fynetheme.SizeNameText))

	_, err = New(filepath.Join(t.TempDir(), "missing.ttf"), 0)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	th, err := New("", 11)
	require.NoError(t, err)
	th.Apply(app)
	assert.Same(t, th, app.Settings().Theme())
}
