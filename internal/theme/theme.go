package theme

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PermitTheme is the default theme with a slightly smaller text size and,
// optionally, a custom TTF used for every text style so that non-Latin field
// values render.
type PermitTheme struct {
	font     fyne.Resource
	textSize float32
}

// New returns a theme using the TTF at fontPath, or the fyne fonts when
// fontPath is empty.
func New(fontPath string, textSize float32) (*PermitTheme, error) {
	t := &PermitTheme{textSize: textSize}
	if fontPath == "" {
		return t, nil
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	t.font = fyne.NewStaticResource(filepath.Base(fontPath), data)
	return t, nil
}

// Apply installs t on app and returns app.
func (t *PermitTheme) Apply(app fyne.App) fyne.App {
	app.Settings().SetTheme(t)
	return app
}

func (t *PermitTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(n, v)
}

func (t *PermitTheme) Font(style fyne.TextStyle) fyne.Resource {
	if t.font != nil && !style.Monospace && !style.Symbol {
		return t.font
	}
	return theme.DefaultTheme().Font(style)
}

func (t *PermitTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (t *PermitTheme) Size(n fyne.ThemeSizeName) float32 {
	switch n {
	case theme.SizeNameText:
		if t.textSize > 0 {
			return t.textSize
		}
	}
	return theme.DefaultTheme().Size(n)
}
