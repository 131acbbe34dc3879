package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/jpeg"
	"image/png"
	"strings"
	"unicode"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	inkText   = color.RGBA{A: 255}
	inkTitle  = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	inkValue  = color.RGBA{R: 0x00, G: 0x66, B: 0xcc, A: 255}
	inkBorder = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 255}
)

// PNG rasterizes documents into one image, pages stacked top to bottom.
type PNG struct {
	Fonts Fonts
	// Width of a page in pixels; zero means 1200.
	Width int
}

type pngFaces struct {
	title, label, value, footer font.Face
}

func (f *pngFaces) Close() {
	for _, face := range []font.Face{f.title, f.label, f.value, f.footer} {
		if face != nil {
			face.Close()
		}
	}
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

func (r *PNG) faces() (*pngFaces, error) {
	fonts := r.Fonts
	if fonts.Regular == nil {
		var err error
		if fonts, err = LoadFonts(""); err != nil {
			return nil, err
		}
	}

	fs := &pngFaces{}
	var err error
	if fs.title, err = newFace(fonts.Bold, 48); err != nil {
		return nil, err
	}
	if fs.label, err = newFace(fonts.Bold, 32); err != nil {
		fs.Close()
		return nil, err
	}
	if fs.value, err = newFace(fonts.Regular, 32); err != nil {
		fs.Close()
		return nil, err
	}
	if fs.footer, err = newFace(fonts.Bold, 28); err != nil {
		fs.Close()
		return nil, err
	}
	return fs, nil
}

func (r *PNG) Render(ctx context.Context, docs []Document) (Artifact, error) {
	if len(docs) == 0 {
		return Artifact{}, errors.New("nothing to render")
	}

	fs, err := r.faces()
	if err != nil {
		return Artifact{}, err
	}
	defer fs.Close()

	width := r.Width
	if width <= 0 {
		width = 1200
	}

	pages := make([]*image.RGBA, 0, len(docs))
	total := 0
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}
		photos, err := decodePhotos(doc.Photos)
		if err != nil {
			return Artifact{}, err
		}

		l := pageLayout{width: width, faces: fs}
		height := l.draw(nil, doc, photos)
		page := image.NewRGBA(image.Rect(0, 0, width, height))
		stddraw.Draw(page, page.Bounds(), image.White, image.Point{}, stddraw.Src)
		l.draw(page, doc, photos)

		pages = append(pages, page)
		total += height
	}

	sheet := image.NewRGBA(image.Rect(0, 0, width, total))
	y := 0
	for _, p := range pages {
		stddraw.Draw(sheet, p.Bounds().Add(image.Pt(0, y)), p, image.Point{}, stddraw.Src)
		y += p.Bounds().Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return Artifact{}, fmt.Errorf("encoding image: %w", err)
	}
	return Artifact{MIMEType: "image/png", Data: buf.Bytes()}, nil
}

func decodePhotos(raw [][]byte) ([]image.Image, error) {
	out := make([]image.Image, 0, len(raw))
	for i, data := range raw {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("photo %d: %w", i+1, err)
		}
		out = append(out, img)
	}
	return out, nil
}

type pageLayout struct {
	width int
	faces *pngFaces
}

const (
	padX        = 80
	padY        = 50
	photoGap    = 20
	photoMaxH   = 400
	lineSpacing = 2.0
)

func lineHeight(face font.Face) int {
	return int(float64(face.Metrics().Height.Ceil()) * lineSpacing)
}

// draw renders doc onto dst and returns the page height. A nil dst only
// measures.
func (l pageLayout) draw(dst *image.RGBA, doc Document, photos []image.Image) int {
	content := l.width - 2*padX
	y := padY

	// right-aligned title
	titleH := lineHeight(l.faces.title)
	tw := font.MeasureString(l.faces.title, doc.Title).Ceil()
	text(dst, l.faces.title, inkTitle, l.width-padX-tw, y+titleH*3/4, doc.Title)
	y += titleH + 40

	lh := lineHeight(l.faces.value)
	for _, f := range doc.Fields {
		lw := font.MeasureString(l.faces.label, f.Label).Ceil()
		text(dst, l.faces.label, inkText, padX, y+lh*3/4, f.Label)

		lines := wrap(l.faces.value, f.Value, content-lw)
		for i, line := range lines {
			text(dst, l.faces.value, inkValue, padX+lw, y+i*lh+lh*3/4, line)
		}
		y += max(1, len(lines))*lh + 15
	}

	y += 60
	if dst != nil {
		stddraw.Draw(dst, image.Rect(padX, y, l.width-padX, y+2), image.NewUniform(inkBorder), image.Point{}, stddraw.Src)
	}
	y += 20

	fh := int(float64(l.faces.footer.Metrics().Height.Ceil()) * 1.6)
	for _, line := range wrap(l.faces.footer, doc.Footer, content) {
		text(dst, l.faces.footer, inkTitle, padX, y+fh*3/4, line)
		y += fh
	}

	if len(photos) > 0 {
		y += 30
		cellW := (content - photoGap*(len(photos)-1)) / len(photos)
		rowH := 0
		x := padX
		for _, img := range photos {
			b := img.Bounds()
			w, h := b.Dx(), b.Dy()
			if w > cellW {
				h = h * cellW / w
				w = cellW
			}
			if h > photoMaxH {
				w = w * photoMaxH / h
				h = photoMaxH
			}
			if dst != nil {
				xdraw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), img, b, stddraw.Over, nil)
			}
			rowH = max(rowH, h)
			x += cellW + photoGap
		}
		y += rowH
	}

	return y + padY
}

func text(dst *image.RGBA, face font.Face, ink color.Color, x, baseline int, s string) {
	if dst == nil || s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(ink),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// wrap breaks s into lines no wider than width, preferring spaces and falling
// back to breaking between any two runes for unspaced scripts.
func wrap(face font.Face, s string, width int) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(face, para, width)...)
	}
	return lines
}

func wrapLine(face font.Face, s string, width int) []string {
	limit := fixed.I(width)
	var lines []string
	runes := []rune(s)

	for len(runes) > 0 {
		adv := fixed.Int26_6(0)
		cut, lastSpace := len(runes), -1
		for i, r := range runes {
			a, ok := face.GlyphAdvance(r)
			if !ok {
				a, _ = face.GlyphAdvance('?')
			}
			if adv+a > limit && i > 0 {
				cut = i
				break
			}
			adv += a
			if unicode.IsSpace(r) {
				lastSpace = i
			}
		}
		if cut < len(runes) && lastSpace > 0 {
			cut = lastSpace + 1
		}
		lines = append(lines, strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace))
		runes = runes[cut:]
		for len(runes) > 0 && unicode.IsSpace(runes[0]) {
			runes = runes[1:]
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}
