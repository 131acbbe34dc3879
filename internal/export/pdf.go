package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 15.0
	pdfPhotoMaxH  = 60.0
	pdfPhotoGap   = 5.0
	pdfFontFamily = "permit"
)

// PDF paginates documents on A4 landscape, one page per document.
type PDF struct {
	Fonts Fonts
}

func (r *PDF) Render(ctx context.Context, docs []Document) (Artifact, error) {
	if len(docs) == 0 {
		return Artifact{}, errors.New("nothing to render")
	}

	fonts := r.Fonts
	if fonts.Regular == nil {
		var err error
		if fonts, err = LoadFonts(""); err != nil {
			return Artifact{}, err
		}
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", fonts.Regular)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", fonts.Bold)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	for pageNo, doc := range docs {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}
		pdf.AddPage()

		pdf.SetTextColor(0x33, 0x33, 0x33)
		pdf.SetFont(pdfFontFamily, "B", 24)
		pdf.CellFormat(0, 14, doc.Title, "", 1, "R", false, 0, "")
		pdf.Ln(4)

		for _, f := range doc.Fields {
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont(pdfFontFamily, "B", 14)
			lw := pdf.GetStringWidth(f.Label) + 2
			pdf.CellFormat(lw, 9, f.Label, "", 0, "L", false, 0, "")
			pdf.SetTextColor(0x00, 0x66, 0xcc)
			pdf.SetFont(pdfFontFamily, "", 14)
			pdf.MultiCell(0, 9, f.Value, "", "L", false)
		}

		pdf.Ln(12)
		pdf.SetTextColor(0x33, 0x33, 0x33)
		pdf.SetFont(pdfFontFamily, "B", 12)
		pdf.MultiCell(0, 7, doc.Footer, "T", "L", false)

		if err := r.photos(pdf, pageNo, doc.Photos); err != nil {
			return Artifact{}, err
		}
	}

	if err := pdf.Error(); err != nil {
		return Artifact{}, fmt.Errorf("laying out pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, fmt.Errorf("writing pdf: %w", err)
	}
	return Artifact{MIMEType: "application/pdf", Data: buf.Bytes()}, nil
}

// photos places a row of images under the footer, moving to a new page when
// the row does not fit.
func (r *PDF) photos(pdf *fpdf.Fpdf, pageNo int, photos [][]byte) error {
	if len(photos) == 0 {
		return nil
	}

	pageW, pageH := pdf.GetPageSize()
	content := pageW - 2*pdfMargin
	cellW := (content - pdfPhotoGap*float64(len(photos)-1)) / float64(len(photos))

	y := pdf.GetY() + pdfPhotoGap
	if y+pdfPhotoMaxH > pageH-pdfMargin {
		pdf.AddPage()
		y = pdf.GetY()
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	x := pdfMargin
	for i, data := range photos {
		name := fmt.Sprintf("photo-%d-%d", pageNo, i)
		info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if info == nil || pdf.Err() {
			return fmt.Errorf("photo %d: %w", i+1, pdf.Error())
		}

		w, h := cellW, cellW*info.Height()/info.Width()
		if h > pdfPhotoMaxH {
			w, h = pdfPhotoMaxH*info.Width()/info.Height(), pdfPhotoMaxH
		}
		pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
		x += cellW + pdfPhotoGap
	}
	pdf.SetY(y + pdfPhotoMaxH)
	return nil
}
