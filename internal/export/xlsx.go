package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX writes one spreadsheet row per document, under a header row built
// from the field labels.
type XLSX struct{}

func (XLSX) Render(_ context.Context, docs []Document) (Artifact, error) {
	if len(docs) == 0 {
		return Artifact{}, errors.New("nothing to render")
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	headers := []string{"Section"}
	for _, field := range docs[0].Fields {
		headers = append(headers, field.Label)
	}
	headers = append(headers, "Remarks", "Photos")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return Artifact{}, fmt.Errorf("failed to set header: %w", err)
		}
	}

	for row, doc := range docs {
		values := []any{doc.Title}
		for _, field := range doc.Fields {
			values = append(values, field.Value)
		}
		values = append(values, doc.Footer, len(doc.Photos))

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return Artifact{}, fmt.Errorf("failed to set cell value: %w", err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Artifact{}, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return Artifact{}, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to write workbook: %w", err)
	}
	return Artifact{
		MIMEType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:     buf.Bytes(),
	}, nil
}
