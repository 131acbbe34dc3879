// Package export lays out permit sections as documents and renders them into
// shareable artifacts.
package export

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/r381893/hot-work-form/internal/model"
	"github.com/r381893/hot-work-form/internal/photo"
)

// Target selects one section or the whole permit.
type Target string

const TargetAll Target = "all"

func ParseTarget(s string) (Target, error) {
	if s == string(TargetAll) {
		return TargetAll, nil
	}
	sec, err := model.ParseSection(s)
	if err != nil {
		return "", err
	}
	return Target(sec), nil
}

func (t Target) sections() []model.Section {
	if t == TargetAll {
		return model.Sections
	}
	return []model.Section{model.Section(t)}
}

type Format string

const (
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPNG, FormatPDF, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Field is one labelled value line.
type Field struct {
	Label string
	Value string
}

// Document is the fully resolved content of one exported page.
type Document struct {
	Section model.Section
	Title   string
	Fields  []Field
	Footer  string
	// Photos holds raw JPEG bytes.
	Photos [][]byte
}

// Artifact is a rendered file ready to save or share.
type Artifact struct {
	Name     string
	MIMEType string
	Data     []byte
	// Path is set once the artifact has been written to disk.
	Path string
}

// Renderer turns documents into an artifact.
type Renderer interface {
	Render(ctx context.Context, docs []Document) (Artifact, error)
}

// Fonts are TrueType sources for the image and PDF renderers.
type Fonts struct {
	Regular []byte
	Bold    []byte
}

// LoadFonts reads a TrueType font for both weights. An empty path selects the
// bundled Go fonts, which cover Latin, Greek and Cyrillic only.
func LoadFonts(path string) (Fonts, error) {
	if path == "" {
		return Fonts{Regular: goregular.TTF, Bold: gobold.TTF}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fonts{}, fmt.Errorf("reading font: %w", err)
	}
	return Fonts{Regular: data, Bold: data}, nil
}

func NewRenderer(f Format, fonts Fonts) (Renderer, error) {
	switch f {
	case FormatPNG:
		return &PNG{Fonts: fonts}, nil
	case FormatPDF:
		return &PDF{Fonts: fonts}, nil
	case FormatXLSX:
		return &XLSX{}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// FileName is the artifact name for a target of permit id in a format. Each
// permit gets its own name; a permit without an id yet uses the bare target.
func FileName(id string, t Target, f Format) string {
	if id == "" {
		return fmt.Sprintf("hotwork-%s.%s", t, f)
	}
	return fmt.Sprintf("hotwork-%s-%s.%s", id, t, f)
}

// Labels holds every piece of fixed text printed on a permit.
type Labels struct {
	Titles        map[model.Section]string
	Footers       map[model.Section]string
	Date          string
	Company       string
	WorkName      string
	WorkLocation  string
	WorkTime      string
	WorkContent   string
	BlankDate     string
	BlankComplete string
	DateLayout    string
}

// CompleteTimeMarker in a footer is replaced by the completion time.
const CompleteTimeMarker = "{completeTime}"

// DefaultLabels are the English permit texts.
func DefaultLabels() Labels {
	return Labels{
		Titles: map[model.Section]string{
			model.SectionBefore: "Hot Work (Before)",
			model.SectionDuring: "Hot Work (During)",
			model.SectionAfter:  "Hot Work (After)",
		},
		Footers: map[model.Section]string{
			model.SectionBefore: "Before hot work: gas readings normal, fire blanket and extinguishers in place. See attached photos.",
			model.SectionDuring: "During hot work: approved permit attached, welding in progress with continuous gas monitoring, fire blanket laid, no falling sparks. See attached photos.",
			model.SectionAfter:  "After hot work: work completed at {completeTime}, area cleaned with no remaining embers, pre-closing fire prevention inspection filed. See attached photos.",
		},
		Date:          "Date: ",
		Company:       "Company: ",
		WorkName:      "Work name: ",
		WorkLocation:  "Work location: ",
		WorkTime:      "Work time: ",
		WorkContent:   "Hot work content: ",
		BlankDate:     "________________",
		BlankComplete: "_________",
		DateLayout:    model.DisplayDateLayout,
	}
}

// Build lays out the sections selected by t from the current field values.
func Build(fields model.Fields, t Target, labels Labels) ([]Document, error) {
	docs := make([]Document, 0, 3)
	for _, s := range t.sections() {
		sec := fields.Section(s)
		if sec == nil {
			return nil, fmt.Errorf("unknown section %q", s)
		}

		date := model.FormatDate(sec.Date, labels.DateLayout)
		if date == "" {
			date = labels.BlankDate
		}

		complete := fields.CompleteTime
		if complete == "" {
			complete = labels.BlankComplete
		}
		footer := strings.ReplaceAll(labels.Footers[s], CompleteTimeMarker, complete)

		doc := Document{
			Section: s,
			Title:   labels.Titles[s],
			Fields: []Field{
				{Label: labels.Date, Value: date},
				{Label: labels.Company, Value: sec.Company},
				{Label: labels.WorkName, Value: sec.WorkName},
				{Label: labels.WorkLocation, Value: sec.WorkLocation},
				{Label: labels.WorkTime, Value: model.JoinWorkTime(sec.WorkTimeStart, sec.WorkTimeEnd)},
				{Label: labels.WorkContent, Value: sec.WorkContent},
			},
			Footer: footer,
		}
		for i, p := range sec.Photos {
			raw, err := photo.Decode(p)
			if err != nil {
				return nil, fmt.Errorf("%s photo %d: %w", s, i+1, err)
			}
			doc.Photos = append(doc.Photos, raw)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
