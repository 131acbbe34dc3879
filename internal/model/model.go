// Package model holds the hot-work permit record and the pure mapping between
// records and the editable form fields.
package model

import (
	"fmt"
	"time"
)

// MaxPhotos is the number of photos a single section may carry.
const MaxPhotos = 3

type Section string

const (
	SectionBefore Section = "before"
	SectionDuring Section = "during"
	SectionAfter  Section = "after"
)

// Sections lists the three phases in form order.
var Sections = []Section{SectionBefore, SectionDuring, SectionAfter}

func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// SectionData is one phase of a permit as it is persisted.
type SectionData struct {
	Date         string   `json:"date"`
	Company      string   `json:"company"`
	WorkName     string   `json:"workName"`
	WorkLocation string   `json:"workLocation"`
	WorkTime     WorkTime `json:"workTime"`
	WorkContent  string   `json:"workContent"`
	Photos       []string `json:"photos,omitempty"`
}

// AfterData is the closing phase, which also records when work completed.
type AfterData struct {
	SectionData
	CompleteTime string `json:"completeTime"`
}

// FormRecord is one hot-work permit.
type FormRecord struct {
	ID        string      `json:"id"`
	Before    SectionData `json:"before"`
	During    SectionData `json:"during"`
	After     AfterData   `json:"after"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Section returns a pointer to the data of the given phase.
func (r *FormRecord) Section(s Section) *SectionData {
	switch s {
	case SectionBefore:
		return &r.Before
	case SectionDuring:
		return &r.During
	case SectionAfter:
		return &r.After.SectionData
	}
	return nil
}

// WorkName returns the first non-empty work name across the phases.
func (r *FormRecord) WorkName() string {
	for _, s := range Sections {
		if name := r.Section(s).WorkName; name != "" {
			return name
		}
	}
	return ""
}

// SectionFields mirrors the on-screen inputs of one phase.
type SectionFields struct {
	Date          string
	Company       string
	WorkName      string
	WorkLocation  string
	WorkTimeStart string
	WorkTimeEnd   string
	WorkContent   string
	Photos        []string
}

// Fields is the complete set of editable values of a permit.
type Fields struct {
	Before       SectionFields
	During       SectionFields
	After        SectionFields
	CompleteTime string
}

func (f *Fields) Section(s Section) *SectionFields {
	switch s {
	case SectionBefore:
		return &f.Before
	case SectionDuring:
		return &f.During
	case SectionAfter:
		return &f.After
	}
	return nil
}

// Clone returns a deep copy, so callers may hold on to photo slices.
func (f Fields) Clone() Fields {
	out := f
	for _, s := range Sections {
		sec := out.Section(s)
		if sec.Photos != nil {
			sec.Photos = append([]string(nil), sec.Photos...)
		}
	}
	return out
}
