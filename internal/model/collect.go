package model

import "time"

const (
	dateLayoutISO = "2006-01-02"

	// DisplayDateLayout renders dates the way the permit paperwork prints them.
	DisplayDateLayout = "2006/01/02"
)

// Defaults carries the values applied to fields a record leaves empty.
type Defaults struct {
	Company string
}

// Blank returns a cleared form.
func (d Defaults) Blank() Fields {
	var f Fields
	for _, s := range Sections {
		f.Section(s).Company = d.Company
	}
	return f
}

// Populate maps a record onto form fields, filling every absent value with its
// default. It is the only place defaults are applied.
func (d Defaults) Populate(rec *FormRecord) Fields {
	if rec == nil {
		return d.Blank()
	}

	var f Fields
	for _, s := range Sections {
		src := rec.Section(s)
		dst := f.Section(s)

		dst.Date = src.Date
		dst.Company = src.Company
		if dst.Company == "" {
			dst.Company = d.Company
		}
		dst.WorkName = src.WorkName
		dst.WorkLocation = src.WorkLocation
		dst.WorkTimeStart = src.WorkTime.Start
		dst.WorkTimeEnd = src.WorkTime.End
		dst.WorkContent = src.WorkContent
		if len(src.Photos) > 0 {
			dst.Photos = append([]string(nil), src.Photos...)
		}
	}
	f.CompleteTime = rec.After.CompleteTime

	return f
}

// Collect builds the record to persist under id from the current field values.
// CreatedAt comes from the stored record when there is one.
func Collect(id string, fields Fields, stored map[string]FormRecord, now time.Time) FormRecord {
	rec := FormRecord{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if prev, ok := stored[id]; ok {
		if !prev.CreatedAt.IsZero() {
			rec.CreatedAt = prev.CreatedAt
		}
		if now.Before(prev.UpdatedAt) {
			rec.UpdatedAt = prev.UpdatedAt
		}
	}

	for _, s := range Sections {
		src := fields.Section(s)
		*rec.Section(s) = SectionData{
			Date:         src.Date,
			Company:      src.Company,
			WorkName:     src.WorkName,
			WorkLocation: src.WorkLocation,
			WorkTime:     WorkTime{Start: src.WorkTimeStart, End: src.WorkTimeEnd},
			WorkContent:  src.WorkContent,
			Photos:       append([]string(nil), src.Photos...),
		}
	}
	rec.After.CompleteTime = fields.CompleteTime

	return rec
}

// FormatDate converts a stored YYYY-MM-DD date to layout. Unset or malformed
// dates yield "".
func FormatDate(date, layout string) string {
	if date == "" {
		return ""
	}
	t, err := time.Parse(dateLayoutISO, date)
	if err != nil {
		return ""
	}
	if layout == "" {
		layout = DisplayDateLayout
	}
	return t.Format(layout)
}
