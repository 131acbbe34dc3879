package program

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/r381893/hot-work-form/internal/export"
	"github.com/r381893/hot-work-form/internal/model"
)

// sectionForm holds the input widgets of one permit section.
type sectionForm struct {
	section       model.Section
	date          *widget.Entry
	company       *widget.Entry
	workName      *widget.Entry
	workLocation  *widget.Entry
	workTimeStart *widget.Entry
	workTimeEnd   *widget.Entry
	workContent   *widget.Entry
	photos        *fyne.Container
	addPhoto      *widget.Button
}

func newSectionForm(section model.Section, onChange func()) *sectionForm {
	f := &sectionForm{
		section:       section,
		date:          widget.NewEntry(),
		company:       widget.NewEntry(),
		workName:      widget.NewEntry(),
		workLocation:  widget.NewEntry(),
		workTimeStart: widget.NewEntry(),
		workTimeEnd:   widget.NewEntry(),
		workContent:   widget.NewMultiLineEntry(),
		photos:        container.NewHBox(),
	}
	f.date.SetPlaceHolder("2006-01-02")
	f.workTimeStart.SetPlaceHolder("08:00")
	f.workTimeEnd.SetPlaceHolder("17:00")
	f.workContent.SetMinRowsVisible(4)

	for _, e := range f.entries() {
		e.OnChanged = func(string) { onChange() }
	}
	return f
}

func (f *sectionForm) entries() []*widget.Entry {
	return []*widget.Entry{f.date, f.company, f.workName, f.workLocation, f.workTimeStart, f.workTimeEnd, f.workContent}
}

// set shows v. Photos are rendered separately.
func (f *sectionForm) set(v model.SectionFields) {
	f.date.SetText(v.Date)
	f.company.SetText(v.Company)
	f.workName.SetText(v.WorkName)
	f.workLocation.SetText(v.WorkLocation)
	f.workTimeStart.SetText(v.WorkTimeStart)
	f.workTimeEnd.SetText(v.WorkTimeEnd)
	f.workContent.SetText(v.WorkContent)
}

// read copies the widget text into v, leaving v.Photos alone.
func (f *sectionForm) read(v *model.SectionFields) {
	v.Date = f.date.Text
	v.Company = f.company.Text
	v.WorkName = f.workName.Text
	v.WorkLocation = f.workLocation.Text
	v.WorkTimeStart = f.workTimeStart.Text
	v.WorkTimeEnd = f.workTimeEnd.Text
	v.WorkContent = f.workContent.Text
}

func (f *sectionForm) content(labels export.Labels, extra ...*widget.FormItem) fyne.CanvasObject {
	workTime := container.NewGridWithColumns(2, f.workTimeStart, f.workTimeEnd)
	form := widget.NewForm(
		widget.NewFormItem(labels.Date, f.date),
		widget.NewFormItem(labels.Company, f.company),
		widget.NewFormItem(labels.WorkName, f.workName),
		widget.NewFormItem(labels.WorkLocation, f.workLocation),
		widget.NewFormItem(labels.WorkTime, workTime),
		widget.NewFormItem(labels.WorkContent, f.workContent),
	)
	for _, item := range extra {
		form.AppendItem(item)
	}
	return container.NewVScroll(container.NewVBox(
		form,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, f.addPhoto, widget.NewLabel("Photos")),
		container.NewHScroll(f.photos),
	))
}
