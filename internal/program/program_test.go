package program

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/r381893/hot-work-form/internal/export"
	"github.com/r381893/hot-work-form/internal/model"
)

func TestSectionFormRoundTrip(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	changes := 0
	form := newSectionForm(model.SectionDuring, func() { changes++ })

	in := model.SectionFields{
		Date:          "2024-03-01",
		Company:       "Southern Plant Repair Section",
		WorkName:      "Tank Weld",
		WorkLocation:  "Tank 3",
		WorkTimeStart: "08:00",
		WorkTimeEnd:   "17:00",
		WorkContent:   "Seam repair",
	}
	form.set(in)
	assert.Positive(t, changes)

	out := model.SectionFields{Photos: []string{"data:image/jpeg;base64,AA=="}}
	form.read(&out)
	in.Photos = out.Photos
	assert.Equal(t, in, out)
}

func TestFieldLabels(t *testing.T) {
	m := &MainApp{labels: export.DefaultLabels()}
	l := m.fieldLabels()
	assert.Equal(t, "Date", l.Date)
	assert.Equal(t, "Hot work content", l.WorkContent)
	assert.Equal(t, "Date: ", m.labels.Date, "labels on the app are left as they were")
}

func TestNotifier(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	n := &notifier{app: a, win: func() fyne.Window { return nil }}
	test.AssertNotificationSent(t, fyne.NewNotification("Warning", "At most 3 photos per section"), func() {
		n.Warn("At most 3 photos per section")
	})
	test.AssertNotificationSent(t, fyne.NewNotification("Hot work", "Form saved"), func() {
		n.Info("Form saved")
	})
}
