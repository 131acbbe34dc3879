package editor

import "go.uber.org/zap"

const (
	msgCreated         = "New form created"
	msgLoaded          = "Form loaded"
	msgSaved           = "Form saved"
	msgSaveFailed      = "Saving the form failed"
	msgDeleted         = "Form deleted"
	msgDeleteFailed    = "Deleting the form failed"
	msgNothingSelected = "No form selected"
	msgConfirmDelete   = "Delete this form?"
	msgPhotoLimit      = "At most %d photos per section"
	msgPhotoFailed     = "The photo could not be processed"
	msgExported        = "Exported %s"
	msgExportFailed    = "Export failed, please try again"
)

// Notifier shows short-lived messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Warn(string)  {}
func (nopNotifier) Error(string) {}

// LogNotifier reports messages through a logger, for headless use.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Info(msg string)  { n.Log.Info(msg) }
func (n LogNotifier) Warn(msg string)  { n.Log.Warn(msg) }
func (n LogNotifier) Error(msg string) { n.Log.Error(msg) }
