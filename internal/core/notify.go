package core

import (
	"sync"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// LogNotifier writes notifications to the logger. Errors go out at warn
// level, everything else at info.
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier creates a notifier backed by logger.
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(note schema.Notification) {
	if note.Severity == schema.SeverityError {
		n.logger.Warn("notification", "message", note.Message, "severity", string(note.Severity))
		return
	}
	n.logger.Info("notification", "message", note.Message, "severity", string(note.Severity))
}

// RecordingNotifier keeps every notification in order.
type RecordingNotifier struct {
	mu    sync.Mutex
	notes []schema.Notification
}

func (n *RecordingNotifier) Notify(note schema.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

// Notifications returns a copy of everything recorded so far.
func (n *RecordingNotifier) Notifications() []schema.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]schema.Notification, len(n.notes))
	copy(out, n.notes)
	return out
}

// Last returns the most recent notification.
func (n *RecordingNotifier) Last() (schema.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return schema.Notification{}, false
	}
	return n.notes[len(n.notes)-1], true
}

// Reset drops the recorded notifications.
func (n *RecordingNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = nil
}
