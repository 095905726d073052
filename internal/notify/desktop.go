package notify

import (
	"github.com/gen2brain/beeep"
)

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

// BeeepNotifier shows native desktop notifications through beeep on Linux,
// macOS and Windows. Critical notifications are raised as alerts, which
// also sound a beep.
type BeeepNotifier struct {
	notify func(title, message string, icon any) error
	alert  func(title, message string, icon any) error
}

func NewBeeepNotifier(appName string) *BeeepNotifier {
	if appName != "" {
		beeep.AppName = appName
	}
	return &BeeepNotifier{notify: beeep.Notify, alert: beeep.Alert}
}

func (b *BeeepNotifier) Send(n Notification) error {
	if n.Type == LevelCritical {
		return b.alert(n.Title, n.Message, "")
	}
	return b.notify(n.Title, n.Message, "")
}
