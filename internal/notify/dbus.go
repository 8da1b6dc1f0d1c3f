//go:build linux

package notify

import (
	"path/filepath"

	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = "/org/freedesktop/Notifications"
	appName   = "Airwaves"
	desktopID = "airwaves"
)

type dbusNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without one, notifications are
// silently dropped.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nopNotifier{}, nil //nolint:nilerr // headless sessions have no bus
	}
	return &dbusNotifier{obj: conn.Object(busName, busPath)}, nil
}

func (d *dbusNotifier) Notify(n Notification) (uint32, error) {
	// Notify(app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout)
	call := d.obj.Call(busName+".Notify", 0,
		appName, n.ReplacesID, n.Icon, n.Title, n.Body,
		[]string{}, hints(n), n.Timeout)
	if call.Err != nil {
		return 0, call.Err
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (d *dbusNotifier) Close(id uint32) error {
	return d.obj.Call(busName+".CloseNotification", 0, id).Err
}

// hints builds the freedesktop hint map. Absolute icon paths (cached
// station favicons) are also sent as image-path so daemons that ignore
// app_icon still show them.
func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktopID),
	}
	if n.Category != "" {
		h["category"] = dbus.MakeVariant(n.Category)
	}
	if n.Transient {
		h["transient"] = dbus.MakeVariant(true)
	}
	if filepath.IsAbs(n.Icon) {
		h["image-path"] = dbus.MakeVariant("file://" + n.Icon)
	}
	return h
}
