//
// jnotify/internal/driver :: driver.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package driver sends the jnotify example notification.
package driver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/hattya/jnotify"
)

const (
	AppName          = "jnotify"
	NotificationName = "Jnotify Notification"
	Title            = "Java sucks"
	Body             = "It does doesn't it, but now it has the honor of talking to growl"
)

// Factory returns a new Notifier for the specified Application.
type Factory func(app *notify.Application) (notify.Notifier, error)

// Run registers the jnotify application and sends one notification through
// the Notifier returned by newNotifier.
//
// The same list of notification names is used for both all notifications
// and the notifications enabled by default. Any error is written to stderr
// and is not returned.
func Run(newNotifier Factory, stderr io.Writer) {
	names := []string{NotificationName}
	n, err := newNotifier(notify.NewApplication(AppName, names, names))
	if err != nil {
		report(stderr, err)
		return
	}
	defer func() {
		if err := n.Close(); err != nil {
			slog.Debug("close notifier", "err", err)
		}
	}()

	slog.Debug("register", "app", AppName, "notifications", names)
	if err := n.Register(); err != nil {
		report(stderr, err)
		return
	}
	slog.Debug("notify", "name", NotificationName, "title", Title)
	if err := n.Notify(NotificationName, Title, Body); err != nil {
		report(stderr, err)
	}
}

func report(w io.Writer, err error) {
	slog.Debug("notification failed", "err", err)
	fmt.Fprintln(w, err)
}
