//
// jnotify/desktop :: desktop.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package desktop implements a Notifier which shows notifications by the
// native notification facility of each platform.
package desktop

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/hattya/jnotify"
)

// for testing
var (
	notifyFunc = func(title, body, icon string) error { return beeep.Notify(title, body, icon) }
	alertFunc  = func(title, body, icon string) error { return beeep.Alert(title, body, icon) }
)

type notifier struct {
	app        *notify.Application
	icon       string
	alert      bool
	registered bool
}

// NewNotifier returns a new Notifier. The icon of the Application should be
// the path to an image file. If alert is true, notifications are shown with
// a sound.
func NewNotifier(app *notify.Application, alert bool) (notify.Notifier, error) {
	p := &notifier{
		app:   app,
		alert: alert,
	}
	switch icon := app.Icon.(type) {
	case nil:
	case string:
		p.icon = icon
	default:
		return nil, fmt.Errorf("unsupported icon: %T", icon)
	}
	return p, nil
}

func (p *notifier) Close() error {
	p.registered = false
	return nil
}

func (p *notifier) Register() error {
	if err := p.app.Validate(); err != nil {
		return err
	}
	p.registered = true
	return nil
}

func (p *notifier) Notify(name, title, body string) error {
	switch {
	case !p.registered:
		return notify.ErrNotRegistered
	case !p.app.Has(name):
		return notify.ErrNotification
	}
	if p.alert {
		return alertFunc(title, body, p.icon)
	}
	return notifyFunc(title, body, p.icon)
}

func (p *notifier) Sys() any {
	return nil
}
