//
// jnotify/freedesktop :: impl.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package freedesktop

import (
	"fmt"
	"image"
	"maps"
	"slices"

	"github.com/hattya/jnotify"
)

type notifier struct {
	c          *Client
	app        *notify.Application
	tmpl       Notification
	registered bool
}

// NewNotifier returns a new Notifier connected to the session bus.
//
// The D-Bus service has no registration, so Register only validates the
// Application and checks that the server responds. The icon of the
// Application is used for every notification and supports following types:
//   - string
//   - image.Image
//
// The Actions, Hints, and Timeout fields of tmpl are used for every
// notification. tmpl may be nil.
func NewNotifier(app *notify.Application, tmpl *Notification) (notify.Notifier, error) {
	p := &notifier{app: app}
	if tmpl != nil {
		p.tmpl = *tmpl
		p.tmpl.Actions = slices.Clone(tmpl.Actions)
		p.tmpl.Hints = maps.Clone(tmpl.Hints)
	}
	switch icon := app.Icon.(type) {
	case nil:
	case string:
		p.tmpl.Icon = icon
	case image.Image:
		if err := p.tmpl.Hint("image-data", icon); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported icon: %T", icon)
	}
	c, err := New()
	if err != nil {
		return nil, err
	}
	p.c = c
	return p, nil
}

func (p *notifier) Close() error {
	p.registered = false
	return p.c.Close()
}

func (p *notifier) Register() error {
	if err := p.app.Validate(); err != nil {
		return err
	}
	if _, _, err := p.c.specVersion(); err != nil {
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
	n := p.tmpl
	n.Name = p.app.Name
	n.Summary = title
	n.Body = body
	_, err := p.c.Notify(&n)
	return err
}

func (p *notifier) Sys() any {
	return p.c
}
