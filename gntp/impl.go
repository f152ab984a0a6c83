//
// jnotify/gntp :: impl.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package gntp

import "github.com/hattya/jnotify"

type notifier struct {
	c          *Client
	app        *notify.Application
	tmpl       Notification
	registered bool
}

// NewNotifier returns a new Notifier which sends notifications of the
// specified Application through the Client.
//
// The Sticky, Priority, Icon, and CoalescingID fields of tmpl are used for
// every notification. Both c and tmpl may be nil.
func NewNotifier(c *Client, app *notify.Application, tmpl *Notification) notify.Notifier {
	if c == nil {
		c = New()
	}
	p := &notifier{
		c:   c,
		app: app,
	}
	if tmpl != nil {
		p.tmpl = *tmpl
	}
	return p
}

func (p *notifier) Close() error {
	p.registered = false
	return nil
}

func (p *notifier) Register() error {
	if err := p.app.Validate(); err != nil {
		return err
	}
	if _, err := p.c.Register(p.app); err != nil {
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
	n.Name = name
	n.Title = title
	n.Text = body
	_, err := p.c.Notify(p.app.Name, &n)
	return err
}

func (p *notifier) Sys() any {
	return p.c
}
