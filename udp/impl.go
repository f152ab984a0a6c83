//
// jnotify/udp :: impl.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package udp

import "github.com/hattya/jnotify"

type notifier struct {
	c        *Client
	app      *notify.Application
	priority int
	sticky   bool
}

// NewNotifier returns a new Notifier which sends notifications of the
// specified Application through the Client. c may be nil.
func NewNotifier(c *Client, app *notify.Application, priority int, sticky bool) notify.Notifier {
	if c == nil {
		c = New()
	}
	return &notifier{
		c:        c,
		app:      app,
		priority: priority,
		sticky:   sticky,
	}
}

func (p *notifier) Close() error {
	return p.c.Close()
}

func (p *notifier) Register() error {
	if err := p.app.Validate(); err != nil {
		return err
	}
	return p.c.Register(p.app)
}

func (p *notifier) Notify(name, title, body string) error {
	if !p.app.Has(name) {
		return notify.ErrNotification
	}
	return p.c.Notify(&Notification{
		Name:        name,
		Title:       title,
		Description: body,
		Priority:    p.priority,
		Sticky:      p.sticky,
	})
}

func (p *notifier) Sys() any {
	return p.c
}
