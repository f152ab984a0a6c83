//
// jnotify/internal/backend :: backend.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package backend creates the Notifier selected by the configuration.
package backend

import (
	"fmt"

	"github.com/hattya/jnotify"
	"github.com/hattya/jnotify/desktop"
	"github.com/hattya/jnotify/freedesktop"
	"github.com/hattya/jnotify/gntp"
	"github.com/hattya/jnotify/internal/config"
	"github.com/hattya/jnotify/udp"
)

// New returns a new Notifier for the specified Application.
func New(cfg *config.Config, app *notify.Application) (notify.Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout, _ := cfg.TimeoutDuration()
	switch cfg.Backend {
	case "gntp":
		c := gntp.New()
		if cfg.Server != "" {
			c.Server = cfg.Server
		}
		c.Password = cfg.Password
		c.HashAlgorithm, _ = gntp.ParseHashAlgorithm(cfg.Hash)
		c.EncryptionAlgorithm, _ = gntp.ParseEncryptionAlgorithm(cfg.Encryption)
		c.Timeout = timeout
		return gntp.NewNotifier(c, app, &gntp.Notification{
			Priority: cfg.Priority,
			Sticky:   cfg.Sticky,
		}), nil
	case "udp":
		c := udp.New()
		if cfg.Server != "" {
			c.Server = cfg.Server
		}
		c.Password = cfg.Password
		c.AuthMethod, _ = udp.ParseAuthMethod(cfg.Auth)
		c.Timeout = timeout
		return udp.NewNotifier(c, app, cfg.Priority, cfg.Sticky), nil
	case "freedesktop":
		tmpl := new(freedesktop.Notification)
		switch {
		case cfg.Priority > 0:
			tmpl.Hint("urgency", freedesktop.Critical)
		case cfg.Priority < 0:
			tmpl.Hint("urgency", freedesktop.Low)
		}
		if cfg.Sticky {
			tmpl.Timeout = 0
		} else {
			tmpl.Timeout = -1
		}
		return freedesktop.NewNotifier(app, tmpl)
	case "desktop":
		return desktop.NewNotifier(app, cfg.Alert)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
