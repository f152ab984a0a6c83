//
// jnotify :: notify.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package notify provides an interface for Growl-style notifications.
//
// An application declares its name and the full list of notifications it
// may send, together with the subset enabled by default, registers itself with
// the notification service, and then sends named notifications.
package notify

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNotification  = errors.New("jnotify: unknown notification")
	ErrNotRegistered = errors.New("jnotify: not registered")
	ErrApplication   = errors.New("jnotify: invalid application")
)

// Icon represents an icon. Its value is dependent on each implementation.
type Icon any

// Application represents an application which sends notifications.
type Application struct {
	Name          string
	Notifications []string // all notifications
	Defaults      []string // notifications enabled by default
	Icon          Icon

	// Optional per-notification values keyed by notification name. They are
	// sent only by the implementations which support them.
	DisplayNames map[string]string
	Icons        map[string]Icon
}

// NewApplication returns a new Application. The specified slices are copied.
func NewApplication(name string, all, defaults []string) *Application {
	return &Application{
		Name:          name,
		Notifications: append([]string(nil), all...),
		Defaults:      append([]string(nil), defaults...),
	}
}

// Has reports whether the named notification is declared by the
// Application.
func (a *Application) Has(name string) bool {
	return slices.Contains(a.Notifications, name)
}

// Enabled reports whether the named notification is enabled by default.
func (a *Application) Enabled(name string) bool {
	return slices.Contains(a.Defaults, name)
}

// Validate reports whether the Application can be registered.
func (a *Application) Validate() error {
	switch {
	case a.Name == "":
		return fmt.Errorf("%w: empty name", ErrApplication)
	case len(a.Notifications) == 0:
		return fmt.Errorf("%w: no notifications", ErrApplication)
	}
	for i, n := range a.Notifications {
		if n == "" {
			return fmt.Errorf("%w: empty notification name", ErrApplication)
		} else if slices.Contains(a.Notifications[:i], n) {
			return fmt.Errorf("%w: duplicate notification %q", ErrApplication, n)
		}
	}
	for _, n := range a.Defaults {
		if !a.Has(n) {
			return fmt.Errorf("%w: default notification %q is not declared", ErrApplication, n)
		}
	}
	for n := range a.DisplayNames {
		if !a.Has(n) {
			return fmt.Errorf("%w: display name of undeclared notification %q", ErrApplication, n)
		}
	}
	for n := range a.Icons {
		if !a.Has(n) {
			return fmt.Errorf("%w: icon of undeclared notification %q", ErrApplication, n)
		}
	}
	return nil
}

// Notifier is an interface for notifications.
type Notifier interface {
	// Close closes the Notifier.
	Close() error

	// Register registers the Application to the notification service.
	Register() error

	// Notify notifies the named notification by the specified title and
	// body.
	Notify(name, title, body string) error

	// Sys returns the implementation of the Notifier.
	Sys() any
}
