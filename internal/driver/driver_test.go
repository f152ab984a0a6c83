//
// jnotify/internal/driver :: driver_test.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package driver_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/hattya/jnotify"
	"github.com/hattya/jnotify/internal/driver"
	"github.com/hattya/jnotify/udp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifier struct {
	calls       []string
	registerErr error
	notifyErr   error
}

func (n *notifier) Close() error {
	n.calls = append(n.calls, "Close")
	return nil
}

func (n *notifier) Register() error {
	n.calls = append(n.calls, "Register")
	return n.registerErr
}

func (n *notifier) Notify(name, title, body string) error {
	n.calls = append(n.calls, fmt.Sprintf("Notify(%q, %q, %q)", name, title, body))
	return n.notifyErr
}

func (n *notifier) Sys() any { return nil }

type factory struct {
	n    *notifier
	err  error
	apps []*notify.Application
}

func (f *factory) New(app *notify.Application) (notify.Notifier, error) {
	f.apps = append(f.apps, app)
	if f.err != nil {
		return nil, f.err
	}
	return f.n, nil
}

var notifyCall = fmt.Sprintf("Notify(%q, %q, %q)", "Jnotify Notification", "Java sucks", "It does doesn't it, but now it has the honor of talking to growl")

func TestRun(t *testing.T) {
	f := &factory{n: new(notifier)}
	var stderr bytes.Buffer
	driver.Run(f.New, &stderr)

	require.Len(t, f.apps, 1)
	app := f.apps[0]
	assert.Equal(t, "jnotify", app.Name)
	assert.Equal(t, []string{"Jnotify Notification"}, app.Notifications)
	assert.Equal(t, []string{"Jnotify Notification"}, app.Defaults)
	assert.Equal(t, []string{"Register", notifyCall, "Close"}, f.n.calls)
	assert.Empty(t, stderr.String())
}

func TestRunRegisterError(t *testing.T) {
	f := &factory{n: &notifier{registerErr: errors.New("growl is not running")}}
	var stderr bytes.Buffer
	driver.Run(f.New, &stderr)

	assert.Equal(t, []string{"Register", "Close"}, f.n.calls)
	assert.Equal(t, "growl is not running\n", stderr.String())
}

func TestRunNotifyError(t *testing.T) {
	f := &factory{n: &notifier{notifyErr: notify.ErrNotification}}
	var stderr bytes.Buffer
	driver.Run(f.New, &stderr)

	assert.Equal(t, []string{"Register", notifyCall, "Close"}, f.n.calls)
	assert.Equal(t, notify.ErrNotification.Error()+"\n", stderr.String())
}

func TestRunLog(t *testing.T) {
	save := slog.Default()
	defer slog.SetDefault(save)

	for _, tt := range []struct {
		level slog.Level
		lines int
	}{
		{slog.LevelInfo, 0},
		{slog.LevelDebug, 1},
	} {
		var log bytes.Buffer
		slog.SetDefault(slog.New(slog.NewTextHandler(&log, &slog.HandlerOptions{Level: tt.level})))

		f := &factory{n: &notifier{registerErr: errors.New("growl is not running")}}
		var stderr bytes.Buffer
		driver.Run(f.New, &stderr)

		assert.Equal(t, "growl is not running\n", stderr.String())
		assert.Equal(t, tt.lines, strings.Count(log.String(), "notification failed"), tt.level)
	}
}

func TestRunFactoryError(t *testing.T) {
	f := &factory{err: errors.New("no session bus")}
	var stderr bytes.Buffer
	driver.Run(f.New, &stderr)

	assert.Len(t, f.apps, 1)
	assert.Equal(t, "no session bus\n", stderr.String())
}

func TestRunUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	var stderr bytes.Buffer
	driver.Run(func(app *notify.Application) (notify.Notifier, error) {
		c := udp.New()
		c.Server = pc.LocalAddr().String()
		c.AuthMethod = udp.NONE
		return udp.NewNotifier(c, app, udp.Normal, false), nil
	}, &stderr)
	assert.Empty(t, stderr.String())

	pc.SetReadDeadline(time.Now().Add(5 * time.Second))
	b := make([]byte, 1024)
	for _, typ := range []udp.Type{udp.TypeRegistrationNoAuth, udp.TypeNotificationNoAuth} {
		n, _, err := pc.ReadFrom(b)
		require.NoError(t, err)
		require.Greater(t, n, 2)
		assert.Equal(t, byte(typ), b[1])
		assert.Contains(t, string(b[:n]), "Jnotify Notification")
	}
}
