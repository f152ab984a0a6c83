//
// jnotify/freedesktop :: export_test.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package freedesktop

import "github.com/godbus/dbus/v5"

func SetSessionBus(fn func() (*dbus.Conn, error)) func() {
	save := sessionBus
	sessionBus = fn
	return func() { sessionBus = save }
}

var HintKey = hintKey

func init() {
	testHookNew = func(c *Client) {
		c.obj = &object{
			dest: notifications,
			path: objectPath,
		}
	}
}

func (c *Client) MockMethodCall(call *dbus.Call) {
	obj := c.obj.(*object)
	obj.calls = append(obj.calls, call)
}

func (c *Client) MethodCalls() []*dbus.Call {
	obj := c.obj.(*object)
	return obj.calls[:obj.n]
}

func (c *Client) NumMethodCalls() int {
	return c.obj.(*object).n
}

func (c *Client) ResetMock() {
	obj := c.obj.(*object)
	obj.calls = obj.calls[:0]
	obj.n = 0
}

// object replays the mocked calls in order.
type object struct {
	dbus.BusObject

	dest  string
	path  dbus.ObjectPath
	calls []*dbus.Call
	n     int
}

func (o *object) Call(method string, flags dbus.Flags, args ...any) *dbus.Call {
	return o.Go(method, flags, nil, args...)
}

func (o *object) Go(method string, flags dbus.Flags, ch chan *dbus.Call, args ...any) *dbus.Call {
	if len(o.calls) <= o.n {
		return &dbus.Call{Err: dbus.ErrClosed}
	}

	call := o.calls[o.n]
	call.Destination = o.dest
	call.Path = o.path
	call.Method = method
	call.Args = args
	o.n++
	return call
}

func (o *object) Destination() string   { return o.dest }
func (o *object) Path() dbus.ObjectPath { return o.path }
