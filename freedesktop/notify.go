//
// jnotify/freedesktop :: notify.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package freedesktop implements a client of the Desktop Notifications
// Specification version 1.2.
//
// See https://specifications.freedesktop.org/notification-spec/ for details.
package freedesktop

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/hattya/jnotify/internal/util"
)

const (
	notifications                 = "org.freedesktop.Notifications"
	objectPath    dbus.ObjectPath = "/org/freedesktop/Notifications"
)

// for testing
var (
	sessionBus  = func() (*dbus.Conn, error) { return dbus.ConnectSessionBus() }
	testHookNew func(*Client)
)

// Client is a notification client.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject

	mu     sync.Mutex
	closed bool
	major  int
	minor  int
}

// New returns a new Client connected to the session bus.
func New() (*Client, error) {
	conn, err := sessionBus()
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:  conn,
		obj:   conn.Object(notifications, objectPath),
		major: -1,
	}
	if testHookNew != nil {
		testHookNew(c)
	}
	return c, nil
}

// Close closes the D-Bus connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// CloseNotification closes and removes the notification of the specified ID.
func (c *Client) CloseNotification(id uint32) error {
	return c.obj.Call(notifications+".CloseNotification", 0, id).Err
}

// GetCapabilities retrieves capabilities that the server implements.
//
// See https://specifications.freedesktop.org/notification-spec/latest/protocol.html
// for available capabilities.
func (c *Client) GetCapabilities() (caps []string, err error) {
	call := c.obj.Call(notifications+".GetCapabilities", 0)
	if call.Err != nil {
		return nil, call.Err
	}
	err = call.Store(&caps)
	return
}

// GetServerInformation retrieves the information of the server.
func (c *Client) GetServerInformation() (si ServerInfo, err error) {
	call := c.obj.Call(notifications+".GetServerInformation", 0)
	if call.Err != nil {
		err = call.Err
	} else {
		err = call.Store(&si.Name, &si.Vendor, &si.Version, &si.SpecVersion)
	}
	return
}

// specVersion returns the specification version which the server supports.
// It is retrieved only once.
func (c *Client) specVersion() (major, minor int, err error) {
	c.mu.Lock()
	major, minor = c.major, c.minor
	c.mu.Unlock()
	if major != -1 {
		return
	}

	si, err := c.GetServerInformation()
	if err != nil {
		return
	}
	if _, err = fmt.Sscanf(si.SpecVersion, "%d.%d", &major, &minor); err != nil {
		return -1, 0, fmt.Errorf("freedesktop: invalid spec version %q", si.SpecVersion)
	}
	c.mu.Lock()
	c.major, c.minor = major, minor
	c.mu.Unlock()
	return
}

// Notify sends a notification to the server, and returns its ID.
func (c *Client) Notify(n *Notification) (id uint32, err error) {
	hints := make(map[string]dbus.Variant)
	if 0 < len(n.Hints) {
		var major, minor int
		if major, minor, err = c.specVersion(); err != nil {
			return
		}
		for k, v := range n.Hints {
			hints[hintKey(k, major, minor)] = dbus.MakeVariant(v)
		}
	}
	actions := n.Actions
	if actions == nil {
		actions = []string{}
	}

	call := c.obj.Call(notifications+".Notify", 0, n.Name, n.ID, n.Icon, n.Summary, n.Body, actions, hints, n.Timeout)
	if call.Err != nil {
		err = call.Err
	} else {
		err = call.Store(&id)
	}
	return
}

// hintKey returns the name of the hint for the specification version.
func hintKey(k string, major, minor int) string {
	v12 := major > 1 || (major == 1 && minor >= 2)
	switch k {
	case "image-data":
		switch {
		case v12:
		case major == 1 && minor == 1:
			return "image_data"
		default:
			return "icon_data"
		}
	case "image-path":
		if !v12 {
			return "image_path"
		}
	}
	return k
}

// Urgency represents an urgency level.
type Urgency uint8

// List of urgency levels.
const (
	Low Urgency = iota
	Normal
	Critical
)

// Notification represents a notification.
//
// See https://specifications.freedesktop.org/notification-spec/latest/basic-design.html
// for details.
type Notification struct {
	Name    string         // Application Name
	ID      uint32         // Replaces ID
	Icon    string         // Notification Icon
	Summary string         // Summary
	Body    string         // Body
	Actions []string       // Actions
	Hints   map[string]any // Hints
	Timeout int32          // Expiration Timeout
}

// Action adds (or replaces) the specified action to the Notification.
func (n *Notification) Action(key, label string) {
	for i := 0; i < len(n.Actions); i += 2 {
		if n.Actions[i] == key {
			n.Actions[i+1] = label
			return
		}
	}
	n.Actions = append(n.Actions, key, label)
}

// Hint adds (or replaces) the specified hint to the Notification.
//
// See https://specifications.freedesktop.org/notification-spec/latest/hints.html
// for available hints.
func (n *Notification) Hint(name string, value any) error {
	if n.Hints == nil {
		n.Hints = make(map[string]any)
	}
	switch name {
	case "image-data", "image_data", "icon_data":
		name = "image-data"
		switch v := value.(type) {
		case *ImageData:
		case ImageData:
			value = &v
		case image.Image:
			var err error
			if value, err = NewImageData(v); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%q is not image: %T", name, value)
		}
	case "image-path", "image_path":
		name = "image-path"
	case "x", "y":
		i, err := toInt(name, value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		value = int32(i)
	case "urgency":
		if u, ok := value.(Urgency); ok {
			value = uint8(u)
			break
		}
		i, err := toInt(name, value, 0, math.MaxUint8)
		if err != nil {
			return err
		}
		value = uint8(i)
	}
	n.Hints[name] = value
	return nil
}

func toInt(name string, value any, lo, hi int64) (int64, error) {
	var i int64
	switch v := value.(type) {
	case int:
		i = int64(v)
	case int8:
		i = int64(v)
	case int16:
		i = int64(v)
	case int32:
		i = int64(v)
	case int64:
		i = v
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%q overflows range: %v", name, value)
		}
		i = int64(v)
	case uint8:
		i = int64(v)
	case uint16:
		i = int64(v)
	case uint32:
		i = int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%q overflows range: %v", name, value)
		}
		i = int64(v)
	default:
		return 0, fmt.Errorf("%q is not integer: %T", name, value)
	}
	if i < lo || hi < i {
		return 0, fmt.Errorf("%q overflows range: %v", name, value)
	}
	return i, nil
}

// ImageData represents a raw image data structure of signature (iiibiiay).
//
// See https://specifications.freedesktop.org/notification-spec/latest/icons-and-images.html
// for details.
type ImageData struct {
	Width         int32
	Height        int32
	Stride        int32
	Alpha         bool
	BitsPerSample int32
	NumChannels   int32
	Data          []byte
}

// NewImageData returns a new raw image data structure from the specified
// img. img is converted to either an *image.Gray or an *image.NRGBA.
func NewImageData(img image.Image) (*ImageData, error) {
	img, err := util.Convert(img)
	if err != nil {
		return nil, err
	}
	data := &ImageData{
		Width:         int32(img.Bounds().Dx()),
		Height:        int32(img.Bounds().Dy()),
		BitsPerSample: 8,
	}
	switch img := img.(type) {
	case *image.Gray:
		data.Stride = int32(img.Stride)
		data.NumChannels = 1
		data.Data = img.Pix
	case *image.NRGBA:
		data.Stride = int32(img.Stride)
		data.Alpha = true
		data.NumChannels = 4
		data.Data = img.Pix
	}
	return data, nil
}

// ServerInfo represents the information of the server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}
