//
// jnotify/udp :: udp.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package udp implements a client of the Growl UDP network protocol.
//
// The protocol is fire-and-forget: the server does not reply, so a
// successful Register or Notify only means that the packet has been sent.
package udp

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"math"
	"net"
	"slices"
	"sync"
	"time"

	"github.com/hattya/jnotify"
)

// DefaultServer is the address of a local Growl server.
const DefaultServer = "localhost:9887"

// Version is the protocol version.
const Version = 1

var (
	ErrRegistered = errors.New("jnotify: already registered")
	ErrPriority   = errors.New("jnotify: priority out of range")
	ErrAuth       = errors.New("jnotify: unknown authentication method")
	ErrTooLong    = errors.New("jnotify: packet field too long")
)

// AuthMethod represents an authentication method of a packet.
type AuthMethod int

// List of authentication methods.
const (
	NONE AuthMethod = iota
	MD5
	SHA256
)

// ParseAuthMethod returns the AuthMethod of the specified name.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch s {
	case "NONE", "none", "":
		return NONE, nil
	case "MD5", "md5":
		return MD5, nil
	case "SHA256", "sha256":
		return SHA256, nil
	}
	return -1, ErrAuth
}

func (am AuthMethod) String() string {
	switch am {
	case NONE:
		return "NONE"
	case MD5:
		return "MD5"
	case SHA256:
		return "SHA256"
	}
	return fmt.Sprintf("AuthMethod(%d)", int(am))
}

// Type represents a packet type.
type Type uint8

// List of packet types.
const (
	TypeRegistration       Type = 0
	TypeNotification       Type = 1
	TypeRegistrationSHA256 Type = 2
	TypeNotificationSHA256 Type = 3
	TypeRegistrationNoAuth Type = 4
	TypeNotificationNoAuth Type = 5
)

func (am AuthMethod) types() (reg, ntf Type, err error) {
	switch am {
	case NONE:
		return TypeRegistrationNoAuth, TypeNotificationNoAuth, nil
	case MD5:
		return TypeRegistration, TypeNotification, nil
	case SHA256:
		return TypeRegistrationSHA256, TypeNotificationSHA256, nil
	}
	return 0, 0, ErrAuth
}

func (am AuthMethod) sign(b *bytes.Buffer, password string) {
	var h hash.Hash
	switch am {
	case MD5:
		h = md5.New()
	case SHA256:
		h = sha256.New()
	default:
		return
	}
	h.Write(b.Bytes())
	h.Write([]byte(password))
	b.Write(h.Sum(nil))
}

// List of priorities.
const (
	VeryLow   = -2
	Moderate  = -1
	Normal    = 0
	High      = 1
	Emergency = 2
)

// Notification represents a notification packet.
type Notification struct {
	Name        string
	Title       string
	Description string
	Priority    int
	Sticky      bool
}

// Flags returns the flags field of the Notification.
func (n *Notification) Flags() uint16 {
	flags := uint16(n.Priority&0x07) << 1
	if n.Priority < 0 {
		flags |= 0x08
	}
	if n.Sticky {
		flags |= 0x01
	}
	return flags
}

// EncodeRegistration encodes the registration packet of the specified
// Application.
func EncodeRegistration(app *notify.Application, am AuthMethod, password string) ([]byte, error) {
	t, _, err := am.types()
	if err != nil {
		return nil, err
	}
	switch {
	case len(app.Name) > math.MaxUint16:
		return nil, fmt.Errorf("%w: application name", ErrTooLong)
	case len(app.Notifications) > math.MaxUint8:
		return nil, fmt.Errorf("%w: %v notifications", ErrTooLong, len(app.Notifications))
	case len(app.Defaults) > math.MaxUint8:
		return nil, fmt.Errorf("%w: %v default notifications", ErrTooLong, len(app.Defaults))
	}

	b := new(bytes.Buffer)
	b.WriteByte(Version)
	b.WriteByte(byte(t))
	binary.Write(b, binary.BigEndian, uint16(len(app.Name)))
	b.WriteByte(byte(len(app.Notifications)))
	b.WriteByte(byte(len(app.Defaults)))
	b.WriteString(app.Name)
	for _, n := range app.Notifications {
		if len(n) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: notification name", ErrTooLong)
		}
		binary.Write(b, binary.BigEndian, uint16(len(n)))
		b.WriteString(n)
	}
	for _, n := range app.Defaults {
		i := slices.Index(app.Notifications, n)
		if i == -1 {
			return nil, fmt.Errorf("%w: default notification %q is not declared", notify.ErrApplication, n)
		}
		b.WriteByte(byte(i))
	}
	am.sign(b, password)
	return b.Bytes(), nil
}

// EncodeNotification encodes the notification packet of the named
// application.
func EncodeNotification(app string, n *Notification, am AuthMethod, password string) ([]byte, error) {
	_, t, err := am.types()
	if err != nil {
		return nil, err
	}
	if n.Priority < VeryLow || Emergency < n.Priority {
		return nil, fmt.Errorf("%w: %v", ErrPriority, n.Priority)
	}
	fields := []string{n.Name, n.Title, n.Description, app}
	for _, s := range fields {
		if len(s) > math.MaxUint16 {
			return nil, ErrTooLong
		}
	}

	b := new(bytes.Buffer)
	b.WriteByte(Version)
	b.WriteByte(byte(t))
	binary.Write(b, binary.BigEndian, n.Flags())
	for _, s := range fields {
		binary.Write(b, binary.BigEndian, uint16(len(s)))
	}
	for _, s := range fields {
		b.WriteString(s)
	}
	am.sign(b, password)
	return b.Bytes(), nil
}

// Client is a Growl UDP client.
type Client struct {
	Server     string
	Password   string
	AuthMethod AuthMethod
	Timeout    time.Duration // zero means no timeout

	mu   sync.Mutex
	app  string
	conn net.Conn
}

// New returns a new Client.
func New() *Client {
	return &Client{
		Server:     DefaultServer,
		AuthMethod: MD5,
	}
}

// Register sends a registration packet of the specified Application to the
// server. It returns ErrRegistered if the Client is already registered.
func (c *Client) Register(app *notify.Application) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return ErrRegistered
	}
	pkt, err := EncodeRegistration(app, c.AuthMethod, c.Password)
	if err != nil {
		return err
	}
	conn, err := net.DialTimeout("udp", c.Server, c.Timeout)
	if err != nil {
		return err
	}
	if err := c.write(conn, pkt); err != nil {
		conn.Close()
		return err
	}
	c.app = app.Name
	c.conn = conn
	return nil
}

// Notify sends a notification packet to the server.
func (c *Client) Notify(n *Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return notify.ErrNotRegistered
	}
	pkt, err := EncodeNotification(c.app, n, c.AuthMethod, c.Password)
	if err != nil {
		return err
	}
	return c.write(c.conn, pkt)
}

func (c *Client) write(conn net.Conn, pkt []byte) error {
	if c.Timeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(c.Timeout))
	}
	_, err := conn.Write(pkt)
	return err
}

// Close closes the connection to the server. The Client can be registered
// again after Close.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.app = ""
	return err
}
