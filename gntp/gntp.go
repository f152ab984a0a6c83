//
// jnotify/gntp :: gntp.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Package gntp implements a client of the Growl Notification Transport
// Protocol version 1.0.
//
// See http://www.growlforwindows.com/gfw/help/gntp.aspx for details.
package gntp

import (
	"bufio"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"image"
	"image/png"
	"io"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/hattya/jnotify"
	"github.com/hattya/jnotify/internal/util"
)

// DefaultServer is the address of a local GNTP server.
const DefaultServer = "localhost:23053"

var (
	ErrProtocol   = errors.New("jnotify: protocol error")
	ErrHash       = errors.New("jnotify: unknown hash algorithm")
	ErrEncryption = errors.New("jnotify: unknown encryption algorithm")
	ErrKeyLength  = errors.New("jnotify: key length is too short")
	ErrPassword   = errors.New("jnotify: incorrect password")
	ErrPKCS7      = errors.New("jnotify: invalid PKCS #7 padding")
)

// Client is a GNTP client.
type Client struct {
	Server              string
	Password            string
	HashAlgorithm       HashAlgorithm
	EncryptionAlgorithm EncryptionAlgorithm
	Timeout             time.Duration // zero means no timeout

	// Custom Headers and App-Specific Headers
	Header map[string]any
}

// New returns a new Client.
func New() *Client {
	return &Client{
		Server: DefaultServer,
		Header: make(map[string]any),
	}
}

// Register sends a REGISTER request for the specified Application to the
// server. Notifications listed in the Defaults of the Application are
// registered as enabled. The DisplayNames and Icons of the Application are
// sent as Notification-Display-Name and Notification-Icon.
func (c *Client) Register(app *notify.Application) (*Response, error) {
	r := c.request()
	r.Header("Application-Name", app.Name)
	if err := r.Icon("Application-Icon", app.Icon); err != nil {
		return nil, err
	}
	r.Header("Notifications-Count", len(app.Notifications))
	if err := r.Custom(c.Header); err != nil {
		return nil, err
	}
	for _, name := range app.Notifications {
		r.CRLF()
		r.Header("Notification-Name", name)
		if s := app.DisplayNames[name]; s != "" {
			r.Header("Notification-Display-Name", s)
		}
		if app.Enabled(name) {
			r.Header("Notification-Enabled", "True")
		}
		if err := r.Icon("Notification-Icon", app.Icons[name]); err != nil {
			return nil, err
		}
	}
	return c.send("REGISTER", r)
}

// Notify sends a NOTIFY request of the named application to the server.
func (c *Client) Notify(app string, n *Notification) (*Response, error) {
	r := c.request()
	r.Header("Application-Name", app)
	r.Header("Notification-Name", n.Name)
	if n.ID != "" {
		r.Header("Notification-ID", n.ID)
	}
	r.Header("Notification-Title", n.Title)
	r.Header("Notification-Text", n.Text)
	if n.Sticky {
		r.Header("Notification-Sticky", "True")
	}
	if n.Priority != 0 {
		r.Header("Notification-Priority", n.Priority)
	}
	if err := r.Icon("Notification-Icon", n.Icon); err != nil {
		return nil, err
	}
	if n.CoalescingID != "" {
		r.Header("Notification-Coalescing-ID", n.CoalescingID)
	}
	if err := r.Custom(c.Header); err != nil {
		return nil, err
	}
	return c.send("NOTIFY", r)
}

func (c *Client) request() *request {
	return &request{
		ha:        c.HashAlgorithm,
		resources: make(map[string][]byte),
	}
}

func (c *Client) info(mt string) (*Info, error) {
	i := &Info{
		Version:             "1.0",
		MessageType:         mt,
		HashAlgorithm:       c.HashAlgorithm,
		EncryptionAlgorithm: c.EncryptionAlgorithm,
	}
	if c.Password == "" {
		i.EncryptionAlgorithm = NONE
		return i, nil
	}
	if err := i.SetPassword(c.Password); err != nil {
		return nil, err
	}
	return i, nil
}

func (c *Client) send(mt string, r *request) (*Response, error) {
	i, err := c.info(mt)
	if err != nil {
		return nil, err
	}

	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.Dial("tcp", c.Server)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if c.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.Timeout))
	}

	w := bufio.NewWriter(conn)
	fmt.Fprintf(w, "%v\r\n", i)
	if i.Cipher != nil {
		w.Write(i.Encrypt(r.Bytes()))
		w.WriteString("\r\n\r\n")
	} else {
		w.Write(r.Bytes())
		w.WriteString("\r\n")
	}
	for id, data := range r.resources {
		data = i.Encrypt(data)
		fmt.Fprintf(w, "Identifier: %v\r\n", id)
		fmt.Fprintf(w, "Length: %v\r\n\r\n", len(data))
		w.Write(data)
		w.WriteString("\r\n\r\n")
	}
	w.WriteString("\r\n")
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return c.response(bufio.NewReader(conn))
}

func (c *Client) response(br *bufio.Reader) (*Response, error) {
	tr := textproto.NewReader(br)
	l, err := tr.ReadLine()
	if err != nil {
		return nil, err
	}
	i, err := ParseInfo(l, c.Password)
	if err != nil {
		return nil, err
	}
	if i.Cipher != nil {
		b, err := util.ReadBlocks(br, i.Cipher.BlockSize(), []byte("\r\n\r\n"), i.Decrypt)
		if err != nil {
			return nil, err
		}
		tr = textproto.NewReader(bufio.NewReader(io.MultiReader(bytes.NewReader(b), strings.NewReader("\r\n"))))
	}
	hdr, err := tr.ReadMIMEHeader()
	if err != nil {
		return nil, err
	}
	switch i.MessageType {
	case "-OK":
		resp := &Response{
			Action: hdr.Get("Response-Action"),
			ID:     hdr.Get("Notification-ID"),
			Header: hdr,
		}
		hdr.Del("Response-Action")
		hdr.Del("Notification-ID")
		return resp, nil
	case "-ERROR":
		code, err := strconv.Atoi(hdr.Get("Error-Code"))
		if err != nil {
			return nil, ErrProtocol
		}
		e := Error{
			Code:        ErrorCode(code),
			Description: hdr.Get("Error-Description"),
			Header:      hdr,
		}
		hdr.Del("Error-Code")
		hdr.Del("Error-Description")
		return nil, e
	}
	return nil, ErrProtocol
}

// Icon represents an icon and which supports following types:
//   - string (URL)
//   - []byte
//   - image.Image
//   - io.Reader
type Icon = notify.Icon

// HashAlgorithm represents a hash algorithm of the GNTP protocol.
type HashAlgorithm int

// List of hash algorithms for the GNTP protocol.
const (
	MD5 HashAlgorithm = iota
	SHA1
	SHA256
	SHA512
)

// ParseHashAlgorithm returns the HashAlgorithm of the specified name.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch strings.ToUpper(s) {
	case "MD5":
		return MD5, nil
	case "SHA1":
		return SHA1, nil
	case "SHA256":
		return SHA256, nil
	case "SHA512":
		return SHA512, nil
	}
	return -1, ErrHash
}

// New returns a new hash.Hash.
func (ha HashAlgorithm) New() (hash.Hash, error) {
	switch ha {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	}
	return nil, ErrHash
}

func (ha HashAlgorithm) String() string {
	switch ha {
	case MD5:
		return "MD5"
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	}
	return fmt.Sprintf("HashAlgorithm(%d)", int(ha))
}

// EncryptionAlgorithm represents an encryption algorithm of the GNTP protocol.
type EncryptionAlgorithm int

// List of encryption algorithms for the GNTP protocol.
const (
	NONE EncryptionAlgorithm = iota
	DES
	TDES // 3DES
	AES
)

// ParseEncryptionAlgorithm returns the EncryptionAlgorithm of the specified
// name.
func ParseEncryptionAlgorithm(s string) (EncryptionAlgorithm, error) {
	switch strings.ToUpper(s) {
	case "NONE", "":
		return NONE, nil
	case "DES":
		return DES, nil
	case "3DES":
		return TDES, nil
	case "AES":
		return AES, nil
	}
	return -1, ErrEncryption
}

// New returns a new cipher.Block for encryption.
func (ea EncryptionAlgorithm) New(key []byte) (cipher.Block, error) {
	var newCipher func([]byte) (cipher.Block, error)
	var n int
	switch ea {
	case NONE:
		return nil, nil
	case DES:
		newCipher = des.NewCipher
		n = 8
	case TDES:
		newCipher = des.NewTripleDESCipher
		n = 24
	case AES:
		newCipher = aes.NewCipher
		n = 24
	default:
		return nil, ErrEncryption
	}
	if len(key) < n {
		return nil, ErrKeyLength
	}
	return newCipher(key[:n])
}

func (ea EncryptionAlgorithm) String() string {
	switch ea {
	case NONE:
		return "NONE"
	case DES:
		return "DES"
	case TDES:
		return "3DES"
	case AES:
		return "AES"
	}
	return fmt.Sprintf("EncryptionAlgorithm(%d)", int(ea))
}

// Notification represents a notification of the NOTIFY request.
type Notification struct {
	Name         string
	ID           string
	Title        string
	Text         string
	Sticky       bool
	Priority     int
	Icon         Icon
	CoalescingID string
}

var sanitizer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", " ",
)

// request is the header section of a request and its binary resources.
type request struct {
	bytes.Buffer

	ha        HashAlgorithm
	resources map[string][]byte
}

func (r *request) CRLF() {
	r.WriteString("\r\n")
}

func (r *request) Header(key string, value any) {
	if s, ok := value.(string); ok {
		value = sanitizer.Replace(s)
	}
	fmt.Fprintf(r, "%v: %v\r\n", key, value)
}

func (r *request) Icon(key string, icon Icon) error {
	var data []byte
	switch v := icon.(type) {
	case nil:
		return nil
	case string:
		r.Header(key, v)
		return nil
	case []byte:
		data = v
	case image.Image:
		var b bytes.Buffer
		if err := png.Encode(&b, v); err != nil {
			return err
		}
		data = b.Bytes()
	case io.Reader:
		var err error
		if data, err = io.ReadAll(v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported icon: %T", icon)
	}
	id, err := r.resource(data)
	if err != nil {
		return err
	}
	r.Header(key, id)
	return nil
}

// Custom writes the specified headers. []byte and io.Reader values are sent
// as binary resources.
func (r *request) Custom(hdr map[string]any) error {
	for k, v := range hdr {
		var data []byte
		switch b := v.(type) {
		case []byte:
			data = b
		case io.Reader:
			var err error
			if data, err = io.ReadAll(b); err != nil {
				return err
			}
		default:
			r.Header(textproto.CanonicalMIMEHeaderKey(k), v)
			continue
		}
		id, err := r.resource(data)
		if err != nil {
			return err
		}
		r.Header(textproto.CanonicalMIMEHeaderKey(k), id)
	}
	return nil
}

func (r *request) resource(data []byte) (string, error) {
	h, err := r.ha.New()
	if err != nil {
		return "", err
	}
	h.Write(data)
	id := fmt.Sprintf("%X", h.Sum(nil))
	r.resources[id] = data
	return resourceScheme + id, nil
}

const resourceScheme = "x-growl-resource://"

// Info represents a GNTP information line.
type Info struct {
	Version             string
	MessageType         string
	EncryptionAlgorithm EncryptionAlgorithm
	IV                  []byte
	HashAlgorithm       HashAlgorithm
	KeyHash             []byte
	Salt                []byte

	// Cipher is set by SetPassword and ParseInfo.
	Cipher cipher.Block
}

// SetPassword generates a salt, the key hash, and the IV of the Info from
// the specified password. It does nothing if the password is empty.
func (i *Info) SetPassword(password string) error {
	if password == "" {
		return nil
	}
	i.Salt = make([]byte, 16)
	if _, err := rand.Read(i.Salt); err != nil {
		return err
	}
	k, kh, err := i.key(password)
	if err != nil {
		return err
	}
	i.KeyHash = kh
	i.Cipher, err = i.EncryptionAlgorithm.New(k)
	if err != nil || i.Cipher == nil {
		return err
	}
	i.IV = make([]byte, i.Cipher.BlockSize())
	_, err = rand.Read(i.IV)
	return err
}

// key returns the key and the key hash from the password and the salt.
func (i *Info) key(password string) (k, kh []byte, err error) {
	h, err := i.HashAlgorithm.New()
	if err != nil {
		return
	}
	io.WriteString(h, password)
	h.Write(i.Salt)
	k = h.Sum(nil)
	h.Reset()
	h.Write(k)
	kh = h.Sum(nil)
	return
}

// ParseInfo parses a GNTP information line and verifies the key hash by the
// specified password.
//
//	GNTP/<version> <messagetype> <encryptionAlgorithmID>[:<ivValue>][ <keyHashAlgorithmID>:<keyHash>.<salt>]
func ParseInfo(l, password string) (*Info, error) {
	f := strings.Fields(strings.ToUpper(l))
	if len(f) < 3 || len(f) > 4 || f[0] != "GNTP/1.0" {
		return nil, ErrProtocol
	}
	i := &Info{Version: "1.0"}
	// <messagetype>
	switch f[1] {
	case "REGISTER", "NOTIFY", "-OK", "-ERROR":
		i.MessageType = f[1]
	default:
		return nil, ErrProtocol
	}
	// <encryptionAlgorithmID>:<ivValue>
	ea, iv, hasIV := strings.Cut(f[2], ":")
	switch ea {
	case "NONE":
		if hasIV {
			return nil, ErrProtocol
		}
	case "DES", "3DES", "AES":
		if !hasIV {
			return nil, ErrProtocol
		}
		var err error
		if i.IV, err = hex.DecodeString(iv); err != nil {
			return nil, ErrProtocol
		}
		i.EncryptionAlgorithm, _ = ParseEncryptionAlgorithm(ea)
	default:
		return nil, ErrEncryption
	}
	if len(f) == 3 {
		if i.EncryptionAlgorithm != NONE {
			return nil, ErrProtocol
		}
		return i, nil
	}
	// <keyHashAlgorithmID>:<keyHash>.<salt>
	ha, v, ok := strings.Cut(f[3], ":")
	if !ok {
		return nil, ErrProtocol
	}
	var err error
	if i.HashAlgorithm, err = ParseHashAlgorithm(ha); err != nil {
		return nil, err
	}
	kh, salt, ok := strings.Cut(v, ".")
	if !ok {
		return nil, ErrProtocol
	}
	if i.KeyHash, err = hex.DecodeString(kh); err != nil {
		return nil, ErrProtocol
	}
	if i.Salt, err = hex.DecodeString(salt); err != nil {
		return nil, ErrProtocol
	}
	k, e, err := i.key(password)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(i.KeyHash, e) != 1 {
		return nil, ErrPassword
	}
	if i.Cipher, err = i.EncryptionAlgorithm.New(k); err != nil {
		return nil, err
	}
	if i.Cipher != nil && len(i.IV) != i.Cipher.BlockSize() {
		return nil, ErrProtocol
	}
	return i, nil
}

// Decrypt decrypts the specified data and removes the PKCS #7 padding.
func (i *Info) Decrypt(data []byte) ([]byte, error) {
	if i.Cipher == nil {
		return data, nil
	}
	bs := i.Cipher.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, ErrPKCS7
	}
	dst := make([]byte, len(data))
	cipher.NewCBCDecrypter(i.Cipher, i.IV).CryptBlocks(dst, data)
	// PKCS #7 padding
	v := dst[len(dst)-1]
	n := len(dst) - int(v)
	if v == 0 || int(v) > bs || n < 0 {
		return nil, ErrPKCS7
	}
	for _, b := range dst[n:] {
		if b != v {
			return nil, ErrPKCS7
		}
	}
	return dst[:n], nil
}

// Encrypt encrypts the specified data with the PKCS #7 padding.
func (i *Info) Encrypt(data []byte) []byte {
	if i.Cipher == nil {
		return data
	}
	bs := i.Cipher.BlockSize()
	pad := bs - len(data)%bs
	src := make([]byte, len(data)+pad)
	copy(src, data)
	for j := len(data); j < len(src); j++ {
		src[j] = byte(pad)
	}
	dst := make([]byte, len(src))
	cipher.NewCBCEncrypter(i.Cipher, i.IV).CryptBlocks(dst, src)
	return dst
}

func (i *Info) String() string {
	switch {
	case i.Cipher != nil:
		// encrypt
		return fmt.Sprintf("GNTP/1.0 %v %v:%X %v:%X.%X", i.MessageType, i.EncryptionAlgorithm, i.IV, i.HashAlgorithm, i.KeyHash, i.Salt)
	case len(i.KeyHash) != 0:
		// auth
		return fmt.Sprintf("GNTP/1.0 %v NONE %v:%X.%X", i.MessageType, i.HashAlgorithm, i.KeyHash, i.Salt)
	default:
		// plain text
		return fmt.Sprintf("GNTP/1.0 %v NONE", i.MessageType)
	}
}

// Response represents a GNTP response.
type Response struct {
	Action string
	ID     string
	Header textproto.MIMEHeader
}
