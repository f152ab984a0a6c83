//
// jnotify/gntp :: mock_test.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package gntp_test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/hattya/jnotify/gntp"
	"github.com/hattya/jnotify/internal/util"
)

// Request represents a request received by the Server.
type Request struct {
	Info      *gntp.Info
	Header    []textproto.MIMEHeader
	Resources map[string][]byte
}

type Server struct {
	Addr string

	l  net.Listener
	wg sync.WaitGroup

	mu       sync.Mutex
	password string
	handlers []func(net.Conn, *gntp.Info)
	requests []*Request
	done     chan struct{}
}

func NewServer() *Server {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		panic(err)
	}
	s := &Server{
		Addr: l.Addr().String(),
		l:    l,
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.serve()
	return s
}

func (s *Server) Close() {
	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		return
	default:
		close(s.done)
	}
	s.mu.Unlock()

	s.l.Close()
	s.wg.Wait()
}

func (s *Server) SetPassword(password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.password = password
}

// Requests returns the requests received so far.
func (s *Server) Requests() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*Request(nil), s.requests...)
}

// LastRequest returns the last request received.
func (s *Server) LastRequest() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) OK(conn net.Conn, req *gntp.Info, action string) {
	i := &gntp.Info{
		Version:             "1.0",
		MessageType:         "-OK",
		HashAlgorithm:       req.HashAlgorithm,
		EncryptionAlgorithm: req.EncryptionAlgorithm,
	}
	s.mu.Lock()
	pwd := s.password
	s.mu.Unlock()
	if err := i.SetPassword(pwd); err != nil {
		panic(err)
	}

	fmt.Fprintf(conn, "%v\r\n", i)
	b := new(bytes.Buffer)
	fmt.Fprintf(b, "Response-Action: %v\r\n", strings.ToUpper(action))
	b.WriteString("Notification-ID: 1\r\n")
	if i.Cipher != nil {
		conn.Write(i.Encrypt(b.Bytes()))
		io.WriteString(conn, "\r\n\r\n")
	} else {
		conn.Write(b.Bytes())
		io.WriteString(conn, "\r\n")
	}
}

func (s *Server) Error(conn net.Conn, code gntp.ErrorCode) {
	io.WriteString(conn, "GNTP/1.0 -ERROR NONE\r\n")
	fmt.Fprintf(conn, "Error-Code: %v\r\n", int(code))
	fmt.Fprintf(conn, "Error-Description: %v\r\n", code.Description())
	io.WriteString(conn, "\r\n")
}

func (s *Server) MockOK(action string) {
	s.MockResponse(func(conn net.Conn, i *gntp.Info) {
		s.OK(conn, i, action)
	})
}

func (s *Server) MockError(code gntp.ErrorCode) {
	s.MockResponse(func(conn net.Conn, _ *gntp.Info) {
		s.Error(conn, code)
	})
}

func (s *Server) MockResponse(handler func(net.Conn, *gntp.Info)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers = append(s.handlers, handler)
}

func (s *Server) serve() {
	defer s.wg.Done()

	for {
		conn, err := s.l.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				panic(err)
			}
		}

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	br := bufio.NewReader(conn)
	// GNTP information
	l, err := br.ReadString('\n')
	if err != nil {
		return
	}
	s.mu.Lock()
	pwd := s.password
	s.mu.Unlock()
	i, err := gntp.ParseInfo(strings.TrimRight(l, "\r\n"), pwd)
	if err != nil {
		s.Error(conn, gntp.UnknownProtocol)
		return
	}
	req := &Request{
		Info:      i,
		Resources: make(map[string][]byte),
	}
	// headers
	r := textproto.NewReader(br)
	if i.Cipher != nil {
		b, err := util.ReadBlocks(br, i.Cipher.BlockSize(), []byte("\r\n\r\n"), i.Decrypt)
		if err != nil {
			panic(err)
		}
		b = append(b, "\r\n"...)
		req.Header = s.headers(i, textproto.NewReader(bufio.NewReader(bytes.NewReader(b))))
	} else {
		req.Header = s.headers(i, r)
	}
	// resources
	for range s.numResources(req.Header) {
		hdr, err := r.ReadMIMEHeader()
		if err != nil {
			panic(err)
		}
		n, err := strconv.Atoi(hdr.Get("Length"))
		if err != nil {
			panic(err)
		}
		data := make([]byte, n)
		if _, err := io.ReadFull(br, data); err != nil {
			panic(err)
		}
		if data, err = i.Decrypt(data); err != nil {
			panic(err)
		}
		req.Resources[hdr.Get("Identifier")] = data
		s.crlf(br)
		s.crlf(br)
	}
	s.crlf(br)

	// auth
	if pwd != "" && i.KeyHash == nil {
		s.Error(conn, gntp.NotAuthorized)
		return
	}
	// response
	s.mu.Lock()
	s.requests = append(s.requests, req)
	var handler func(net.Conn, *gntp.Info)
	if len(s.handlers) != 0 {
		handler = s.handlers[0]
		s.handlers = s.handlers[1:]
	}
	s.mu.Unlock()
	if handler != nil {
		handler(conn, i)
	} else {
		s.Error(conn, gntp.InternalServerError)
	}
}

func (s *Server) headers(i *gntp.Info, r *textproto.Reader) []textproto.MIMEHeader {
	hdr, err := r.ReadMIMEHeader()
	if err != nil {
		panic(err)
	}
	list := []textproto.MIMEHeader{hdr}
	if i.MessageType == "REGISTER" {
		n, err := strconv.Atoi(hdr.Get("Notifications-Count"))
		if err != nil {
			panic(err)
		}
		for ; n > 0; n-- {
			hdr, err := r.ReadMIMEHeader()
			if err != nil {
				panic(err)
			}
			list = append(list, hdr)
		}
	}
	return list
}

func (s *Server) numResources(list []textproto.MIMEHeader) int {
	ids := make(map[string]struct{})
	for _, hdr := range list {
		for _, v := range hdr {
			for _, v := range v {
				if strings.HasPrefix(v, "x-growl-resource://") {
					ids[v[19:]] = struct{}{}
				}
			}
		}
	}
	return len(ids)
}

func (s *Server) crlf(r *bufio.Reader) {
	b, err := r.ReadBytes('\n')
	switch {
	case err != nil:
		panic(err)
	case len(b) != 2 || b[0] != '\r':
		panic("expected CRLF")
	}
}
