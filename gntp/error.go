//
// jnotify/gntp :: error.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package gntp

import (
	"fmt"
	"net/textproto"

	"github.com/hattya/jnotify"
)

// ErrorCode represents an Error-Code value.
type ErrorCode int

// List of Error-Code values.
const (
	TimedOut               ErrorCode = 200
	NetworkFailure         ErrorCode = 201
	InvalidRequest         ErrorCode = 300
	UnknownProtocol        ErrorCode = 301
	UnknownProtocolVersion ErrorCode = 302
	RequiredHeaderMissing  ErrorCode = 303
	NotAuthorized          ErrorCode = 400
	UnknownApplication     ErrorCode = 401
	UnknownNotification    ErrorCode = 402
	AlreadyProcessed       ErrorCode = 403
	NotificationDisabled   ErrorCode = 404
	InternalServerError    ErrorCode = 500
)

// Description returns the Error-Description of the Error-Code. It returns
// the empty string if the code is unknown.
func (code ErrorCode) Description() string {
	return errorDescription[code]
}

var errorDescription = map[ErrorCode]string{
	TimedOut:               "Timed Out",
	NetworkFailure:         "Network Failure",
	InvalidRequest:         "Invalid Request",
	UnknownProtocol:        "Unknown Protocol",
	UnknownProtocolVersion: "Unknown Protocol Version",
	RequiredHeaderMissing:  "Required Header Missing",
	NotAuthorized:          "Not Authorized",
	UnknownApplication:     "Unknown Application",
	UnknownNotification:    "Unknown Notification",
	AlreadyProcessed:       "Already Processed",
	NotificationDisabled:   "Notification Disabled",
	InternalServerError:    "Internal Server Error",
}

// Error represents a GNTP error response.
type Error struct {
	Code        ErrorCode
	Description string
	Header      textproto.MIMEHeader
}

func (e Error) Error() string {
	d := e.Description
	if d == "" {
		if d = e.Code.Description(); d == "" {
			return fmt.Sprintf("gntp: error %d", int(e.Code))
		}
	}
	return fmt.Sprintf("gntp: %v (%d)", d, int(e.Code))
}

// Is reports whether the Error corresponds to the target error of package
// notify.
func (e Error) Is(target error) bool {
	switch target {
	case notify.ErrNotification:
		return e.Code == UnknownNotification
	case notify.ErrNotRegistered:
		return e.Code == UnknownApplication
	}
	return false
}
