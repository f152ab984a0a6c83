//
// jnotify/desktop :: export_test.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package desktop

func MockNotify(fn func(title, body, icon string) error) func() {
	saveNotify, saveAlert := notifyFunc, alertFunc
	notifyFunc = fn
	alertFunc = func(title, body, icon string) error {
		return fn("alert:"+title, body, icon)
	}
	return func() { notifyFunc, alertFunc = saveNotify, saveAlert }
}
