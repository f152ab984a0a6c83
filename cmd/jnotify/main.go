//
// jnotify/cmd/jnotify :: main.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

// Command jnotify registers itself with a Growl-compatible notification
// service and sends one notification.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(os.LookupEnv)); err != nil {
		os.Exit(1)
	}
}
