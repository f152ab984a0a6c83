//
// jnotify/cmd/jnotify :: root.go
//
//   Copyright (c) 2017-2026 Akinori Hattori <hattya@gmail.com>
//
//   SPDX-License-Identifier: MIT
//

package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/hattya/jnotify"
	"github.com/hattya/jnotify/internal/backend"
	"github.com/hattya/jnotify/internal/config"
	"github.com/hattya/jnotify/internal/driver"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func newRootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	var path string
	var over config.Config
	cmd := &cobra.Command{
		Use:   "jnotify",
		Short: "Send a notification to Growl.",
		Long: `jnotify registers the "jnotify" application with a Growl-compatible
notification service and sends one notification.

A failed notification is reported to stderr, and jnotify still exits
successfully.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			cfg.ApplyEnv(lookupEnv)
			flags := cmd.Flags()
			for name, p := range map[string][2]*string{
				"backend":   {&cfg.Backend, &over.Backend},
				"server":    {&cfg.Server, &over.Server},
				"password":  {&cfg.Password, &over.Password},
				"log-level": {&cfg.LogLevel, &over.LogLevel},
			} {
				if flags.Changed(name) {
					*p[0] = *p[1]
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, _ := cfg.Level()
			setLogger(cmd.ErrOrStderr(), level)
			slog.Debug("config", "backend", cfg.Backend, "server", cfg.Server, "ignored", args)

			driver.Run(func(app *notify.Application) (notify.Notifier, error) {
				return backend.New(cfg, app)
			}, cmd.ErrOrStderr())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&path, "config", "c", "", "configuration file (.toml, .yaml)")
	flags.StringVarP(&over.Backend, "backend", "b", "", "notification backend (gntp, udp, freedesktop, desktop)")
	flags.StringVarP(&over.Server, "server", "s", "", "address of the notification server")
	flags.StringVarP(&over.Password, "password", "p", "", "password of the notification server")
	flags.StringVar(&over.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

func setLogger(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}
