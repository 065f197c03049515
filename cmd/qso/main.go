// Command qso converts between structured data and query-string text.
//
//	qso encode '{"user":{"name":"ann","langs":["en","de"]}}'
//	qso decode 'user.name=ann&user.langs=en&user.langs=de'
//	qso convert --to msgpack 'a=1&a=2' > params.bin
package main

import (
	"log/slog"
	"os"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to configure logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stderr, level))

	if err := newRootCmd(cfg).Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
