package main

import (
	"io"
	"log/slog"
	"time"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Addr         string        `default:":8787" help:"Address the HTTP API listens on"`
	ProbeTimeout time.Duration `default:"0" help:"Timeout for each discovery request (0 disables)"`
	RPS          float64       `name:"rps" default:"0" help:"Requests per second per host (0 disables)"`
	Concurrency  int           `short:"c" default:"4" help:"Concurrent child sitemap downloads"`
	LogLevel     string        `enum:"debug,info,warn,error" default:"info" help:"Log level (debug, info, warn, error)"`
	LogFormat    string        `enum:"text,json" default:"text" help:"Log format (text, json)"`
}

// newLogger builds the process logger from the CLI flags.
func (c *CLI) newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
