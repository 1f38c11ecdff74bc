// Copyright 2026 The Nit Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package nitlog builds the driver's structured logger, controlled by the
// NIT_LOG and NIT_LOG_STYLE environment variables.
package nitlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Timmmm/nit/private/nit/nitapp"
)

// Style selects the handler used to render log records.
type Style int

const (
	// StyleConsole is a terse, single-line-per-record handler for
	// interactive use.
	StyleConsole Style = iota
	// StyleJSON emits one JSON object per record, for machine
	// consumption.
	StyleJSON
)

// New builds a logger writing to w at the given level and style.
func New(w io.Writer, level slog.Level, style Style) *slog.Logger {
	var handler slog.Handler
	switch style {
	case StyleJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		handler = newConsoleHandler(w, level)
	}
	return slog.New(handler)
}

// LevelFromEnv resolves NIT_LOG (debug|info|warn|error, default info) to a
// slog.Level. quiet lowers the default to warn, matching the driver's
// "-q" behavior.
func LevelFromEnv(env nitapp.EnvContainer, quiet bool) slog.Level {
	switch strings.ToLower(env.Env("NIT_LOG")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		if quiet {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
}

// StyleFromEnv resolves NIT_LOG_STYLE (console|json, default console).
func StyleFromEnv(env nitapp.EnvContainer) Style {
	if strings.EqualFold(env.Env("NIT_LOG_STYLE"), "json") {
		return StyleJSON
	}
	return StyleConsole
}

// consoleHandler renders one line per record: "LEVEL message key=value ...".
// It intentionally skips timestamps and source location, matching the
// teacher's terse interactive console format rather than a full structured
// dump.
type consoleHandler struct {
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func newConsoleHandler(w io.Writer, level slog.Level) *consoleHandler {
	return &consoleHandler{w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(levelTag(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})
	sb.WriteByte('\n')
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{w: h.w, level: h.level, attrs: append(append([]slog.Attr{}, h.attrs...), attrs...)}
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	// Groups aren't needed for this driver's flat attribute set.
	return h
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	default:
		return "DEBUG"
	}
}
