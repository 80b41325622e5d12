// Package gelf ships log lines to a Graylog-compatible collector over
// UDP. The Writer implements io.Writer so it plugs into the standard
// log package through log.SetOutput(io.MultiWriter(os.Stderr, w)).
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

type Writer struct {
	conn     net.Conn
	hostname string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "formhive-server"
	}

	return &Writer{conn: conn, hostname: hostname}, nil
}

// Write sends one GELF message per call. The standard log package
// writes lines like "2026/02/19 18:43:52 message\n"; the date prefix
// and trailing newline are stripped for a clean short_message.
func (w *Writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")

	// Go log date/time prefix is exactly 20 characters when present.
	short := msg
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		short = msg[20:]
	}

	payload, err := json.Marshal(map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         level(short),
		"_service":      "formhive",
	})
	if err != nil {
		return len(p), nil // never fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

// level maps syslog severities from the message text the way the
// standard log package conventions surface them.
func level(msg string) int {
	switch {
	case strings.Contains(msg, "PANIC:") || strings.Contains(msg, "Fatal"):
		return 3 // Error
	case strings.HasPrefix(msg, "Warning:"):
		return 4 // Warning
	default:
		return 6 // Informational
	}
}
