package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
)

// Writer sends GELF messages over UDP. Each Write call carries one JSON log
// entry as produced by zap's JSON encoder and becomes one GELF message.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// syslog severities used by GELF.
var levels = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  2,
}

// Message converts one zap JSON entry to a GELF 1.1 payload. Lines that are
// not JSON are sent verbatim as the short message.
func (w *Writer) Message(line []byte) map[string]any {
	msg := map[string]any{
		"version":  "1.1",
		"host":     w.hostname,
		"level":    6,
		"_service": w.service,
	}
	var entry map[string]any
	if err := json.Unmarshal(line, &entry); err != nil {
		msg["short_message"] = strings.TrimRight(string(line), "\n")
		return msg
	}
	for k, v := range entry {
		switch k {
		case "msg":
			msg["short_message"] = v
		case "ts":
			msg["timestamp"] = v
		case "level":
			if s, ok := v.(string); ok {
				if lvl, known := levels[s]; known {
					msg["level"] = lvl
				}
			}
		case "id":
			// "_id" is reserved in GELF.
			msg["_record_id"] = v
		default:
			msg["_"+k] = v
		}
	}
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = "-"
	}
	return msg
}

// Write implements io.Writer. Delivery is fire-and-forget: a failed send
// never fails the log call.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.Message(p))
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer.
func (w *Writer) Sync() error {
	return nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}
