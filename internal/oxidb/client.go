// Package oxidb is a minimal client for oxidb-server, covering the commands
// the submission store needs.
//
// Wire format: every frame is a 4-byte little-endian length followed by a
// JSON payload. Replies are {"ok": true, "data": ...} or
// {"ok": false, "error": "..."}.
package oxidb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Error is a failure reported by the server.
type Error struct {
	Cmd string
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("oxidb: %s: %s", e.Cmd, e.Msg)
}

// Client is one TCP connection. Requests are serialized by a mutex.
type Client struct {
	conn net.Conn
	mu   sync.Mutex
}

// Connect dials host:port with the given timeout.
func Connect(host string, port int, timeout time.Duration) (*Client, error) {
	addr := net.JoinHostPort(host, fmt.Sprint(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("oxidb: connect to %s: %w", addr, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func writeFrame(w io.Writer, payload []byte) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("oxidb: read length: %w", err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(hdr[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("oxidb: read payload: %w", err)
	}
	return payload, nil
}

type reply struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// do sends one command and returns the raw data of a successful reply.
// The context deadline, if any, bounds the whole round trip.
func (c *Client) do(ctx context.Context, cmd map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("oxidb: marshal request: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("oxidb: set deadline: %w", err)
	}
	if err := writeFrame(c.conn, body); err != nil {
		return nil, fmt.Errorf("oxidb: send: %w", err)
	}
	raw, err := readFrame(c.conn)
	if err != nil {
		return nil, err
	}

	var rep reply
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("oxidb: unmarshal response: %w", err)
	}
	if !rep.OK {
		name, _ := cmd["cmd"].(string)
		if rep.Error == "" {
			rep.Error = "unknown error"
		}
		return nil, &Error{Cmd: name, Msg: rep.Error}
	}
	return rep.Data, nil
}

// Ping returns "pong" from a healthy server.
func (c *Client) Ping(ctx context.Context) (string, error) {
	data, err := c.do(ctx, map[string]any{"cmd": "ping"})
	if err != nil {
		return "", err
	}
	var s string
	_ = json.Unmarshal(data, &s)
	return s, nil
}

func (c *Client) CreateCollection(ctx context.Context, name string) error {
	_, err := c.do(ctx, map[string]any{"cmd": "create_collection", "collection": name})
	return err
}

func (c *Client) CreateIndex(ctx context.Context, collection, field string) error {
	_, err := c.do(ctx, map[string]any{"cmd": "create_index", "collection": collection, "field": field})
	return err
}

// Insert stores one document.
func (c *Client) Insert(ctx context.Context, collection string, doc map[string]any) error {
	_, err := c.do(ctx, map[string]any{"cmd": "insert", "collection": collection, "doc": doc})
	return err
}

// FindOptions narrows a Find call. Nil fields are not sent.
type FindOptions struct {
	Sort map[string]any
}

// Find returns the documents matching query. Numbers decode as json.Number.
func (c *Client) Find(ctx context.Context, collection string, query map[string]any, opts *FindOptions) ([]map[string]any, error) {
	cmd := map[string]any{"cmd": "find", "collection": collection, "query": query}
	if opts != nil {
		if opts.Sort != nil {
			cmd["sort"] = opts.Sort
		}
	}
	data, err := c.do(ctx, cmd)
	if err != nil {
		return nil, err
	}
	var docs []map[string]any
	if len(data) > 0 && string(data) != "null" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&docs); err != nil {
			return nil, fmt.Errorf("oxidb: decode find result: %w", err)
		}
	}
	return docs, nil
}

// Count returns the number of documents matching query.
func (c *Client) Count(ctx context.Context, collection string, query map[string]any) (int, error) {
	data, err := c.do(ctx, map[string]any{"cmd": "count", "collection": collection, "query": query})
	if err != nil {
		return 0, err
	}
	var res struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return 0, fmt.Errorf("oxidb: decode count: %w", err)
	}
	return res.Count, nil
}
