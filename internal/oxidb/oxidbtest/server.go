// Package oxidbtest runs an in-memory stand-in for oxidb-server that speaks
// the same framing and understands the commands the oxidb client sends.
package oxidbtest

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sort"
	"sync"
	"testing"
)

type Server struct {
	ln net.Listener

	mu          sync.Mutex
	collections map[string][]map[string]any
	failNext    string
	wg          sync.WaitGroup
}

// NewServer listens on a loopback port and stops when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("oxidbtest: listen: %v", err)
	}
	s := &Server{ln: ln, collections: map[string][]map[string]any{}}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Host() string {
	return s.ln.Addr().(*net.TCPAddr).IP.String()
}

func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// FailNext makes the next command reply with an error message.
func (s *Server) FailNext(msg string) {
	s.mu.Lock()
	s.failNext = msg
	s.mu.Unlock()
}

// Docs returns a copy of a collection's documents in insertion order.
func (s *Server) Docs(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.collections[collection]...)
}

func (s *Server) Close() {
	s.ln.Close()
	s.wg.Wait()
}

func (s *Server) serve() {
	defer s.wg.Done()
	var conns sync.WaitGroup
	var open []net.Conn
	defer func() {
		for _, c := range open {
			c.Close()
		}
		conns.Wait()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		open = append(open, conn)
		conns.Add(1)
		go func() {
			defer conns.Done()
			defer conn.Close()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	for {
		var hdr [4]byte
		if _, err := io.ReadFull(conn, hdr[:]); err != nil {
			return
		}
		body := make([]byte, binary.LittleEndian.Uint32(hdr[:]))
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}
		var cmd map[string]any
		var rep map[string]any
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&cmd); err != nil {
			rep = map[string]any{"ok": false, "error": err.Error()}
		} else if data, err := s.exec(cmd); err != nil {
			rep = map[string]any{"ok": false, "error": err.Error()}
		} else {
			rep = map[string]any{"ok": true, "data": data}
		}
		out, _ := json.Marshal(rep)
		binary.LittleEndian.PutUint32(hdr[:], uint32(len(out)))
		if _, err := conn.Write(append(hdr[:], out...)); err != nil {
			return
		}
	}
}

func (s *Server) exec(cmd map[string]any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != "" {
		msg := s.failNext
		s.failNext = ""
		return nil, errors.New(msg)
	}
	coll, _ := cmd["collection"].(string)
	switch cmd["cmd"] {
	case "ping":
		return "pong", nil
	case "create_collection", "create_index":
		if _, ok := s.collections[coll]; !ok {
			s.collections[coll] = nil
		}
		return "ok", nil
	case "insert":
		doc, _ := cmd["doc"].(map[string]any)
		s.collections[coll] = append(s.collections[coll], doc)
		return map[string]any{"id": len(s.collections[coll])}, nil
	case "count":
		return map[string]any{"count": len(s.collections[coll])}, nil
	case "find":
		docs := append([]map[string]any(nil), s.collections[coll]...)
		if by, ok := cmd["sort"].(map[string]any); ok {
			for field, dir := range by {
				desc := number(dir) < 0
				sort.SliceStable(docs, func(i, j int) bool {
					a := number(docs[i][field])
					b := number(docs[j][field])
					if desc {
						return a > b
					}
					return a < b
				})
			}
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("unknown command %v", cmd["cmd"])
	}
}

func number(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	}
	return 0
}
