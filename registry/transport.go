package registry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxMessageSize bounds one JSON-RPC message on every transport.
const maxMessageSize = 4 << 20

// ServeStream reads one request per line from in and writes one response
// line per request to out. Blank lines and notifications get no reply. It
// returns when in is exhausted or ctx is done. On cancellation in is closed
// if it is an io.Closer so the reading goroutine can exit.
func ServeStream(ctx context.Context, r *Registry, in io.Reader, out io.Writer) error {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go scanLines(ctx, in, lines, scanErr)

	stop := func() error {
		if c, ok := in.(io.Closer); ok {
			_ = c.Close()
		}
		return ctx.Err()
	}

	encoder := json.NewEncoder(out)
	for {
		if ctx.Err() != nil {
			return stop()
		}

		select {
		case <-ctx.Done():
			return stop()
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					if ctx.Err() != nil {
						return stop()
					}
					return fmt.Errorf("read request: %w", err)
				}
				return nil
			}
			if ctx.Err() != nil {
				return stop()
			}

			resp, reply := r.handleMessage(ctx, line)
			if !reply {
				continue
			}
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// scanLines sends every non-blank line of in on lines, then the scanner's
// error on errc, then closes lines.
func scanLines(ctx context.Context, in io.Reader, lines chan<- []byte, errc chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		select {
		case lines <- bytes.Clone(line):
		case <-ctx.Done():
			errc <- ctx.Err()
			return
		}
	}
	errc <- scanner.Err()
}

// ServeHTTP answers one JSON-RPC request per POST with a JSON body.
func ServeHTTP(r *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, ok := readBody(w, req)
		if !ok {
			return
		}

		resp, reply := r.handleMessage(req.Context(), body)
		if !reply {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

// ServeSSE answers one JSON-RPC request per POST as a single server-sent
// "message" event. Parse failures are sent as an "error" event.
func ServeSSE(r *Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, ok := readBody(w, req)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		resp, reply := r.handleMessage(req.Context(), body)
		if !reply {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		event := "message"
		if resp.Error != nil && resp.Error.Code == ErrCodeParseError {
			event = "error"
		}
		writeSSEEvent(w, flusher, event, resp)
	})
}

// handleMessage decodes and dispatches one message. reply is false for
// notifications.
func (r *Registry) handleMessage(ctx context.Context, data []byte) (MCPResponse, bool) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.logger.Debug("malformed request", zap.Error(err))
		return errorResponse(nil, &MCPError{Code: ErrCodeParseError, Message: err.Error()}), true
	}
	if isNotification(req) {
		return MCPResponse{}, false
	}
	return r.HandleRequest(ctx, req), true
}

func readBody(w http.ResponseWriter, req *http.Request) ([]byte, bool) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxMessageSize))
	if err != nil {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return body, true
}

func isNotification(req MCPRequest) bool {
	return req.ID == nil && strings.HasPrefix(req.Method, "notifications/")
}

func writeSSEEvent(w io.Writer, f http.Flusher, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return
	}
	f.Flush()
}
