package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/codersgyan/lms-mcp/protocol"
	"github.com/codersgyan/lms-mcp/transport"
)

// ErrClosed is returned by Send after the transport is closed or the
// server stopped producing output.
var ErrClosed = errors.New("transport closed")

// StreamTransport speaks newline delimited JSON-RPC over a reader and a
// writer, matching responses to callers by id.
type StreamTransport struct {
	w io.WriteCloser

	writeMu sync.Mutex

	mu       sync.Mutex
	respChan map[int64]chan *Response
	closed   bool

	done    chan struct{}
	readErr error
}

// NewStreamTransport starts reading responses from r. Requests are written
// to w, which is closed by Close.
func NewStreamTransport(r io.Reader, w io.WriteCloser) *StreamTransport {
	t := &StreamTransport{
		w:        w,
		respChan: make(map[int64]chan *Response),
		done:     make(chan struct{}),
	}
	go t.readResponses(r)
	return t
}

// Send sends a request and waits for its response.
func (t *StreamTransport) Send(ctx context.Context, req *protocol.Request) (*Response, error) {
	id, err := strconv.ParseInt(string(req.ID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid request ID %s: %w", req.ID, err)
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}
	respCh := make(chan *Response, 1)
	t.respChan[id] = respCh
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.respChan, id)
		t.mu.Unlock()
	}()

	if err := t.write(req); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-respCh:
		return resp, nil
	case <-t.done:
		if t.readErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrClosed, t.readErr)
		}
		return nil, ErrClosed
	}
}

// Notify sends a notification.
func (t *StreamTransport) Notify(ctx context.Context, req *protocol.Request) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return t.write(req)
}

func (t *StreamTransport) write(req *protocol.Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

// Close closes the request stream, which signals EOF to the server.
func (t *StreamTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	return t.w.Close()
}

// Done is closed once the response stream ends.
func (t *StreamTransport) Done() <-chan struct{} {
	return t.done
}

func (t *StreamTransport) readResponses(r io.Reader) {
	defer close(t.done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), transport.DefaultMaxLineSize)
	for scanner.Scan() {
		var resp Response
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			continue
		}

		id, err := strconv.ParseInt(string(resp.ID), 10, 64)
		if err != nil {
			continue // null id: a parse error we cannot attribute
		}

		t.mu.Lock()
		if ch, ok := t.respChan[id]; ok {
			ch <- &resp
		}
		t.mu.Unlock()
	}
	t.readErr = scanner.Err()
}

// CommandTransport runs an MCP server as a subprocess and talks to it over
// its stdin and stdout.
type CommandTransport struct {
	*StreamTransport

	cmd    *exec.Cmd
	stderr io.ReadCloser
}

// NewCommandTransport starts command and connects to its stdio.
func NewCommandTransport(command string, args ...string) (*CommandTransport, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start command: %w", err)
	}

	return &CommandTransport{
		StreamTransport: NewStreamTransport(stdout, stdin),
		cmd:             cmd,
		stderr:          stderr,
	}, nil
}

// Close closes stdin, waits for the server to finish writing and reaps
// the process.
func (t *CommandTransport) Close() error {
	if err := t.StreamTransport.Close(); err != nil {
		return err
	}
	<-t.done

	// the server should exit on EOF; kill covers one that does not
	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	err := t.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !exitErr.Exited() {
		return nil // killed after EOF
	}
	return err
}

// Stderr returns the stderr reader for the subprocess.
func (t *CommandTransport) Stderr() io.Reader {
	return t.stderr
}
