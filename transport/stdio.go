package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/codersgyan/lms-mcp/protocol"
)

// DefaultMaxLineSize bounds a single framed message read from stdin.
const DefaultMaxLineSize = 4 << 20

// Stdio implements MCP transport over stdin/stdout. Messages are read one
// line at a time and each is handled to completion before the next.
type Stdio struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	maxLine int

	mu sync.Mutex
}

// StdioOption configures a Stdio transport.
type StdioOption func(*Stdio)

// WithStdin sets a custom stdin reader.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.errOut = w
	}
}

// WithMaxLineSize sets the largest message the transport will read.
func WithMaxLineSize(n int) StdioOption {
	return func(s *Stdio) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

// NewStdio creates a new stdio transport.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		maxLine: DefaultMaxLineSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Addr returns the transport address.
func (s *Stdio) Addr() string {
	return "stdio"
}

// Serve processes requests from stdin until EOF (returning nil), ctx is
// canceled (returning ctx.Err()) or reading fails. A line longer than the
// maximum size is discarded and answered with an invalid request error.
func (s *Stdio) Serve(ctx context.Context, handler Handler) error {
	r := bufio.NewReaderSize(s.in, min(64*1024, s.maxLine))

	frames := make(chan frame)
	readErr := make(chan error, 1)

	go func() {
		defer close(frames)
		for {
			f, err := s.readFrame(r)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
			select {
			case frames <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f, ok := <-frames:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read stdin: %w", err)
				default:
					return nil // EOF
				}
			}
			if f.oversize {
				s.write(encode(protocol.NewErrorResponse(nil, protocol.NewInvalidRequest(
					fmt.Sprintf("message exceeds %d bytes", s.maxLine)))))
				continue
			}
			s.handleLine(ctx, handler, f.line)
		}
	}
}

type frame struct {
	line     []byte
	oversize bool
}

// readFrame reads up to the next newline. Content past maxLine is dropped
// and the frame is marked oversize. A final unterminated line is returned
// before io.EOF.
func (s *Stdio) readFrame(r *bufio.Reader) (frame, error) {
	var f frame
	read := false
	for {
		chunk, err := r.ReadSlice('\n')
		read = read || len(chunk) > 0
		if !f.oversize {
			f.line = append(f.line, chunk...)
			if len(bytes.TrimRight(f.line, "\r\n")) > s.maxLine {
				f.line, f.oversize = nil, true
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err != nil:
			if errors.Is(err, io.EOF) && read {
				f.line = dropLineEnd(f.line)
				return f, nil
			}
			return frame{}, err
		default:
			f.line = dropLineEnd(f.line)
			return f, nil
		}
	}
}

func dropLineEnd(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

func (s *Stdio) handleLine(ctx context.Context, handler Handler, line []byte) {
	out := HandleMessage(ctx, handler, line)
	if out == nil {
		return
	}
	s.write(out)
}

func (s *Stdio) write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data = append(data, '\n')
	if _, err := s.out.Write(data); err != nil {
		fmt.Fprintf(s.errOut, "stdio: write response: %v\n", err)
	}
}
