// Package e2e provides end-to-end compliance tests for the LMS server.
//
// Each test drives a live stdio transport through pipes, one line per
// message, the way an MCP host talks to a spawned server process.
package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	mcp "github.com/codersgyan/lms-mcp"
	"github.com/codersgyan/lms-mcp/lms"
	"github.com/codersgyan/lms-mcp/protocol"
)

var fixedNow = time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)

// session is a client connected to a running server.
type session struct {
	t    *testing.T
	in   *io.PipeWriter
	out  *bufio.Reader
	done chan error
}

func start(t *testing.T, opts ...mcp.Option) *session {
	t.Helper()

	srv, err := mcp.NewServer(append([]mcp.Option{mcp.WithClock(func() time.Time { return fixedNow })}, opts...)...)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{t: t, in: inW, out: bufio.NewReader(outR), done: make(chan error, 1)}

	go func() {
		err := mcp.ServeStdio(ctx, srv, mcp.WithStdin(inR), mcp.WithStdout(outW), mcp.WithStderr(io.Discard))
		outW.Close()
		s.done <- err
	}()

	t.Cleanup(func() {
		inW.Close()
		cancel()
		select {
		case <-s.done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return s
}

func (s *session) send(line string) {
	s.t.Helper()
	if _, err := io.WriteString(s.in, line+"\n"); err != nil {
		s.t.Fatalf("write: %v", err)
	}
}

func (s *session) receive() map[string]any {
	s.t.Helper()

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := s.out.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			s.t.Fatalf("read: %v", r.err)
		}
		var resp map[string]any
		if err := json.Unmarshal([]byte(r.line), &resp); err != nil {
			s.t.Fatalf("response %q is not JSON: %v", r.line, err)
		}
		if resp["jsonrpc"] != "2.0" {
			s.t.Errorf("jsonrpc = %v", resp["jsonrpc"])
		}
		return resp
	case <-time.After(5 * time.Second):
		s.t.Fatal("timed out waiting for response")
		return nil
	}
}

func (s *session) roundTrip(line string) map[string]any {
	s.t.Helper()
	s.send(line)
	return s.receive()
}

func (s *session) initialize() map[string]any {
	s.t.Helper()
	resp := s.roundTrip(`{"jsonrpc":"2.0","id":0,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"e2e","version":"1.0.0"}}}`)
	s.send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	return resp
}

func result(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	r, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("response has no result object: %v", resp)
	}
	return r
}

func errorCode(t *testing.T, resp map[string]any) int {
	t.Helper()
	e, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error: %v", resp)
	}
	return int(e["code"].(float64))
}

func TestCompliance_Initialize(t *testing.T) {
	s := start(t)
	r := result(t, s.initialize())

	if r["protocolVersion"] != protocol.MCPVersion {
		t.Errorf("protocolVersion = %v", r["protocolVersion"])
	}
	wantInfo := map[string]any{"name": "codersgyan", "title": "Coders Gyan LMS", "version": "1.0.0"}
	if diff := cmp.Diff(wantInfo, r["serverInfo"]); diff != "" {
		t.Errorf("serverInfo mismatch (-want +got):\n%s", diff)
	}
	caps, _ := r["capabilities"].(map[string]any)
	for _, k := range []string{"tools", "resources", "prompts"} {
		if _, ok := caps[k]; !ok {
			t.Errorf("capability %q missing", k)
		}
	}
}

func TestCompliance_Discovery(t *testing.T) {
	s := start(t)
	s.initialize()

	tools := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))["tools"].([]any)
	if len(tools) != 1 || tools[0].(map[string]any)["name"] != lms.StudentsToolName {
		t.Errorf("tools = %v", tools)
	}

	resources := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":2,"method":"resources/list"}`))["resources"].([]any)
	if len(resources) != 1 || resources[0].(map[string]any)["uri"] != lms.RefundPolicyURI {
		t.Errorf("resources = %v", resources)
	}

	templates := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":3,"method":"resources/templates/list"}`))["resourceTemplates"].([]any)
	if len(templates) != 0 {
		t.Errorf("resourceTemplates = %v, want none", templates)
	}

	prompts := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":4,"method":"prompts/list"}`))["prompts"].([]any)
	var names []string
	for _, p := range prompts {
		names = append(names, p.(map[string]any)["name"].(string))
	}
	if diff := cmp.Diff([]string{lms.GreetingPromptName, lms.StudentListPromptName}, names); diff != "" {
		t.Errorf("prompt names mismatch (-want +got):\n%s", diff)
	}
}

func TestCompliance_Invocations(t *testing.T) {
	s := start(t)
	s.initialize()

	t.Run("refund policy", func(t *testing.T) {
		r := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"https://codersgyan.com/refund-policy"}}`))
		want := []any{map[string]any{"uri": lms.RefundPolicyURI, "mimeType": "text/plain", "text": lms.RefundPolicy}}
		if diff := cmp.Diff(want, r["contents"]); diff != "" {
			t.Errorf("contents mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("student list prompt", func(t *testing.T) {
		r := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":2,"method":"prompts/get","params":{"name":"student_list","arguments":{"limit":"5"}}}`))
		want := []any{map[string]any{
			"role":    "user",
			"content": map[string]any{"type": "text", "text": "Give me the list of enrolled students in LMS. Give only 5 students."},
		}}
		if diff := cmp.Diff(want, r["messages"]); diff != "" {
			t.Errorf("messages mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("students tool", func(t *testing.T) {
		r := result(t, s.roundTrip(`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_all_students","arguments":{"limit":3}}}`))
		content := r["content"].([]any)
		text := content[0].(map[string]any)["text"].(string)

		var got []lms.Student
		if err := json.Unmarshal([]byte(text), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(lms.Students(fixedNow)[:3], got); diff != "" {
			t.Errorf("students mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCompliance_Errors(t *testing.T) {
	s := start(t)
	s.initialize()

	tests := []struct {
		name string
		line string
		code int
	}{
		{name: "unknown method", line: `{"jsonrpc":"2.0","id":1,"method":"logging/setLevel"}`, code: protocol.CodeMethodNotFound},
		{name: "unknown tool", line: `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_all_courses"}}`, code: protocol.CodeNotFound},
		{name: "unknown prompt", line: `{"jsonrpc":"2.0","id":3,"method":"prompts/get","params":{"name":"farewell"}}`, code: protocol.CodeNotFound},
		{name: "unknown resource", line: `{"jsonrpc":"2.0","id":4,"method":"resources/read","params":{"uri":"https://codersgyan.com/terms"}}`, code: protocol.CodeNotFound},
		{name: "missing prompt argument", line: `{"jsonrpc":"2.0","id":5,"method":"prompts/get","params":{"name":"greeting-example"}}`, code: protocol.CodeInvalidParams},
		{name: "negative limit", line: `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"get_all_students","arguments":{"limit":-1}}}`, code: protocol.CodeInvalidParams},
		{name: "wrong jsonrpc version", line: `{"jsonrpc":"1.0","id":7,"method":"ping"}`, code: protocol.CodeInvalidRequest},
		{name: "missing method", line: `{"jsonrpc":"2.0","id":8}`, code: protocol.CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorCode(t, s.roundTrip(tt.line)); got != tt.code {
				t.Errorf("code = %d, want %d", got, tt.code)
			}
		})
	}

	t.Run("still serving", func(t *testing.T) {
		result(t, s.roundTrip(`{"jsonrpc":"2.0","id":99,"method":"ping"}`))
	})
}

func TestCompliance_JSONRPC(t *testing.T) {
	s := start(t)

	t.Run("parse error has null id", func(t *testing.T) {
		resp := s.roundTrip(`{not json`)
		if errorCode(t, resp) != protocol.CodeParseError {
			t.Errorf("response = %v", resp)
		}
		if id, ok := resp["id"]; !ok || id != nil {
			t.Errorf("id = %v, want null", resp["id"])
		}
	})

	t.Run("string id echoed", func(t *testing.T) {
		resp := s.roundTrip(`{"jsonrpc":"2.0","id":"req-1","method":"ping"}`)
		if resp["id"] != "req-1" {
			t.Errorf("id = %v", resp["id"])
		}
	})

	t.Run("notifications and blank lines get no reply", func(t *testing.T) {
		s.send(`{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":1}}`)
		s.send(``)
		s.send(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)
		resp := s.roundTrip(`{"jsonrpc":"2.0","id":42,"method":"ping"}`)
		if resp["id"] != float64(42) {
			t.Errorf("next response = %v, want the ping reply", resp)
		}
	})

	t.Run("responses follow request order", func(t *testing.T) {
		// the server blocks on its own writes, so requests are queued from
		// another goroutine while replies are read here
		sent := make(chan error, 1)
		go func() {
			var batch strings.Builder
			for i := 1; i <= 5; i++ {
				batch.WriteString(`{"jsonrpc":"2.0","id":` + strings.Repeat("1", i) + `,"method":"ping"}` + "\n")
			}
			_, err := io.WriteString(s.in, batch.String())
			sent <- err
		}()
		for i := 1; i <= 5; i++ {
			want, _ := json.Number(strings.Repeat("1", i)).Float64()
			if resp := s.receive(); resp["id"] != want {
				t.Errorf("response %d id = %v, want %v", i, resp["id"], want)
			}
		}
		if err := <-sent; err != nil {
			t.Fatalf("write: %v", err)
		}
	})
}

func TestCompliance_Shutdown(t *testing.T) {
	s := start(t)
	s.initialize()

	s.in.Close()
	select {
	case err := <-s.done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want clean exit on EOF", err)
		}
		s.done <- err
	case <-time.After(5 * time.Second):
		t.Fatal("server did not exit after stdin closed")
	}
}
