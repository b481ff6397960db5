// Package server holds the capability registry and the dispatcher that
// answers MCP requests from it.
//
// # Registry
//
// Resources, prompts and tools are registered once at startup, keyed by
// kind and name. Registering a name twice fails with
// *protocol.DuplicateCapabilityError:
//
//	reg := server.NewRegistry()
//
//	err := reg.Tool("search").
//	    Description("Search for items").
//	    Input(schema.Str("query", "What to look for")).
//	    Handler(func(ctx context.Context, args schema.Values) (*server.ToolResult, error) {
//	        return server.TextResult("found " + args.String("query")), nil
//	    })
//
// # Resources
//
// Resources are read by URI. A URI containing an RFC 6570 expression is
// matched as a template and its variables are passed to the handler:
//
//	reg.Resource("file", "file:///{path}").
//	    MimeType("text/plain").
//	    Handler(func(ctx context.Context, uri string, params map[string]string) ([]server.ResourceContent, error) {
//	        return []server.ResourceContent{{URI: uri, Text: params["path"]}}, nil
//	    })
//
// # Dispatching
//
// A Dispatcher validates arguments against each capability's declared
// schema before calling its handler, and maps failures onto JSON-RPC
// errors:
//
//	d := server.NewDispatcher(server.Info{Name: "demo", Version: "1.0.0"}, reg)
//	out := d.Handle(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
package server
