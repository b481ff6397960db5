// Package protocol defines the MCP JSON-RPC 2.0 message types, method names
// and error codes spoken on the wire.
//
// # Envelopes
//
// Every inbound line decodes into a Request; a Request without an id is a
// notification and never gets a Response:
//
//	req, rpcErr := protocol.DecodeRequest(line)
//	if rpcErr != nil {
//	    resp := protocol.NewErrorResponse(nil, rpcErr)
//	}
//
// # Error taxonomy
//
// Capability dispatch produces four typed errors. Each maps to a JSON-RPC
// error object through ToError:
//
//	DuplicateCapabilityError  // registration of an existing (kind, name)
//	UnknownCapabilityError    // -32001, nothing registered under (kind, name)
//	ValidationError           // -32602, arguments rejected by the schema
//	HandlerError              // -32603, handler failed or panicked
//
// Standard JSON-RPC codes are available as constants:
//
//	CodeParseError     = -32700
//	CodeInvalidRequest = -32600
//	CodeMethodNotFound = -32601
//	CodeInvalidParams  = -32602
//	CodeInternalError  = -32603
package protocol
