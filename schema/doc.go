// Package schema provides tagged argument descriptions for MCP capabilities.
//
// Arguments are declared as data, not code:
//
//	args := schema.Args{
//	    schema.Str("name", "Name to include in greeting."),
//	    schema.Optional(schema.Num("limit", "Maximum number of students to return.").Min(0)),
//	}
//
// The same declaration drives discovery and validation:
//
//	args.JSONSchema()                      // {"type":"object","properties":{...},"required":["name"]}
//	vals, err := args.Validate(input)      // coerced schema.Values or schema.ValidationErrors
//
// Validation checks presence of required arguments and their primitive
// kind. Unknown arguments are dropped unless RejectUnknown is passed.
package schema
