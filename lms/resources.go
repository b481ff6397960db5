package lms

import (
	"context"
	_ "embed"

	"github.com/codersgyan/lms-mcp/server"
)

const (
	RefundPolicyName = "refund-policy"
	RefundPolicyURI  = "https://codersgyan.com/refund-policy"
)

// RefundPolicy is served verbatim, surrounding whitespace included.
//
//go:embed refund_policy.txt
var RefundPolicy string

func registerRefundPolicy(reg *server.Registry) error {
	return reg.Resource(RefundPolicyName, RefundPolicyURI).
		Title("Coders Gyan Refund Policy").
		Description("This is the codersgyan refund policy").
		MimeType("text/plain").
		Handler(func(ctx context.Context, uri string, params map[string]string) ([]server.ResourceContent, error) {
			return []server.ResourceContent{{
				URI:      RefundPolicyURI,
				MimeType: "text/plain",
				Text:     RefundPolicy,
			}}, nil
		})
}
