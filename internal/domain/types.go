package domain

import (
	"context"
	"strings"
)

// Principal is an already-authenticated caller identity (an account address).
type Principal string

// NormalizePrincipal trims and lowercases an address so "0xAB" and "0xab" match.
func NormalizePrincipal(s string) Principal {
	return Principal(strings.ToLower(strings.TrimSpace(s)))
}

func (p Principal) String() string { return string(p) }

// IsZero reports whether p carries no identity.
func (p Principal) IsZero() bool { return p == "" }

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// RequestContext carries authenticated caller info when available.
type RequestContext struct {
	Principal Principal `json:"principal"`
	RequestID string    `json:"requestId"`
}

type requestIDKey struct{}

// WithRequestID attaches a request id for service-level logging.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
