// Package profile carries the current company profile through the call
// context, so tools triggered during an agent invocation read the profile of
// the request that started it and never a concurrent one's.
package profile

import (
	"context"

	contractx "github.com/digitaldept/business-advisor/advisor/contract"
)

type ctxKey struct{}

// NewContext returns a context carrying the given profile.
func NewContext(ctx context.Context, p contractx.CompanyProfile) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the profile attached to ctx, if any.
func FromContext(ctx context.Context) (contractx.CompanyProfile, bool) {
	p, ok := ctx.Value(ctxKey{}).(contractx.CompanyProfile)
	return p, ok
}
