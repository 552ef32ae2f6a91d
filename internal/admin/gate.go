// Package admin computes the capability that unlocks the listing upload form.
//
// The capability comes from a query parameter compared against a configured
// value. Anyone can read that value off a shared URL, so it only decides what
// the page shows. It is not authentication and must never guard anything that
// matters.
package admin

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
)

// Capability is the result of evaluating the gate for one request.
type Capability struct {
	granted bool
	param   string
	value   string
}

func (c Capability) Granted() bool {
	return c.granted
}

// URL appends the gate parameter to path when the capability is granted so that
// links and form actions keep the admin view.
func (c Capability) URL(path string, query url.Values) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	if c.granted {
		q.Set(c.param, c.value)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Hidden returns the name and value a search form needs to carry the gate.
func (c Capability) Hidden() (string, string, bool) {
	return c.param, c.value, c.granted
}

type Gate struct {
	param  string
	secret string
}

func NewGate(param, secret string) *Gate {
	return &Gate{param: param, secret: secret}
}

// Evaluate grants the capability only when the first value of the gate parameter
// equals the secret exactly.
func (g *Gate) Evaluate(q url.Values) Capability {
	values, ok := q[g.param]
	if !ok || len(values) == 0 || g.secret == "" {
		return Capability{param: g.param}
	}
	if values[0] != g.secret {
		return Capability{param: g.param}
	}
	return Capability{granted: true, param: g.param, value: g.secret}
}

// Middleware evaluates the gate once per request and stores the capability in
// the request context.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := g.Evaluate(r.URL.Query())
		if c.granted {
			zerolog.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("Admin view enabled")
		}
		next.ServeHTTP(w, r.WithContext(ContextWithCapability(r.Context(), c)))
	})
}

// Require answers 404 unless the request carries the capability, so gated
// endpoints look exactly like unknown routes.
func Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !CapabilityFromContext(r.Context()).Granted() {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

type contextKey string

const contextKeyCapability contextKey = "admin-capability"

func ContextWithCapability(ctx context.Context, c Capability) context.Context {
	return context.WithValue(ctx, contextKeyCapability, c)
}

// CapabilityFromContext returns the stored capability, or a denied one when the
// gate middleware did not run.
func CapabilityFromContext(ctx context.Context) Capability {
	c, _ := ctx.Value(contextKeyCapability).(Capability)
	return c
}
