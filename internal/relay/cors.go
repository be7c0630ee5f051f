package relay

import "net/http"

const (
	AllowMethods = "POST, OPTIONS"
	AllowHeaders = "Content-Type, Authorization"
)

// CORS sets a static set of CORS headers on every response.
type CORS struct {
	Origins []string
}

// AllowOrigin picks the Access-Control-Allow-Origin value for a request origin.
// A wildcard wins; otherwise a listed origin is echoed, and anything else gets
// the first configured origin.
func (c CORS) AllowOrigin(requestOrigin string) string {
	if len(c.Origins) == 0 {
		return "*"
	}
	for _, o := range c.Origins {
		if o == "*" {
			return "*"
		}
	}
	for _, o := range c.Origins {
		if o == requestOrigin {
			return o
		}
	}
	return c.Origins[0]
}

// Apply writes the CORS headers into h.
func (c CORS) Apply(h http.Header, requestOrigin string) {
	origin := c.AllowOrigin(requestOrigin)
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", AllowMethods)
	h.Set("Access-Control-Allow-Headers", AllowHeaders)
	if origin != "*" && len(c.Origins) > 1 {
		h.Add("Vary", "Origin")
	}
}
