package client

import "net/http"

// wrapTransportWithBearer wraps the HTTP client's transport so the current
// session token is attached to every request.
func (c *Client) wrapTransportWithBearer() {
	baseTransport := c.http.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	c.http.Transport = &bearerTransport{
		base:  baseTransport,
		token: c.Token,
	}
}

// bearerTransport adds "Authorization: Bearer <token>" iff a token is set.
type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := t.token()
	if tok == "" {
		return t.base.RoundTrip(req)
	}
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+tok)
	return t.base.RoundTrip(cloned)
}
