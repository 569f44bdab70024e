package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginHTML = `<!DOCTYPE html><html><head><title> Log in </title>
<script src="/static/app.js"></script><script>inline()</script></head>
<body><form id="login" method="post" action="/api/auth/login">
<input type="email" name="email" required>
<input type="password" name="password" required>
<input name="remember">
</form></body></html>`

func TestInspect(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(loginHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p, err := Inspect(context.Background(), srv.Client(), srv.URL+"/login.html")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, p.StatusCode)
	assert.True(t, p.IsHTML())
	assert.Equal(t, "Log in", p.Title)
	require.Len(t, p.Forms, 1)
	f := p.Forms[0]
	assert.Equal(t, "login", f.ID)
	assert.Equal(t, "POST", f.Method)
	assert.Len(t, f.Inputs, 3)
	assert.Equal(t, "text", f.Inputs[2].Type)
	assert.True(t, f.Inputs[1].Required)
	assert.True(t, p.HasPasswordForm())
	assert.Equal(t, []string{"/static/app.js"}, p.Scripts)

	p, err = Inspect(context.Background(), srv.Client(), srv.URL+"/missing.html")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, p.StatusCode)
	assert.False(t, p.HasPasswordForm())
}

func TestInspect_TransportError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := Inspect(context.Background(), nil, url+"/login.html")
	assert.Error(t, err)
}
