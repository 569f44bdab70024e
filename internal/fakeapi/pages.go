package fakeapi

import (
	"fmt"
	"net/http"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s | Requestwave</title>
<script src="/static/auth-proxy.js" defer></script>
</head>
<body>
<h1>%s</h1>
%s
</body>
</html>
`

const loginForm = `<form id="login-form" method="post" action="/api/auth/login">
<input type="email" name="email" required>
<input type="password" name="password" required>
<button type="submit">Log in</button>
</form>`

const signupForm = `<form id="signup-form" method="post" action="/api/auth/register">
<input type="text" name="name" required>
<input type="email" name="email" required>
<input type="password" name="password" minlength="8" required>
<button type="submit">Create account</button>
</form>`

const resetForm = `<form id="reset-form" method="post" action="/api/auth/reset-password">
<input type="email" name="email" required>
<input type="text" name="reset_code" required>
<input type="password" name="new_password" minlength="8" required>
<button type="submit">Reset password</button>
</form>`

type staticPage struct{ title, form string }

var staticPages = map[string]staticPage{
	"/login.html":          {"Log in", loginForm},
	"/signup.html":         {"Sign up", signupForm},
	"/reset-password.html": {"Reset password", resetForm},
}

func (p staticPage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, pageTemplate, p.title, p.title, p.form)
}
