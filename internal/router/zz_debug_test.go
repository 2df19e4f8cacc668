package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"adopthub/internal/router"

	"github.com/gorilla/sessions"
)

func TestZZDebugSessionFlow(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-session-key-0123456789abcdef"))
	ts := httptest.NewServer(router.NewRouter(router.Options{Sessions: store}))
	defer ts.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	payload, _ := json.Marshal(map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "supersecret", "role": "admin",
	})
	res, err := client.Post(ts.URL+"/api/auth/register", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	t.Logf("register status=%d body=%s", res.StatusCode, body)
	t.Logf("register Set-Cookie headers: %v", res.Header.Values("Set-Cookie"))
	u := res.Request.URL
	t.Logf("jar cookies for %s: %v", u, jar.Cookies(u))

	req, _ := http.NewRequest("GET", ts.URL+"/api/auth/me", nil)
	res2, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body2, _ := io.ReadAll(res2.Body)
	t.Logf("me status=%d body=%s cookie-sent=%v", res2.StatusCode, body2, req.Header.Get("Cookie"))
}
