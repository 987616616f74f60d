package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediadock/internal/server"
	"mediadock/internal/testsupport"
)

func TestWebProfileRequiresTokenAndRendersImage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	_, token := testsupport.NewUser(t, st, "alice")
	if err := st.SetUserImage(t.Context(), "alice", "images/avatar.png"); err != nil {
		t.Fatalf("SetUserImage: %v", err)
	}
	testsupport.WriteImage(t, cfg, "avatar.png", 8)

	srv := httptest.NewServer(server.NewWebHandler(server.Deps{Config: cfg, Tokens: st}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/profile")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `src="/media/images/avatar.png"`) {
		t.Fatalf("profile %d:\n%s", resp.StatusCode, body)
	}

	resp, err = http.Get(srv.URL + "/media/images/avatar.png")
	if err != nil {
		t.Fatalf("get media: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("media status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/media/images/")
	if err != nil {
		t.Fatalf("get media dir: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("directory listing status = %d", resp.StatusCode)
	}
}
