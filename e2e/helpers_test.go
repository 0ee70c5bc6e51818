//go:build e2e

package e2e

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fgeck/captive-autologin/internal/models"
	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// captivePortal emulates a Sophos-style gateway: the connectivity check is
// redirected to the portal until a login succeeds.
type captivePortal struct {
	mu          sync.Mutex
	username    string
	password    string
	loggedIn    bool
	logins      int
	logouts     int
	forms       []string
	downFor     int // portal probe connections to reset before answering
	portalHits  int
	rejectLogin bool
}

func (p *captivePortal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/generate_204", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		loggedIn := p.loggedIn
		p.mu.Unlock()
		if loggedIn {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/httpclient.html", http.StatusFound)
	})

	mux.HandleFunc("/login.xml", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing login form: %v", err)
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		p.logins++
		p.forms = append(p.forms, r.PostForm.Encode())

		w.Header().Set("Content-Type", "text/xml")
		if p.rejectLogin || r.PostForm.Get("mode") != "191" ||
			r.PostForm.Get("username") != p.username || r.PostForm.Get("password") != p.password {
			fmt.Fprint(w, portalXML("LOGIN", "Invalid user name/password. Please contact the administrator."))
			return
		}
		p.loggedIn = true
		fmt.Fprint(w, portalXML("LIVE", "You are signed in as {username}"))
	})

	mux.HandleFunc("/logout.xml", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		p.mu.Lock()
		defer p.mu.Unlock()
		p.logouts++
		p.loggedIn = false
		w.Header().Set("Content-Type", "text/xml")
		fmt.Fprint(w, portalXML("LOGIN", "You have successfully logged off"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.portalHits++
		down := p.portalHits <= p.downFor
		p.mu.Unlock()
		if down {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer cannot hijack")
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				_ = conn.Close()
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "<html><body>Sophos captive portal</body></html>")
	})

	return mux
}

func (p *captivePortal) counts() (logins, logouts int, loggedIn bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logins, p.logouts, p.loggedIn
}

func portalXML(status, message string) string {
	return fmt.Sprintf(`<?xml version='1.0' ?><requestresponse><status><![CDATA[%s]]></status>`+
		`<message><![CDATA[%s]]></message><logoutmessage><![CDATA[You have successfully logged off]]></logoutmessage>`+
		`<state><![CDATA[]]></state></requestresponse>`, status, message)
}

func startPortal(t *testing.T, p *captivePortal) models.PortalConfig {
	t.Helper()
	server := httptest.NewServer(p.handler(t))
	t.Cleanup(server.Close)

	return models.PortalConfig{
		BaseURL:             server.URL,
		InternetProbeURL:    server.URL + "/generate_204",
		LoginTimeout:        2 * time.Second,
		InternetTimeout:     2 * time.Second,
		ReachabilityTimeout: 2 * time.Second,
	}
}

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingSink) Log(_ time.Time, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, msg)
}

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}
