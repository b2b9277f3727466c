package domain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProbeLink(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("probe method = %s, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer plain.Close()

	selfSigned := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer selfSigned.Close()

	tests := []struct {
		name       string
		href       string
		timeout    time.Duration
		shouldPass bool
	}{
		{
			name:       "reachable http server",
			href:       plain.URL,
			timeout:    2 * time.Second,
			shouldPass: true,
		},
		{
			name:       "self-signed certificate is rejected",
			href:       selfSigned.URL,
			timeout:    2 * time.Second,
			shouldPass: false,
		},
		{
			name:       "very short timeout",
			href:       plain.URL,
			timeout:    1 * time.Nanosecond,
			shouldPass: false,
		},
		{
			name:       "malformed url",
			href:       "://nope",
			timeout:    time.Second,
			shouldPass: false,
		},
		{
			name:       "empty url",
			href:       "",
			timeout:    time.Second,
			shouldPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProbeLink(context.Background(), tt.href, tt.timeout)
			if tt.shouldPass && err != nil {
				t.Errorf("ProbeLink() = %v, want nil", err)
			}
			if !tt.shouldPass && err == nil {
				t.Errorf("ProbeLink() = nil, want error")
			}
		})
	}
}

func TestProbeLinkDoesNotFollowRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("redirect target should not be contacted")
	}))
	defer target.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirector.Close()

	if err := ProbeLink(context.Background(), redirector.URL, 2*time.Second); err != nil {
		t.Errorf("ProbeLink() = %v, want nil", err)
	}
}

func TestFirstAlive(t *testing.T) {
	alive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer alive.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	candidates := []*LinkCandidate{
		{Link: &Link{ID: "dead", Href: deadURL}},
		{Link: &Link{ID: "alive", Href: alive.URL}},
	}

	got := FirstAlive(context.Background(), candidates, 2*time.Second)
	if got == nil || got.Link.ID != "alive" {
		t.Fatalf("FirstAlive() = %v, want alive", got)
	}

	if FirstAlive(context.Background(), candidates[:1], 2*time.Second) != nil {
		t.Error("FirstAlive() with only dead candidates should return nil")
	}
}
