package domain

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/linkdeck/internal/utils"
)

// ProbeLink checks that href answers a HEAD request within timeout.
// https links must present a certificate trusted by the system pool.
// Any HTTP response counts as alive; redirects are not followed.
func ProbeLink(ctx context.Context, href string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: -1,
			}).DialContext,
			TLSHandshakeTimeout: timeout,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DisableKeepAlives: true,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, href, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create probe request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("link unreachable: %w", err)
	}
	utils.Close(resp.Body)

	return nil
}

// FirstAlive probes candidates in rank order and returns the first that answers.
func FirstAlive(ctx context.Context, candidates []*LinkCandidate, timeout time.Duration) *LinkCandidate {
	for _, c := range candidates {
		if err := ProbeLink(ctx, c.Link.Href, timeout); err == nil {
			return c
		}
	}
	return nil
}
