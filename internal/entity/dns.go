package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/episteme-app/episteme/internal/worker"
)

// DomainProber reports whether a domain name currently resolves
type DomainProber interface {
	Exists(ctx context.Context, domain string) bool
}

// DoHProber probes domain existence through a public DNS-over-HTTPS JSON
// resolver. Each probe gets its own short timeout so a slow resolver cannot
// stall entity resolution.
type DoHProber struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	limiter    *worker.Limiter
}

// NewDoHProber creates a prober against the given resolver endpoint
// (e.g. https://dns.google/resolve). A nil limiter disables pacing.
func NewDoHProber(endpoint string, probeTimeout time.Duration, userAgent string, limiter *worker.Limiter) *DoHProber {
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &DoHProber{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: probeTimeout,
		},
		timeout:   probeTimeout,
		userAgent: userAgent,
		limiter:   limiter,
	}
}

type dohResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Name string `json:"name"`
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

// Exists returns true when the resolver reports an answer record for the
// domain. Any error is treated as "no match", never propagated.
func (p *DoHProber) Exists(ctx context.Context, domain string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Wait(probeCtx, p.endpoint); err != nil {
			return false
		}
	}

	probeURL := fmt.Sprintf("%s?name=%s&type=A", p.endpoint, url.QueryEscape(domain))
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, probeURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Accept", "application/dns-json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var parsed dohResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false
	}

	return parsed.Status == 0 && len(parsed.Answer) > 0
}
