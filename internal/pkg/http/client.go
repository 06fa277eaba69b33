// Package http provides HTTP fetching capabilities for crawlers.
//
//go:generate go run -mod=mod github.com/matryer/moq -out httpmock/client_mock.go -pkg httpmock . Client
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	gohttp "net/http"
	"time"
)

// Compile-time interface compliance check.
var _ Client = &client{}

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Client defines the interface for HTTP content fetching.
type Client interface {
	// Fetch retrieves content from a URL with optional custom headers.
	// Response body is decoded as UTF-8. Non-2xx responses are errors.
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// client implements the Client interface using standard net/http.
type client struct {
	httpClient *gohttp.Client
	timeout    time.Duration
	userAgent  string
}

// NewClient creates a new Client wrapping the provided http.Client.
// An empty userAgent makes every request pick a random browser identity.
func NewClient(httpClient *gohttp.Client, timeout time.Duration, userAgent string) Client {
	return &client{
		httpClient: httpClient,
		timeout:    timeout,
		userAgent:  userAgent,
	}
}

// Fetch retrieves content from a URL with optional custom headers.
func (c *client) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, gohttp.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	browserInfo := randomBrowserInfo()
	if c.userAgent != "" {
		browserInfo.UserAgent = c.userAgent
	}
	defaultHeaders := map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language": "en-IN,en-US;q=0.9,en;q=0.8",
		"Connection":      "keep-alive",
		"User-Agent":      browserInfo.UserAgent,
		"Sec-Ch-Ua":       browserInfo.SecChUa,
		"Cache-Control":   "no-cache",
	}
	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}

	for key, value := range headers { // overwrites default headers if same key
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < gohttp.StatusOK || resp.StatusCode >= gohttp.StatusMultipleChoices {
		return "", fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), nil
}

// browserInfo contains User-Agent and Sec-Ch-Ua headers that must have matching versions.
type browserInfo struct {
	UserAgent string
	SecChUa   string
}

// randomBrowserInfo generates matching User-Agent and Sec-Ch-Ua headers.
// #nosec G404 // not used in security context, no strong randomness needed
func randomBrowserInfo() browserInfo {
	majorVersion := rand.Intn(25) + 120 // Version 120-144

	platforms := []func() string{
		func() string { return "Windows NT 10.0; Win64; x64" },
		func() string {
			macMajor := rand.Intn(3) + 13
			macMinor := rand.Intn(10)
			macPatch := rand.Intn(10)
			return fmt.Sprintf("Macintosh; Intel Mac OS X %d_%d_%d", macMajor, macMinor, macPatch)
		},
		func() string { return "X11; Linux x86_64" },
	}

	platform := platforms[rand.Intn(len(platforms))]()

	minorVersion := rand.Intn(10)
	patchVersion := rand.Intn(1000)
	userAgent := fmt.Sprintf(
		"Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.%d.%d Safari/537.36",
		platform, majorVersion, minorVersion, patchVersion,
	)

	secChUa := fmt.Sprintf(
		`"Chromium";v="%d", "Google Chrome";v="%d", "Not_A Brand";v="99"`,
		majorVersion, majorVersion,
	)

	return browserInfo{
		UserAgent: userAgent,
		SecChUa:   secChUa,
	}
}
