package noaa

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches upstream payloads over HTTPS with strict certificate
// verification. When the strict attempt fails on a certificate-trust
// problem the request is retried exactly once without verification, so
// hosts with an incomplete CA bundle still reach the public NOAA feed.
// Every other failure is terminal.
type Client struct {
	strict   *http.Client
	insecure *http.Client
}

// NewClient returns a Client whose attempts are bounded by timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	unverified := http.DefaultTransport.(*http.Transport).Clone()
	unverified.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	return &Client{
		strict:   &http.Client{Timeout: timeout},
		insecure: &http.Client{Timeout: timeout, Transport: unverified},
	}
}

// Fetch issues a GET against endpoint and returns the raw response body.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	fetchAttempts.Inc()

	payload, err := c.fetchOnce(ctx, c.strict, endpoint)
	if err != nil && isCertificateError(err) {
		certFallbacks.Inc()
		payload, err = c.fetchOnce(ctx, c.insecure, endpoint)
	}
	if err != nil {
		fetchFailures.Inc()
		return nil, err
	}
	return payload, nil
}

func (c *Client) fetchOnce(ctx context.Context, client *http.Client, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if len(payload) == 0 {
		return nil, errors.New("Empty response body")
	}

	return payload, nil
}

// isCertificateError reports whether err, anywhere in its chain, is a TLS
// certificate verification failure. Timeouts, refused connections and HTTP
// status errors are not certificate errors and must not trigger the
// unverified retry.
func isCertificateError(err error) bool {
	if err == nil {
		return false
	}

	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}

	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}

	var invalid x509.CertificateInvalidError
	if errors.As(err, &invalid) {
		return true
	}

	// Intercepting proxies sometimes surface only the OpenSSL marker text.
	return strings.Contains(err.Error(), "CERTIFICATE_VERIFY_FAILED")
}
