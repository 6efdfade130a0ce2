// Package registry queries crates.io for the published versions of a crate.
package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jedisct1/go-minisign"
	"go.uber.org/zap"
)

const (
	// DefaultBase is the public crates.io API host.
	DefaultBase = "https://crates.io"

	// DefaultTimeout bounds one versions query. The embedding CLI pays this
	// at startup on a cache miss, so it stays short.
	DefaultTimeout = 2 * time.Second
)

// Version is the subset of the crates.io version payload that updates uses.
type Version struct {
	Num       string `json:"num"`
	CreatedAt string `json:"created_at"`
	Yanked    bool   `json:"yanked"`
}

type versionsResponse struct {
	Versions []Version `json:"versions"`
}

// Client fetches version lists over HTTP. The zero value is not usable;
// construct with NewClient.
type Client struct {
	base      string
	userAgent string
	hc        *http.Client
	pubKey    *minisign.PublicKey
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithPublicKey enables signed-manifest verification: the client fetches a
// detached minisign signature next to the versions document and refuses to
// decode a body that does not verify. Meant for self-hosted mirrors that
// sign their manifests; crates.io itself publishes none.
func WithPublicKey(key minisign.PublicKey) Option {
	return func(c *Client) { c.pubKey = &key }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client against base (no trailing slash) identifying
// itself with userAgent.
func NewClient(base, userAgent string, opts ...Option) *Client {
	c := &Client{
		base:      base,
		userAgent: userAgent,
		hc:        &http.Client{Timeout: DefaultTimeout},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent builds the request identity for a given library version.
// crates.io requires a meaningful User-Agent from API consumers.
func UserAgent(version string) string {
	return fmt.Sprintf("updates/%s", version)
}

// Versions returns every published version of the named crate, yanked ones
// included; the caller decides what to discard.
func (c *Client) Versions(name string) ([]Version, error) {
	url := fmt.Sprintf("%s/api/v1/crates/%s", c.base, name)
	body, err := c.fetch(url)
	if err != nil {
		return nil, err
	}

	if c.pubKey != nil {
		if err := c.verify(url, body); err != nil {
			return nil, err
		}
	}

	var resp versionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode versions for %s: %w", name, err)
	}
	return resp.Versions, nil
}

func (c *Client) fetch(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// verify fetches the detached signature at url+".minisig" and checks body
// against the configured public key.
func (c *Client) verify(url string, body []byte) error {
	sigRaw, err := c.fetch(url + ".minisig")
	if err != nil {
		return fmt.Errorf("fetch manifest signature: %w", err)
	}
	sig, err := minisign.DecodeSignature(string(sigRaw))
	if err != nil {
		return fmt.Errorf("decode manifest signature: %w", err)
	}
	valid, err := c.pubKey.Verify(body, sig)
	if err != nil {
		return fmt.Errorf("verify manifest: %w", err)
	}
	if !valid {
		return fmt.Errorf("manifest signature verification failed for %s", url)
	}
	c.log.Debug("manifest signature verified", zap.String("url", url))
	return nil
}
