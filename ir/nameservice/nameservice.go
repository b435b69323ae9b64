// Package nameservice implements the "name service" external
// collaborator from spec.md §6: an optional HTTP lookup of a
// human-readable display name for a decoded code, with an optional
// mDNS/DNS-SD discovery step to find the lookup service on the local
// network before issuing the HTTP calls.
//
// Grounded on the teacher's dns_sd.go (github.com/brutella/dnssd,
// announce-side); this package uses the same library browse-side to
// discover rather than announce a service.
package nameservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/brutella/dnssd"
	"github.com/charmbracelet/log"
)

// ServiceType is the DNS-SD service type a name-lookup server advertises
// itself under, browsed by Discover.
const ServiceType = "_ir-nameservice._tcp"

// Client performs the two-GET name lookup described in spec.md §6: a
// first GET against BaseURL to obtain a session token, then a second GET
// with decoder/code query parameters returning the display name. Any
// non-200 status or transport error yields a null name, per spec.md §6 —
// this is advisory metadata, never a hard failure.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient returns a Client targeting baseURL, with a bounded-timeout
// http.Client suitable for an advisory, best-effort lookup.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

type nameResponse struct {
	Name string `json:"name"`
}

// Lookup resolves decoder/code to a display name, returning ("", nil) —
// not an error — for any non-200 response or transport failure, per the
// "any error yields a null name" contract in spec.md §6.
func (c *Client) Lookup(ctx context.Context, decoder, code string) (string, error) {
	token, ok := c.fetchToken(ctx)
	if !ok {
		return "", nil
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", nil
	}
	q := u.Query()
	q.Set("token", token)
	q.Set("decoder", decoder)
	q.Set("code", code)
	u.RawQuery = q.Encode()

	var out nameResponse
	if !c.getJSON(ctx, u.String(), &out) {
		return "", nil
	}
	return out.Name, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, bool) {
	var out tokenResponse
	if !c.getJSON(ctx, c.BaseURL, &out) {
		return "", false
	}
	return out.Token, true
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Debug("nameservice: request failed", "url", rawURL, "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug("nameservice: non-200 response", "url", rawURL, "status", resp.StatusCode)
		return false
	}

	return json.NewDecoder(resp.Body).Decode(out) == nil
}

// Discover browses the local network for a name-lookup service advertised
// via DNS-SD, returning the base URL of the first instance found before
// ctx is done. It returns ("", ctx.Err()) if none answers in time.
func Discover(ctx context.Context) (string, error) {
	found := make(chan string, 1)

	addFn := func(e dnssd.BrowseEntry) {
		if len(e.IPs) == 0 {
			return
		}
		select {
		case found <- fmt.Sprintf("http://%s:%d", e.IPs[0], e.Port):
		default:
		}
	}
	rmvFn := func(dnssd.BrowseEntry) {}

	go func() {
		_ = dnssd.LookupType(ctx, ServiceType, addFn, rmvFn)
	}()

	select {
	case url := <-found:
		return url, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
