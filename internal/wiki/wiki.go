// Package wiki fetches syndicate pages from the Warframe wiki.
package wiki

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/syndicate-prices/internal/fetcher"
)

// DefaultBaseURL is the wiki article root.
const DefaultBaseURL = "https://wiki.warframe.com/w"

// maxPageBytes bounds how much of a page is read.
const maxPageBytes = 8 << 20

// Syndicate identifies a syndicate's wiki article.
type Syndicate string

// Known syndicates.
const (
	SteelMeridian     Syndicate = "Steel_Meridian"
	ArbitersOfHexis   Syndicate = "Arbiters_of_Hexis"
	CephalonSuda      Syndicate = "Cephalon_Suda"
	ThePerrinSequence Syndicate = "The_Perrin_Sequence"
	RedVeil           Syndicate = "Red_Veil"
	NewLoka           Syndicate = "New_Loka"
)

// Syndicates lists every supported syndicate in menu order.
var Syndicates = []Syndicate{
	SteelMeridian,
	ArbitersOfHexis,
	CephalonSuda,
	ThePerrinSequence,
	RedVeil,
	NewLoka,
}

// DisplayName returns the syndicate name with spaces.
func (s Syndicate) DisplayName() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// ParseSyndicate accepts either the article identifier or the display name,
// case-insensitively.
func ParseSyndicate(s string) (Syndicate, error) {
	want := strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	for _, syn := range Syndicates {
		if strings.EqualFold(string(syn), want) {
			return syn, nil
		}
	}
	return "", eris.Errorf("wiki: unknown syndicate %q", s)
}

// Client downloads wiki articles.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL *url.URL
}

// NewClient creates a wiki client rooted at baseURL.
func NewClient(f fetcher.Fetcher, baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, eris.Wrap(err, "wiki: parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, eris.Errorf("wiki: base url %q must be absolute", baseURL)
	}
	return &Client{fetcher: f, baseURL: u}, nil
}

// PageURL returns the article URL for a syndicate.
func (c *Client) PageURL(s Syndicate) string {
	return c.baseURL.JoinPath(string(s)).String()
}

// Page returns the raw HTML of the syndicate's article.
func (c *Client) Page(ctx context.Context, s Syndicate) (string, error) {
	body, err := c.fetcher.Download(ctx, c.PageURL(s))
	if err != nil {
		return "", eris.Wrapf(err, "wiki: fetch %s", s)
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", eris.Wrapf(err, "wiki: read %s", s)
	}
	return string(data), nil
}
