package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// maxRobotsBodyBytes limits the size of robots.txt responses we will read.
const maxRobotsBodyBytes = 512 * 1024 // 512 KB

// Guard decides whether a URL may be fetched according to the host's
// robots.txt. Rules are fetched once per host for the lifetime of the
// guard; a guard lives for one collection run, so nothing is cached
// across runs. Every failure mode (unreachable robots.txt, non-200
// status, parse error) results in allow; only an explicit matched
// disallow rule denies.
type Guard struct {
	httpClient *http.Client
	userAgent  string
	agentToken string
	cache      map[string]*robotstxt.RobotsData // keyed by host; nil entry means allow all
	mu         sync.Mutex
}

func NewGuard(httpClient *http.Client, userAgent string) *Guard {
	return &Guard{
		httpClient: httpClient,
		userAgent:  userAgent,
		agentToken: agentToken(userAgent),
		cache:      make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the URL may be fetched. Unparseable URLs are
// not fetchable anyway, so they report false; everything else fails open.
func (g *Guard) Allowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := strings.ToLower(parsed.Host)

	g.mu.Lock()
	data, cached := g.cache[host]
	g.mu.Unlock()

	if !cached {
		data = g.fetchRules(ctx, parsed.Scheme, host)
		g.mu.Lock()
		g.cache[host] = data
		g.mu.Unlock()
	}

	if data == nil {
		return true
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, g.agentToken)
}

// fetchRules retrieves and parses robots.txt for a host. A nil result
// means no applicable rules (allow all).
func (g *Guard) fetchRules(ctx context.Context, scheme, host string) *robotstxt.RobotsData {
	robotsURL := scheme + "://" + host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBodyBytes))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}

// agentToken reduces a full user-agent string to the product token
// robots.txt groups match against ("ActivityScout/1.0 (...)" -> "ActivityScout").
func agentToken(userAgent string) string {
	token := userAgent
	if i := strings.IndexAny(token, "/ ("); i > 0 {
		token = token[:i]
	}
	if token == "" {
		return userAgent
	}
	return token
}
