package trends

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds one remote trend fetch.
const DefaultFetchTimeout = 10 * time.Second

// HTTPProvider pulls topics from a remote endpoint. Two payload shapes are
// understood: a JSON array of trend objects, and an RSS feed whose item
// titles become topics.
type HTTPProvider struct {
	httpClient *http.Client
	url        string
	source     string
}

// NewHTTPProvider creates a provider for the given endpoint. The source
// label is attached to every returned trend.
func NewHTTPProvider(url, source string) *HTTPProvider {
	return &HTTPProvider{
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		url:        url,
		source:     source,
	}
}

// Fetch retrieves and decodes the endpoint's topics.
func (p *HTTPProvider) Fetch(ctx context.Context, limit int) ([]Trend, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/rss+xml")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("trends: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}

	var out []Trend
	if isRSS(resp.Header.Get("Content-Type"), data) {
		out, err = decodeRSS(data, p.source)
	} else {
		out, err = decodeJSON(data, p.source)
	}
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func isRSS(contentType string, data []byte) bool {
	if strings.Contains(contentType, "xml") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "<")
}

func decodeJSON(data []byte, source string) ([]Trend, error) {
	var list []Trend
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("trends: decode payload: %w", err)
	}
	for i := range list {
		if list[i].Source == "" {
			list[i].Source = source
		}
		if list[i].Volume == "" {
			list[i].Volume = VolumeMedium
		}
	}
	return list, nil
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

func decodeRSS(data []byte, source string) ([]Trend, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("trends: decode feed: %w", err)
	}
	out := make([]Trend, 0, len(feed.Channel.Items))
	for _, item := range feed.Channel.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		out = append(out, Trend{
			Topic:     title,
			Source:    source,
			Volume:    VolumeHigh,
			Relevance: 0.8,
		})
	}
	return out, nil
}
