// Package safety collects recent travel safety headlines for a destination
// from the Google News RSS search feed.
package safety

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/effective-security/tripintel/geocode"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/metricskey"
	"github.com/effective-security/tripintel/pkg/upstream"
	"github.com/effective-security/xlog"
	"github.com/mmcdole/gofeed/rss"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tripintel", "safety")

const (
	// DefaultBaseURL is the news search feed endpoint
	DefaultBaseURL = "https://news.google.com/rss/search"
	// DefaultMaxItems is the number of headlines when not specified
	DefaultMaxItems = 4
	// DefaultLanguage is the news locale when not specified
	DefaultLanguage = "en-US"
	// UserAgent is sent with every feed request
	UserAgent = "trip-assistant/1.0"

	querySuffix = " travel warning OR safety advisory OR disruption OR protest"
)

// the body is already UTF-8 when parsed
var xmlEncodingAttr = regexp.MustCompile(`^(\s*<\?xml[^>]*?encoding=)["'][^"']*["']`)

// Fetcher retrieves safety briefs.
// It holds no per-call state and is safe for concurrent use.
type Fetcher struct {
	baseURL string
	client  *upstream.Client
}

// NewFetcher returns a Fetcher.
// Empty baseURL uses DefaultBaseURL.
func NewFetcher(baseURL string, opts ...upstream.Option) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]upstream.Option{upstream.WithUserAgent(UserAgent)}, opts...)
	return &Fetcher{
		baseURL: baseURL,
		client:  upstream.New("news", opts...),
	}
}

// Query returns the search parameters for the location and news locale
func Query(location, language string) url.Values {
	region := language
	if i := strings.LastIndex(language, "-"); i >= 0 {
		region = language[i+1:]
	}

	q := url.Values{}
	q.Set("q", location+querySuffix)
	q.Set("hl", language)
	q.Set("gl", region)
	q.Set("ceid", strings.ReplaceAll(language, "-", ":"))
	return q
}

// FetchBrief returns up to req.MaxItems headlines in feed order.
// Items without a title or link are skipped and do not count toward the limit.
func (f *Fetcher) FetchBrief(ctx context.Context, req *Request) (*Brief, error) {
	if err := geocode.ValidateLocation(req.Location); err != nil {
		return nil, err
	}
	maxItems := req.MaxItems
	if maxItems == 0 {
		maxItems = DefaultMaxItems
	}
	if maxItems < 1 {
		return nil, errkind.InvalidArgument("max_items must be a positive number")
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = DefaultLanguage
	}

	res, err := f.client.Get(ctx, f.baseURL, Query(req.Location, language))
	if err != nil {
		return nil, err
	}

	feed, err := parseFeed(res)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "failed_parse_feed",
			"location", req.Location,
			"err", err.Error(),
		)
		return nil, err
	}

	brief := &Brief{
		Location:  req.Location,
		Headlines: make([]*Headline, 0, maxItems),
		Source:    Source,
	}

	dropped := 0
	for _, item := range feed.Items {
		if len(brief.Headlines) == maxItems {
			break
		}
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			dropped++
			continue
		}
		brief.Headlines = append(brief.Headlines, &Headline{
			Title:     title,
			Link:      link,
			Published: strings.TrimSpace(item.PubDate),
			Snippet:   Snippet(strings.TrimSpace(item.Description), SnippetWidth),
		})
	}
	if dropped > 0 {
		metricskey.StatsHeadlinesDropped.IncrCounter(float64(dropped), Source)
	}

	if len(brief.Headlines) == 0 {
		return nil, errkind.NotFound("no safety headlines found for %q", req.Location)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"location", req.Location,
		"items", len(feed.Items),
		"headlines", len(brief.Headlines),
		"dropped", dropped,
	)

	return brief, nil
}

func parseFeed(res *upstream.Response) (*rss.Feed, error) {
	body, encName, err := res.Text()
	if err != nil {
		return nil, errkind.Parse(err, "news: failed to decode feed")
	}
	body = xmlEncodingAttr.ReplaceAll(body, []byte(`${1}"UTF-8"`))

	if err = wellFormed(body); err != nil {
		return nil, errkind.Parse(err, "news: malformed "+encName+" feed")
	}

	fp := rss.Parser{}
	feed, err := fp.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errkind.Parse(err, "news: failed to parse "+encName+" feed")
	}
	return feed, nil
}

// wellFormed reads every token with a strict decoder,
// the feed parser accepts unescaped entities and mismatched tags.
func wellFormed(body []byte) error {
	d := xml.NewDecoder(bytes.NewReader(body))
	for {
		_, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
