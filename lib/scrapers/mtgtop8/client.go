package mtgtop8

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"spicetracker/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl         = "https://www.mtgtop8.com"
	DefaultTimeout         = 30 * time.Second
	DefaultRetries         = 3
	DefaultRequestInterval = 750 * time.Millisecond
	defaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type ResourceKind int

const (
	ArchetypeListing ResourceKind = iota
	EventDeck
)

func (k ResourceKind) String() string {
	switch k {
	case ArchetypeListing:
		return "archetype"
	case EventDeck:
		return "event"
	}
	return fmt.Sprintf("ResourceKind(%d)", int(k))
}

// Resource identifies a page on the site.
type Resource struct {
	Kind        ResourceKind
	ArchetypeId int64
	// 0 means the archetype's default listing
	MetaId  int64
	EventId string
	DeckId  string
}

func ArchetypeResource(archetypeId, metaId int64) Resource {
	return Resource{Kind: ArchetypeListing, ArchetypeId: archetypeId, MetaId: metaId}
}

func EventDeckResource(eventId, deckId string) Resource {
	return Resource{Kind: EventDeck, EventId: eventId, DeckId: deckId}
}

func (r Resource) String() string {
	switch r.Kind {
	case ArchetypeListing:
		if r.MetaId != 0 {
			return fmt.Sprintf("archetype a=%d meta=%d", r.ArchetypeId, r.MetaId)
		}
		return fmt.Sprintf("archetype a=%d", r.ArchetypeId)
	case EventDeck:
		return fmt.Sprintf("event e=%s d=%s", r.EventId, r.DeckId)
	}
	return r.Kind.String()
}

// request returns the path and query of the resource. `format` is the site's
// format code (ex. "MO"), it is left out when empty.
func (r Resource) request(format string) (string, url.Values, error) {
	query := url.Values{}
	switch r.Kind {
	case ArchetypeListing:
		query.Set("a", strconv.FormatInt(r.ArchetypeId, 10))
		if r.MetaId != 0 {
			query.Set("meta", strconv.FormatInt(r.MetaId, 10))
			if format != "" {
				query.Set("f", format)
			}
		}
		return "/archetype", query, nil
	case EventDeck:
		if r.EventId == "" || r.DeckId == "" {
			return "", nil, fmt.Errorf("event resource needs both event and deck ids, got e=%q d=%q", r.EventId, r.DeckId)
		}
		query.Set("e", r.EventId)
		query.Set("d", r.DeckId)
		if format != "" {
			query.Set("f", format)
		}
		return "/event", query, nil
	}
	return "", nil, fmt.Errorf("unknown resource kind %d", r.Kind)
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	Format  string
	// per attempt, defaults to DefaultTimeout
	Timeout time.Duration
	// extra attempts after the first one on transient failures,
	// negative disables retrying, 0 uses DefaultRetries
	Retries int
	// minimum spacing between requests, defaults to DefaultRequestInterval,
	// negative disables pacing
	RequestInterval time.Duration
	RetryWait       time.Duration
	UserAgent       string
	// wraps the transport with cloudflare-bp-go
	BypassCloudflare bool
	// optional, receives http dumps when debug logging is enabled
	InstrumentOutput restyutil.InstrumentOutput
}

// Client fetches raw pages from the site. It is safe for concurrent use.
type Client struct {
	Http    *resty.Client
	format  string
	retries int
	limiter *rate.Limiter
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries == 0 {
		opts.Retries = DefaultRetries
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RequestInterval == 0 {
		opts.RequestInterval = DefaultRequestInterval
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RequestInterval), 1)
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "text/html")
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(opts.RetryWait)
	client.SetRetryMaxWaitTime(opts.RetryWait * 8)
	client.AddRetryCondition(isTransient)

	c := &Client{
		Http:    client,
		format:  opts.Format,
		retries: opts.Retries,
		limiter: limiter,
	}
	// pacing is applied per attempt so retries are paced as well
	client.OnBeforeRequest(c.pace)
	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	return c
}

func (c *Client) pace(_ *resty.Client, req *resty.Request) error {
	return c.limiter.Wait(req.Context())
}

func isTransient(res *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if res == nil {
		return false
	}
	code := res.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}

// Fetch returns the raw html of a resource. Transient failures (transport
// errors, timeouts, 429 and 5xx) are retried, any failure that remains is
// returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context, resource Resource) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("resource", resource.String()))

	path, query, err := resource.request(c.format)
	if err != nil {
		span.SetStatus(codes.Error, "invalid resource")
		return "", err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	attempts := 1
	if res != nil && res.Request != nil {
		attempts = res.Request.Attempt
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", &FetchError{Resource: resource, Attempts: attempts, Err: err}
	}
	if res.IsError() {
		err := &FetchError{Resource: resource, Status: res.StatusCode(), Attempts: attempts}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", err
	}

	return res.String(), nil
}
