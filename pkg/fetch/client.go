package fetch

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultMaxRetries = 3

// Client fetches image bytes over HTTP, retrying with exponential backoff
// when the server rate-limits us.  Construct a Client via NewClient.
type Client struct {
	httpClient *http.Client
	// MaxRetries is the number of additional attempts made after a 429
	// response before giving up.
	MaxRetries int
	sleep      func(time.Duration)
}

// Option is an option that can be passed to NewClient.
type Option func(client *Client)

// WithHTTPClient is an option for NewClient that sets the http.Client used
// for requests.  If unspecified, http.DefaultClient is used.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// MaxRetries is an option for NewClient that sets the number of retries
// after a rate-limited response.
func MaxRetries(retries int) Option {
	return func(client *Client) {
		client.MaxRetries = retries
	}
}

// WithSleep is an option for NewClient that replaces the function used to
// wait between rate-limit retries.  Intended for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(client *Client) {
		client.sleep = sleep
	}
}

// NewClient creates a new Client.
func NewClient(options ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		MaxRetries: defaultMaxRetries,
		sleep:      time.Sleep,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// GetImage fetches a URL and returns the raw image bytes.  A 429 response
// triggers up to MaxRetries retries with 2^attempt second waits (1s, 2s,
// 4s); any other non-2xx status fails immediately.  A 2xx response whose
// content type is not image/* is an error.
func (client *Client) GetImage(url string, timeout time.Duration) ([]byte, error) {
	hc := client.httpClient
	if timeout > 0 {
		// Shallow copy so the shared client's timeout is untouched.
		withTimeout := *hc
		withTimeout.Timeout = timeout
		hc = &withTimeout
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequest("GET", url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "skyview")

		resp, err := hc.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if attempt >= client.MaxRetries {
				return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
			}
			client.sleep(time.Duration(1<<attempt) * time.Second)
			continue
		}

		data, err := readImageResponse(resp, url)
		resp.Body.Close()
		return data, err
	}
}

func readImageResponse(resp *http.Response, url string) ([]byte, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	contentType := parseContentType(resp.Header.Get("content-type"))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("returned non-image content type %q", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

// httpToken is the regex to get a "token" from RFC7230, S3.2.6.
const httpToken = "[!#$%&'*+-.^_`|~0-9a-zA-Z]"

// mediaTypeRegex parses media type, as per RFC7231, S3.1.1.1.
var mediaTypeRegex = regexp.MustCompile("(" + httpToken + "*/" + httpToken + "*).*")

func parseContentType(contentType string) string {
	match := mediaTypeRegex.FindStringSubmatch(contentType)
	if match != nil {
		return match[1]
	}
	return ""
}
