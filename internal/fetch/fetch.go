// Package fetch downloads job postings and reduces their HTML to plain text
// that the job description analyzer can work with.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CVOptimizer/1.0)"

// MinContentLength is the shortest extracted text accepted without trying the browser.
// Shorter output usually means the page renders its content with JavaScript.
const MinContentLength = 500

const msgInvalidURL = "invalid URL"

// maxBodyBytes caps how much of a page is read
const maxBodyBytes = 5 << 20

// Page holds the raw content of a fetched URL.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error while fetching or extracting a page.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves job postings over HTTP, optionally falling back to a headless browser.
type Fetcher struct {
	client    *http.Client
	userAgent string
	renderer  Renderer
	logger    *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithRenderer enables browser rendering for pages whose HTML has too little text.
func WithRenderer(r Renderer) Option {
	return func(f *Fetcher) { f.renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page retrieves the HTML at rawURL. A non-200 status returns the page along with an *Error.
func (f *Fetcher) Page(ctx context.Context, rawURL string) (*Page, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", StatusCode: resp.StatusCode, Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}
	return page, nil
}

// JobPosting fetches a job posting and returns its main text.
// When a renderer is configured it is tried if the HTTP fetch fails or yields too little text.
func (f *Fetcher) JobPosting(ctx context.Context, rawURL string) (string, error) {
	platform := DetectPlatform(rawURL)

	var text string
	page, fetchErr := f.Page(ctx, rawURL)
	if fetchErr == nil {
		extracted, err := ExtractText(page.HTML, platform)
		if err != nil {
			return "", &Error{URL: rawURL, Message: "failed to extract text", Cause: err}
		}
		text = extracted
	} else if f.renderer == nil || IsInvalidURL(fetchErr) {
		return "", fetchErr
	}

	if f.renderer != nil && len(text) < MinContentLength {
		f.logger.Info("rendering job posting in browser",
			zap.String("url", rawURL),
			zap.String("platform", string(platform)),
			zap.Int("httpTextLength", len(text)))

		rendered, err := f.renderText(ctx, rawURL, platform)
		switch {
		case err == nil && len(rendered) > len(text):
			text = rendered
		case err != nil && fetchErr != nil:
			return "", fetchErr
		case err != nil:
			f.logger.Warn("browser rendering failed, keeping HTTP text", zap.String("url", rawURL), zap.Error(err))
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: rawURL, Message: "no text found in page"}
	}
	return text, nil
}

func (f *Fetcher) renderText(ctx context.Context, rawURL string, platform Platform) (string, error) {
	html, err := f.renderer.Render(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return ExtractText(html, platform)
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &Error{URL: rawURL, Message: msgInvalidURL, Cause: err}
	}
	return nil
}

// IsInvalidURL reports whether err was caused by a malformed or non-HTTP URL
func IsInvalidURL(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Message == msgInvalidURL
}

// blockElements end a line of text when the page is flattened
const blockElements = "p, div, li, ul, ol, h1, h2, h3, h4, h5, h6, tr, section, article, header, br"

// ExtractText parses HTML and returns the posting's main text, one block per line.
// Noise such as navigation, application forms and EEO statements is removed first.
func ExtractText(html string, platform Platform) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, script, style, noscript, iframe, svg, .ad, .advertisement, .sidebar, .popup").Remove()
	doc.Find(strings.Join(NoiseSelectors(platform), ", ")).Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var main *goquery.Selection
	for _, selector := range ContentSelectors(platform) {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	text := cleanWhitespace(main.Text())

	// Boards often keep the job title in an h1 outside the description container
	if title := cleanWhitespace(doc.Find("h1").First().Text()); title != "" && !hasLine(text, title) {
		text = strings.TrimSuffix(title+"\n"+text, "\n")
	}
	return text, nil
}

func hasLine(text, line string) bool {
	for _, l := range strings.Split(text, "\n") {
		if l == line {
			return true
		}
	}
	return false
}

// cleanWhitespace collapses runs of spaces and drops blank lines.
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
