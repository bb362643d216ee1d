// Package ingest retrieves an uploaded resume document and turns it into
// bounded plain text for the extraction pipeline. PDF is the primary format;
// HTML is handled for resumes served through hosted viewer pages.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// MaxTextLength bounds the extracted text. Large enough for one-to-two page
// resumes while keeping downstream prompts affordable.
const MaxTextLength = 10000

// DefaultTimeout is the document fetch timeout.
const DefaultTimeout = 30 * time.Second

const defaultUserAgent = "Mozilla/5.0 (compatible; LinkLift/1.0)"

// FetchError reports a failed document retrieval. It is fatal for the
// analysis request; there is no retry tier for ingestion.
type FetchError struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ExtractError reports that the fetched bytes could not be converted to text.
type ExtractError struct {
	Message string
	Cause   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("text extraction failed: %s: %v", e.Message, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// Options configures document retrieval.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible fetch defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: defaultUserAgent,
	}
}

// Fetch retrieves the document bytes. Non-2xx responses and transport errors
// return a *FetchError.
func Fetch(ctx context.Context, urlStr string, opts *Options) ([]byte, string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, "", &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &FetchError{
			URL:        urlStr,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Text fetches the document at urlStr, extracts plain text by format and
// truncates it to MaxTextLength. Deterministic given identical bytes.
func Text(ctx context.Context, urlStr string, opts *Options) (string, error) {
	data, contentType, err := Fetch(ctx, urlStr, opts)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(data, contentType)
	if err != nil {
		return "", err
	}
	return Truncate(text), nil
}

// ExtractText converts document bytes into normalized plain text. The format
// is decided by content sniffing first, the Content-Type header second.
func ExtractText(data []byte, contentType string) (string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")) || strings.Contains(contentType, "pdf"):
		return pdfText(data)
	case strings.Contains(contentType, "html") || bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")):
		return htmlText(data)
	default:
		return normalizeWhitespace(string(data)), nil
	}
}

// Truncate caps text at MaxTextLength characters.
func Truncate(text string) string {
	if len(text) <= MaxTextLength {
		return text
	}
	return text[:MaxTextLength]
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Message: "failed to open PDF", Cause: err}
	}

	stream, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractError{Message: "failed to extract PDF text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return "", &ExtractError{Message: "failed to read PDF text stream", Cause: err}
	}
	return normalizeWhitespace(buf.String()), nil
}

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractError{Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("nav, footer, header, script, style, noscript").Remove()

	content := doc.Find("main, article, .content, #content").First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}
	return normalizeWhitespace(content.Text()), nil
}

var (
	inlineSpace = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRun  = regexp.MustCompile(`\n+`)
)

// normalizeWhitespace collapses space runs and blank lines while preserving
// line structure.
func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = inlineSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = newlineRun.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
