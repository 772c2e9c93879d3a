package reviews

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const (
	// SnippetMaxLen bounds each review snippet attached to a stop.
	SnippetMaxLen = 400

	// DefaultMaxSnippets bounds how many snippets one page contributes.
	DefaultMaxSnippets = 5
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Page is the distilled content of one review page.
type Page struct {
	Title    string
	Snippets []string
}

// Ingester turns a review page URL into snippets for Stop.Reviews.
type Ingester struct {
	fetcher     *Fetcher
	converter   *md.Converter
	maxSnippets int
	logger      *slog.Logger
}

// IngesterOption configures an Ingester.
type IngesterOption func(*Ingester)

// WithMaxSnippets caps snippets per page.
func WithMaxSnippets(n int) IngesterOption {
	return func(in *Ingester) {
		if n > 0 {
			in.maxSnippets = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) IngesterOption {
	return func(in *Ingester) { in.logger = logger }
}

// NewIngester creates an ingester on the given fetcher. A nil fetcher
// gets the default SSRF-guarded one.
func NewIngester(fetcher *Fetcher, opts ...IngesterOption) *Ingester {
	if fetcher == nil {
		fetcher = NewFetcher()
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	in := &Ingester{
		fetcher:     fetcher,
		converter:   converter,
		maxSnippets: DefaultMaxSnippets,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Ingest fetches a review page and distills it into snippets.
func (in *Ingester) Ingest(ctx context.Context, pageURL string) (*Page, error) {
	body, err := in.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}

	markdown, err := in.converter.ConvertString(article.Content)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}

	title := article.Title
	if title == "" {
		title = htmlTitle(body)
	}

	snippets := SplitSnippets(markdown, in.maxSnippets)
	in.logger.Debug("ingested review page",
		"url", pageURL,
		"title", title,
		"snippets", len(snippets))

	return &Page{Title: title, Snippets: snippets}, nil
}

// Snippets is the Ingest result reduced to its snippet list, for
// callers that attach reviews to a stop and do not need the title.
func (in *Ingester) Snippets(ctx context.Context, pageURL string) ([]string, error) {
	page, err := in.Ingest(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return page.Snippets, nil
}

// htmlTitle extracts the <title> element when readability found none.
func htmlTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(tokenizer.Token().Data)
				}
				return ""
			}
		}
	}
}

// SplitSnippets breaks markdown into at most max paragraph snippets of
// SnippetMaxLen runes each. Headings, images, and link-only lines are
// skipped; overlong paragraphs are cut at a word boundary.
func SplitSnippets(markdown string, max int) []string {
	cleaned := excessiveLinesRe.ReplaceAllString(markdown, "\n\n")

	var snippets []string
	for _, para := range strings.Split(cleaned, "\n\n") {
		if max > 0 && len(snippets) >= max {
			break
		}

		text := strings.TrimSpace(para)
		text = strings.Join(strings.Fields(text), " ")
		if text == "" || skipParagraph(text) {
			continue
		}

		snippets = append(snippets, truncateAtWord(text, SnippetMaxLen))
	}
	return snippets
}

// skipParagraph filters structural markdown that carries no review
// content.
func skipParagraph(text string) bool {
	if strings.HasPrefix(text, "#") || strings.HasPrefix(text, "![") {
		return true
	}
	// Link-only lines ("[more reviews](...)") have no prose value.
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, ")") && strings.Count(text, "](") == 1 {
		return true
	}
	return false
}

// truncateAtWord cuts text to at most limit runes, preferring the last
// space before the limit.
func truncateAtWord(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}
