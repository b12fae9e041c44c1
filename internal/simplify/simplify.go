// Package simplify extracts the readable content block from an HTML
// document and converts it to Markdown with ATX-style headings.
package simplify

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// ErrorPlaceholder is the sentinel returned to callers when a page could
// not be simplified. The fetch pipeline emits it in place of page content.
const ErrorPlaceholder = "<error>Page failed to be simplified from HTML</error>"

// ErrNoReadableContent indicates that readability extraction found no
// content block in the document.
var ErrNoReadableContent = errors.New("no readable content in document")

// Simplifier converts HTML documents to lightweight Markdown.
type Simplifier struct {
	converter *md.Converter
}

// New creates a Simplifier with an ATX-heading Markdown converter.
func New() *Simplifier {
	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle: "atx",
	})
	return &Simplifier{converter: converter}
}

// Simplify runs readability extraction over the document and converts the
// extracted content block to Markdown. Extraction failure is a terminal,
// reported outcome: it returns ErrNoReadableContent, never retries.
func (s *Simplifier) Simplify(htmlContent string) (string, error) {
	// readability wants a page URL for resolving relative references;
	// documents arrive here already fetched, so a blank base is fine.
	pageURL := &url.URL{Scheme: "https", Host: "localhost"}

	article, err := readability.FromReader(strings.NewReader(htmlContent), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoReadableContent, err)
	}

	if !hasTextContent(article.Content) {
		return "", ErrNoReadableContent
	}

	markdown, err := s.converter.ConvertString(article.Content)
	if err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	return markdown, nil
}

// hasTextContent reports whether the HTML fragment contains any
// non-whitespace text when its node tree is walked.
func hasTextContent(fragment string) bool {
	if strings.TrimSpace(fragment) == "" {
		return false
	}

	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return false
	}

	return strings.TrimSpace(extractText(node)) != ""
}

// extractText recursively extracts all text content from a node and its children
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractText(c))
	}

	return text.String()
}
