// Package richtext extracts plain text from the HTML bodies of blog posts and
// derives reading time and excerpts from it.
package richtext

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used by ReadTime.
const WordsPerMinute = 200

// blockSelector lists elements whose text is separated from its neighbours.
const blockSelector = "p, div, br, li, ul, ol, h1, h2, h3, h4, h5, h6, blockquote, pre, tr, td, th, section, article, figure, figcaption"

// PlainText returns the visible text of an HTML fragment with whitespace
// collapsed to single spaces.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// WordCount returns the number of words in the visible text of html.
func WordCount(html string) (int, error) {
	text, err := PlainText(html)
	if err != nil {
		return 0, err
	}
	return len(strings.Fields(text)), nil
}

// ReadTime estimates minutes to read html at WordsPerMinute, rounded up.
// Any post takes at least one minute.
func ReadTime(html string) (int, error) {
	words, err := WordCount(html)
	if err != nil {
		return 0, err
	}
	minutes := int(math.Ceil(float64(words) / WordsPerMinute))
	return max(minutes, 1), nil
}

// Excerpt returns at most maxRunes runes of the visible text of html, cut at
// a word boundary and ending in "…" when shortened.
func Excerpt(html string, maxRunes int) (string, error) {
	text, err := PlainText(html)
	if err != nil {
		return "", err
	}
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text, nil
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,.;:") + "…", nil
}
