package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanSnippet strips markup and collapses whitespace in a content snippet,
// truncating the result to maxLen runes.
func CleanSnippet(content string, maxLen int) string {
	text := content
	if strings.Contains(content, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			// Remove noise before extracting text
			doc.Find("script, style, iframe").Each(func(i int, s *goquery.Selection) {
				s.Remove()
			})
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if maxLen > 0 && len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return text
}
