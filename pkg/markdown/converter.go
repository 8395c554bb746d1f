package markdown

import (
	"strings"

	"github.com/russross/blackfriday/v2"
)

// ToHTML converts generated markdown to HTML for clients that request
// the html response format
func ToHTML(markdown string) string {
	if markdown == "" {
		return ""
	}

	html := string(blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(blackfriday.CommonExtensions)))

	return strings.TrimSpace(html)
}
