package dom

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Stored snapshots carry whatever text a card held when it was saved, so
// nothing from them is written into generated markup unfiltered.
var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from s and returns it escaped for use as element
// content or a quoted attribute value.
func cleanText(s string) string {
	return textPolicy.Sanitize(strings.TrimSpace(s))
}

// cleanURL keeps relative and http(s) URLs and returns them attribute-escaped.
func cleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return html.EscapeString(u.String())
}

func productHref(id string) string {
	return html.EscapeString("product.html?id=" + url.QueryEscape(id))
}
