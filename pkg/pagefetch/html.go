package pagefetch

import (
	"html"
	"regexp"
	"strings"
)

var (
	titlePattern  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaDescRe    = regexp.MustCompile(`(?is)<meta[^>]+name=["']description["'][^>]*>`)
	ogDescRe      = regexp.MustCompile(`(?is)<meta[^>]+property=["']og:description["'][^>]*>`)
	contentAttrRe = regexp.MustCompile(`(?is)content=["'](.*?)["']`)
	jsonLDRe      = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
)

func extractTitle(doc string) string {
	m := titlePattern.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

func extractMetaDescription(doc string) string {
	for _, re := range []*regexp.Regexp{metaDescRe, ogDescRe} {
		tag := re.FindString(doc)
		if tag == "" {
			continue
		}
		if m := contentAttrRe.FindStringSubmatch(tag); m != nil {
			return strings.TrimSpace(html.UnescapeString(m[1]))
		}
	}
	return ""
}

func extractJSONLD(doc string) []string {
	var blocks []string
	for _, m := range jsonLDRe.FindAllStringSubmatch(doc, -1) {
		body := strings.TrimSpace(m[1])
		if body != "" {
			blocks = append(blocks, body)
		}
	}
	return blocks
}

// VisibleText strips markup from an HTML document and returns its visible
// text with lines preserved. Block-level closing tags become newlines so the
// notes grammar can still see line structure.
func VisibleText(doc string) string {
	doc = scriptBlockRe.ReplaceAllString(doc, "")
	for _, tag := range []string{"</p>", "</li>", "</div>", "</h1>", "</h2>", "</h3>", "</tr>", "<br>", "<br/>", "<br />"} {
		doc = strings.ReplaceAll(doc, tag, tag+"\n")
	}
	doc = tagRe.ReplaceAllString(doc, "")
	doc = html.UnescapeString(doc)

	var lines []string
	for _, line := range strings.Split(doc, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}
