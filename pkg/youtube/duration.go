package youtube

import (
	"encoding/xml"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var iso8601Pattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISO8601Duration converts the Data API's "PT1H2M3S" duration form to
// seconds. Returns ok=false for anything it does not recognize.
func ParseISO8601Duration(s string) (int, bool) {
	m := iso8601Pattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, false
	}

	total := 0
	for i, mult := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, false
		}
		total += n * mult
	}
	return total, true
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// stripTimedText flattens a timedtext XML document into plain caption text.
// Unparseable input yields "".
func stripTimedText(raw string) string {
	var doc timedText
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return ""
	}

	var b strings.Builder
	for _, t := range doc.Texts {
		s := strings.TrimSpace(html.UnescapeString(t.Body))
		if s == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}
