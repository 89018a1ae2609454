package ai

import (
	"context"
	"html"
	"iter"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Messages substituted for a reply when generation fails.
const (
	MsgNoKey      = "Error: API Key not found."
	MsgNoResponse = "No response generated."
)

// Service generates assistant text. Implementations never return errors:
// every failure is rendered as a message in place of the reply.
type Service interface {
	// Generate returns the whole reply for prompt.
	Generate(ctx context.Context, prompt string) string
	// GenerateStream yields the raw reply in chunks. The sequence is finite
	// and single-use; ranging over it again issues a new request. Callers
	// Sanitize the assembled text, never a single chunk.
	GenerateStream(ctx context.Context, prompt string) iter.Seq[string]
}

// ErrorText formats a failure the way callers display it.
func ErrorText(err error) string {
	if err == nil {
		return "Error: Unknown error occurred."
	}
	return "Error: " + err.Error()
}

var strict = bluemonday.StrictPolicy()

// Sanitize strips HTML from model output so it can be shown as plain text.
// It expects the whole reply assembled so far: code between backticks and
// angle brackets that do not open an HTML element are kept verbatim.
func Sanitize(s string) string {
	parts := strings.Split(s, "`")
	for i := 0; i < len(parts); i += 2 {
		parts[i] = html.UnescapeString(strict.Sanitize(escapeNonMarkup(parts[i])))
	}
	return strings.Join(parts, "`")
}

// escapeNonMarkup entity-escapes every '<' that does not start an HTML tag
// or comment, so expressions like vector<int> survive the policy.
func escapeNonMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '<' && !opensMarkup(s[i+1:]) {
			sb.WriteString("&lt;")
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func opensMarkup(rest string) bool {
	if strings.HasPrefix(rest, "!--") {
		return true
	}
	rest = strings.TrimPrefix(rest, "/")
	end := 0
	for end < len(rest) && isAlnum(rest[end]) {
		end++
	}
	if end == 0 || (end < len(rest) && !strings.ContainsRune(" \t\n/>", rune(rest[end]))) {
		return false
	}
	_, ok := htmlElements[strings.ToLower(rest[:end])]
	return ok
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

var htmlElements = map[string]struct{}{}

func init() {
	for _, name := range strings.Fields(`a abbr address area article aside audio b base bdi bdo
		blockquote body br button canvas caption cite code col colgroup data dd del details
		dfn dialog div dl dt em embed fieldset figcaption figure footer form h1 h2 h3 h4 h5
		h6 head header hr html i iframe img input ins kbd label legend li link main mark meta
		meter nav noscript object ol optgroup option output p param picture pre progress q
		rp rt ruby s samp script section select small source span strong style sub summary
		sup svg table tbody td template textarea tfoot th thead time title tr track u ul var
		video wbr`) {
		htmlElements[name] = struct{}{}
	}
}
