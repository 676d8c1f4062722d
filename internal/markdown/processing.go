package markdown

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Post text is stored raw and rendered on the way out:
// markdown subset -> quote/reply-link markup -> sanitized HTML.

// After markdown rendering '>' is escaped, so match the entity form.
var replyLinkRegex = regexp.MustCompile(`&gt;&gt;(\d+)`)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	// Restricted parser set: no blockquote parser, so leading '>' stays
	// literal text for the quote and reply-link passes below. Headings,
	// lists and raw HTML are left out on purpose.
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile("^(quote|reply-link)$")).OnElements("span", "a")
	policy.RequireNoFollowOnLinks(true)

	return &TextProcessor{md: md, policy: policy}
}

// ProcessPost renders a post's text to safe HTML and returns the reply ids it
// references with >>N links.
func (tp *TextProcessor) ProcessPost(text string) (string, []int64) {
	rendered, err := tp.renderText(text)
	if err != nil {
		rendered = text
	}
	linked, refs := tp.processReplyLinks(rendered)
	quoted := tp.processGreentext(linked)
	return tp.policy.Sanitize(quoted), refs
}

func (tp *TextProcessor) renderText(text string) (string, error) {
	var buf bytes.Buffer
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		return text, err
	}
	return strings.TrimSpace(buf.String()), nil
}

// processReplyLinks converts >>N references into in-thread anchors.
func (tp *TextProcessor) processReplyLinks(text string) (string, []int64) {
	var refs []int64
	seen := make(map[string]struct{})

	processed := replyLinkRegex.ReplaceAllStringFunc(text, func(match string) string {
		id := replyLinkRegex.FindStringSubmatch(match)[1]
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			if n, err := parseId(id); err == nil {
				refs = append(refs, n)
			}
		}
		return `<a class="reply-link" href="#p` + id + `">&gt;&gt;` + id + `</a>`
	})

	return processed, refs
}

func parseId(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// processGreentext wraps quote lines (single leading >) in a styled span.
func (tp *TextProcessor) processGreentext(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = quoteLine(line)
	}
	return strings.Join(lines, "\n")
}

// quoteLine wraps one rendered line in a quote span when it starts with an
// escaped '>' (but not '>>', those are reply links). Surrounding paragraph
// and break tags stay outside the span.
func quoteLine(line string) string {
	body := line
	prefix, suffix := "", ""
	if strings.HasPrefix(body, "<p>") {
		prefix = "<p>"
		body = body[len("<p>"):]
	}
	if strings.HasSuffix(body, "</p>") {
		suffix = "</p>"
		body = body[:len(body)-len("</p>")]
	} else if strings.HasSuffix(body, "<br>") {
		suffix = "<br>"
		body = body[:len(body)-len("<br>")]
	}

	if !strings.HasPrefix(body, "&gt;") || strings.HasPrefix(body, "&gt;&gt;") {
		return line
	}
	return prefix + `<span class="quote">` + body + `</span>` + suffix
}
