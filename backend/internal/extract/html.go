package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

var htmlTagPattern = regexp.MustCompile(`<\s*/?\s*([a-zA-Z][a-zA-Z0-9]*)(?:\s[^>]*)?/?>`)

// markupElements are the tags that mark a field as HTML. Anything else in
// angle brackets, such as "<Venkateswara>", is treated as prose.
var markupElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.Article: true, atom.B: true,
	atom.Blockquote: true, atom.Body: true, atom.Br: true, atom.Cite: true,
	atom.Code: true, atom.Dd: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Em: true, atom.Figcaption: true, atom.Figure: true,
	atom.Font: true, atom.Footer: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Head: true, atom.Header: true, atom.Hr: true, atom.Html: true,
	atom.I: true, atom.Iframe: true, atom.Img: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Noscript: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Q: true, atom.Script: true,
	atom.Section: true, atom.Small: true, atom.Span: true, atom.Strong: true,
	atom.Style: true, atom.Sub: true, atom.Sup: true, atom.Svg: true,
	atom.Table: true, atom.Tbody: true, atom.Td: true, atom.Th: true,
	atom.Thead: true, atom.Tr: true, atom.U: true, atom.Ul: true,
}

const blockElements = "p, div, br, li, tr, td, th, h1, h2, h3, h4, h5, h6, section, article, blockquote"

// PlainText returns s with HTML markup removed. Text without known HTML
// elements is returned unchanged, as is text goquery cannot parse. Block
// elements are joined with ". " so a phrase pattern never spans two of them.
func PlainText(s string) string {
	if !hasMarkup(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find(blockElements).Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	var b strings.Builder
	prev := ""
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if prev != "" {
			if !endsSentence(prev) {
				b.WriteString(".")
			}
			b.WriteString(" ")
		}
		b.WriteString(line)
		prev = line
	}
	return b.String()
}

func hasMarkup(s string) bool {
	for _, m := range htmlTagPattern.FindAllStringSubmatch(s, -1) {
		if markupElements[atom.Lookup([]byte(strings.ToLower(m[1])))] {
			return true
		}
	}
	return false
}

func endsSentence(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return strings.ContainsRune(".!?;:", r)
}
