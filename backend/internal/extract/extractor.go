package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ws matches ASCII and Unicode space separators such as NBSP, which is
// common in scraped prose.
const ws = `[\s\p{Zs}]`

// phrase is a run of capitalized words. Every pattern is compiled with (?i),
// so the capitalization is a hint in the pattern text only and lowercase runs
// match too.
const phrase = `[A-Z][a-zA-Z]+(?:` + ws + `+[A-Z][a-zA-Z]+)*`

var (
	deityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Lord|Goddess|Sri|Shri)` + ws + `+(` + phrase + `)`),
		regexp.MustCompile(`(?i)(` + phrase + `)` + ws + `+(?:Temple|Swamy|Amman)`),
		regexp.MustCompile(`(?i)dedicated to` + ws + `+(` + phrase + `)`),
		regexp.MustCompile(`(?i)deity[:\s\p{Zs}]+(` + phrase + `)`),
	}

	// The first pattern captures the bare name in front of "Purana"; the
	// full title comes from the third.
	scripturePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([A-Z][a-zA-Z]+)` + ws + `+Purana`),
		regexp.MustCompile(`(?i)(Mahabharata|Ramayana|Bhagavad Gita|Vedas?)`),
		regexp.MustCompile(`(?i)(Skanda Purana|Padma Purana|Varaha Purana|Bhagavata Purana)`),
	}

	festivalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(` + phrase + `)` + ws + `+festival`),
		regexp.MustCompile(`(?i)festival[:\s\p{Zs}]+(` + phrase + `)`),
		regexp.MustCompile(`(?i)(Brahmotsavam|Navaratri|Rath Yatra|Tirukalyanam)`),
	}
)

// KnownDeities is the gazetteer searched as plain substrings.
var KnownDeities = []string{
	"Shiva", "Vishnu", "Krishna", "Rama", "Jagannath", "Venkateswara",
	"Balaji", "Meenakshi", "Parvati", "Lakshmi", "Saraswati", "Ganesha",
	"Hanuman", "Murugan", "Subhadra", "Balabhadra", "Sundareshwara",
}

// ArchitecturalStyles is the closed style vocabulary, in output order.
var ArchitecturalStyles = []string{
	"Dravidian", "Kalinga", "Chola", "Pallava", "Vijayanagara",
}

const (
	minDeityLength    = 3
	minFestivalLength = 4
)

// Entities groups the names found in one block of text.
type Entities struct {
	Deities    []string `json:"deities" yaml:"deities"`
	Scriptures []string `json:"scriptures" yaml:"scriptures"`
	Styles     []string `json:"styles" yaml:"styles"`
	Festivals  []string `json:"festivals" yaml:"festivals"`
}

// Count returns the total number of names across all categories.
func (e Entities) Count() int {
	return len(e.Deities) + len(e.Scriptures) + len(e.Styles) + len(e.Festivals)
}

// Extractor pulls deity, scripture, style and festival names out of prose.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	knownDeities []string
	styles       []string
}

// New returns an Extractor using the built-in gazetteer and style vocabulary.
func New() *Extractor {
	return &Extractor{
		knownDeities: KnownDeities,
		styles:       ArchitecturalStyles,
	}
}

// Extract runs every category over text.
func (e *Extractor) Extract(text string) Entities {
	return Entities{
		Deities:    e.Deities(text),
		Scriptures: e.Scriptures(text),
		Styles:     e.Styles(text),
		Festivals:  e.Festivals(text),
	}
}

// Deities returns deity names from the honorific/suffix patterns plus any
// gazetteer hits.
func (e *Extractor) Deities(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	found := matchAll(text, deityPatterns, minDeityLength)
	e.addKnownDeities(found, text)
	return sortedKeys(found)
}

// ExtractProse is Extract for record fields that may carry HTML. Patterns
// run over the plain-text form; gazetteer and style lookups also see the raw
// text so names that only survive inside markup are still found.
func (e *Extractor) ExtractProse(raw string) Entities {
	plain := PlainText(raw)
	if plain == raw {
		return e.Extract(raw)
	}

	both := raw + "\n" + plain
	deities := matchAll(plain, deityPatterns, minDeityLength)
	e.addKnownDeities(deities, both)

	return Entities{
		Deities:    sortedKeys(deities),
		Scriptures: e.Scriptures(plain),
		Styles:     e.Styles(both),
		Festivals:  e.Festivals(plain),
	}
}

func (e *Extractor) addKnownDeities(found map[string]struct{}, text string) {
	lower := strings.ToLower(text)
	for _, deity := range e.knownDeities {
		if strings.Contains(lower, strings.ToLower(deity)) {
			found[deity] = struct{}{}
		}
	}
}

// Scriptures returns scripture references.
func (e *Extractor) Scriptures(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	return sortedKeys(matchAll(text, scripturePatterns, 0))
}

// Styles returns the vocabulary entries mentioned in text, in vocabulary order.
func (e *Extractor) Styles(text string) []string {
	styles := []string{}
	if strings.TrimSpace(text) == "" {
		return styles
	}

	lower := strings.ToLower(text)
	for _, style := range e.styles {
		if strings.Contains(lower, strings.ToLower(style)) {
			styles = append(styles, style)
		}
	}
	return styles
}

// Festivals returns festival names.
func (e *Extractor) Festivals(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	return sortedKeys(matchAll(text, festivalPatterns, minFestivalLength))
}

// matchAll collects the first capture group of every match, dropping spans
// shorter than minLen runes after trimming.
func matchAll(text string, patterns []*regexp.Regexp, minLen int) map[string]struct{} {
	found := make(map[string]struct{})
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			span := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(span) < minLen {
				continue
			}
			found[titleCase(span)] = struct{}{}
		}
	}
	return found
}

func titleCase(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.Und).String(s)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
