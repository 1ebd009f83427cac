// Package locale applies per-language replacement tables to timeline event
// names and sync patterns.
//
// A Table is keyed by language code. Each Replacement carries two maps:
// ReplaceSync rewrites regular-expression sync patterns, ReplaceText rewrites
// the display names of events.
package locale

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SourceLanguage is the language timelines are written in. Parsing for the
// source language never applies replacements.
const SourceLanguage = "en"

// Replacement holds the substitutions for one language.
type Replacement struct {
	// Locale is the language code this replacement applies to.
	Locale string `json:"locale" yaml:"locale" toml:"locale"`

	// ReplaceSync maps regular expressions to replacement patterns. Keys
	// are matched case-insensitively against sync patterns.
	ReplaceSync map[string]string `json:"replace_sync,omitempty" yaml:"replace_sync,omitempty" toml:"replace_sync,omitempty"`

	// ReplaceText maps literal event names to translated names. Keys are
	// matched case-insensitively.
	ReplaceText map[string]string `json:"replace_text,omitempty" yaml:"replace_text,omitempty" toml:"replace_text,omitempty"`

	// MissingTranslations marks a table known to be incomplete.
	MissingTranslations bool `json:"missing_translations,omitempty" yaml:"missing_translations,omitempty" toml:"missing_translations,omitempty"`
}

// Table is a set of replacements keyed by language code.
type Table map[string]Replacement

// markerName matches `--name--` style pseudo events. Without a
// replacement they count as translated.
var markerName = regexp.MustCompile(`^--.*--$`)

type rule struct {
	key  string
	re   *regexp.Regexp
	repl string
}

// Translator applies one language's replacements.
// A Translator is safe for concurrent use.
type Translator struct {
	lang   string
	active bool
	sync   []rule
	text   []rule
}

// NewTranslator builds a Translator for lang from table. A nil table, the
// source language, or a language missing from the table yields an inactive
// Translator that returns its input unchanged. An active Translator also
// applies the Common entries for lang that table does not override.
func NewTranslator(table Table, lang string) (*Translator, error) {
	tr := &Translator{lang: lang}
	if lang == "" || lang == SourceLanguage || table == nil {
		return tr, nil
	}
	r, ok := table[lang]
	if !ok {
		return tr, nil
	}
	tr.active = true
	common := Common[lang]

	for _, key := range orderedKeys(r.ReplaceSync, common.ReplaceSync) {
		repl, ok := r.ReplaceSync[key]
		if !ok {
			repl = common.ReplaceSync[key]
		}
		re, err := regexp.Compile("(?i)" + key)
		if err != nil {
			return nil, fmt.Errorf("locale %s: invalid replace_sync key %q: %w", lang, key, err)
		}
		tr.sync = append(tr.sync, rule{key: key, re: re, repl: repl})
	}
	for _, key := range orderedKeys(r.ReplaceText, common.ReplaceText) {
		expr := "(?i)" + regexp.QuoteMeta(key)
		repl, ok := r.ReplaceText[key]
		if !ok {
			repl = common.ReplaceText[key]
			expr = "(?i)^" + regexp.QuoteMeta(key) + "$"
		}
		tr.text = append(tr.text, rule{key: key, re: regexp.MustCompile(expr), repl: repl})
	}
	return tr, nil
}

// orderedKeys returns the non-empty keys of user and of the common entries
// user does not already define case-insensitively. They are sorted longest
// first so that "Boss Add" is replaced before "Boss", then lexicographically.
func orderedKeys(user, common map[string]string) []string {
	keys := make([]string, 0, len(user)+len(common))
	seen := make(map[string]bool, len(user))
	for k := range user {
		if k != "" {
			keys = append(keys, k)
			seen[strings.ToLower(k)] = true
		}
	}
	for k := range common {
		if !seen[strings.ToLower(k)] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Language returns the target language code.
func (t *Translator) Language() string { return t.lang }

// Active reports whether replacements are applied.
func (t *Translator) Active() bool { return t.active }

// Sync rewrites a regular-expression sync pattern. The bool reports
// whether any replacement matched.
func (t *Translator) Sync(pattern string) (string, bool) {
	if !t.active {
		return pattern, false
	}
	matched := false
	for _, r := range t.sync {
		if r.re.MatchString(pattern) {
			matched = true
			pattern = r.re.ReplaceAllString(pattern, r.repl)
		}
	}
	return pattern, matched
}

// Text rewrites an event name. The bool reports whether the name is
// considered translated: either a replacement matched, or the name is a
// `--marker--`.
func (t *Translator) Text(name string) (string, bool) {
	if !t.active {
		return name, false
	}
	orig := name
	matched := false
	for _, r := range t.text {
		if r.re.MatchString(name) {
			matched = true
			name = r.re.ReplaceAllLiteralString(name, r.repl)
		}
	}
	return name, matched || markerName.MatchString(orig)
}

// wordPattern finds alphabetic runs in a regular expression.
var wordPattern = regexp.MustCompile(`[A-Za-z]+`)

// escapePattern matches escape sequences such as \d or \y{Name}.
var escapePattern = regexp.MustCompile(`\\(?:[a-zA-Z]\{[^}]*\}|.)`)

// groupPattern matches group syntax such as (?i), (?: or (?P<name>.
var groupPattern = regexp.MustCompile(`\(\?(?:P?<[^>]*>|[a-zA-Z:]*)`)

var hexWord = regexp.MustCompile(`^[0-9A-Fa-f]+$`)

// NeedsTranslation reports whether a sync pattern contains language-specific
// words. Patterns consisting only of escapes, group syntax and hexadecimal
// identifiers are language-neutral.
func NeedsTranslation(pattern string) bool {
	stripped := escapePattern.ReplaceAllString(pattern, " ")
	stripped = groupPattern.ReplaceAllString(stripped, " ")
	for _, w := range wordPattern.FindAllString(stripped, -1) {
		if !hexWord.MatchString(w) {
			return true
		}
	}
	return false
}

// Merge returns a table with b's entries layered over a's. Maps within a
// language are merged key by key.
func Merge(a, b Table) Table {
	out := make(Table, len(a)+len(b))
	for lang, r := range a {
		out[lang] = clone(r)
	}
	for lang, r := range b {
		cur, ok := out[lang]
		if !ok {
			out[lang] = clone(r)
			continue
		}
		for k, v := range r.ReplaceSync {
			cur.ReplaceSync = put(cur.ReplaceSync, k, v)
		}
		for k, v := range r.ReplaceText {
			cur.ReplaceText = put(cur.ReplaceText, k, v)
		}
		cur.MissingTranslations = cur.MissingTranslations || r.MissingTranslations
		out[lang] = cur
	}
	return out
}

func clone(r Replacement) Replacement {
	c := r
	c.ReplaceSync = nil
	c.ReplaceText = nil
	for k, v := range r.ReplaceSync {
		c.ReplaceSync = put(c.ReplaceSync, k, v)
	}
	for k, v := range r.ReplaceText {
		c.ReplaceText = put(c.ReplaceText, k, v)
	}
	return c
}

func put(m map[string]string, k, v string) map[string]string {
	if m == nil {
		m = make(map[string]string)
	}
	m[k] = v
	return m
}

// Languages returns the table's language codes in sorted order.
func (t Table) Languages() []string {
	langs := make([]string, 0, len(t))
	for lang := range t {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
