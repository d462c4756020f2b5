// Package radio implements the natural-language-to-radio-code translator
// used by the dispatch widget. It is a flat keyword dictionary: longest
// matching phrase wins, no grammar, no context.
package radio

import (
	"sort"
	"strings"
)

// Code is one entry of the radio code table
type Code struct {
	Code    string `json:"code"`
	Meaning string `json:"meaning"`
}

// Match is one phrase of the input resolved to a radio code
type Match struct {
	Phrase   string `json:"phrase"`
	Code     string `json:"code"`
	Meaning  string `json:"meaning"`
	Position int    `json:"position"`
}

// Translation is the result of translating a free-text message
type Translation struct {
	Input   string  `json:"input"`
	Matches []Match `json:"matches"`
	Codes   []string `json:"codes"`
}

// phraseTable maps spoken phrases to radio codes. Multiple phrasings may
// share one code; matching is case-insensitive over normalized text.
var phraseTable = map[string]Code{
	"acknowledged":      {"10-4", "Affirmative"},
	"understood":        {"10-4", "Affirmative"},
	"copy that":         {"10-4", "Affirmative"},
	"negative":          {"10-74", "Negative"},
	"repeat":            {"10-9", "Repeat last transmission"},
	"say again":         {"10-9", "Repeat last transmission"},
	"out of service":    {"10-7", "Out of service"},
	"going off duty":    {"10-7", "Out of service"},
	"in service":        {"10-8", "In service"},
	"back on duty":      {"10-8", "In service"},
	"location":          {"10-20", "Location"},
	"disregard":         {"10-22", "Disregard"},
	"arrived on scene":  {"10-23", "Arrived at scene"},
	"on scene":          {"10-23", "Arrived at scene"},
	"en route":          {"10-76", "En route"},
	"on my way":         {"10-76", "En route"},
	"traffic accident":  {"10-50", "Traffic accident"},
	"vehicle collision": {"10-50", "Traffic accident"},
	"ambulance needed":  {"10-52", "Ambulance needed"},
	"need medical":      {"10-52", "Ambulance needed"},
	"fire":              {"10-70", "Fire"},
	"structure fire":    {"10-70", "Fire"},
	"crime in progress": {"10-31", "Crime in progress"},
	"pursuit":           {"10-80", "Vehicle pursuit"},
	"chase":             {"10-80", "Vehicle pursuit"},
	"officer down":      {"10-99", "Officer down, emergency"},
	"shots fired":       {"10-71", "Shots fired"},
	"send backup":       {"10-78", "Requesting backup"},
	"need backup":       {"10-78", "Requesting backup"},
}

// orderedPhrases holds dictionary phrases longest first, so "arrived on
// scene" wins over "on scene" when both occur at overlapping positions.
var orderedPhrases = func() []string {
	phrases := make([]string, 0, len(phraseTable))
	for p := range phraseTable {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})
	return phrases
}()

// Translate resolves every known phrase in the input to its radio code.
// Matches are reported in input order; overlapping matches resolve to the
// longest phrase.
func Translate(input string) *Translation {
	normalized := strings.ToLower(input)
	consumed := make([]bool, len(normalized))

	var matches []Match
	for _, phrase := range orderedPhrases {
		offset := 0
		for {
			idx := strings.Index(normalized[offset:], phrase)
			if idx < 0 {
				break
			}
			pos := offset + idx
			offset = pos + len(phrase)
			if overlaps(consumed, pos, len(phrase)) {
				continue
			}
			markConsumed(consumed, pos, len(phrase))
			entry := phraseTable[phrase]
			matches = append(matches, Match{
				Phrase:   phrase,
				Code:     entry.Code,
				Meaning:  entry.Meaning,
				Position: pos,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Position < matches[j].Position })

	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		codes = append(codes, m.Code)
	}

	return &Translation{
		Input:   input,
		Matches: matches,
		Codes:   codes,
	}
}

// Lookup returns the meaning of a radio code, or false if unknown
func Lookup(code string) (Code, bool) {
	for _, entry := range phraseTable {
		if entry.Code == code {
			return entry, true
		}
	}
	return Code{}, false
}

func overlaps(consumed []bool, pos, length int) bool {
	for i := pos; i < pos+length; i++ {
		if consumed[i] {
			return true
		}
	}
	return false
}

func markConsumed(consumed []bool, pos, length int) {
	for i := pos; i < pos+length; i++ {
		consumed[i] = true
	}
}
