// Package eval scores a recommender against ground truth: precision@k for
// similar-image queries and word-overlap quality for transition prompts.
package eval

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// letterRun finds maximal [a-z] runs; words adds the Unicode word boundary
// check that RE2's ASCII-only \b lacks.
var letterRun = regexp.MustCompile(`[a-z]+`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an and or but in on at to for of by
		with is are was were be been being have has had
		do does did will would should could may might must
		can that this it as from up about out if so
		than no not only own such too very just`) {
		stopWords[w] = struct{}{}
	}
}

// PrecisionAtK returns the share of the first k results found among the
// first truthK ground-truth ids. Empty inputs or k <= 0 score 0.
func PrecisionAtK(got, truth []string, k, truthK int) float64 {
	if len(got) == 0 || len(truth) == 0 || k <= 0 {
		return 0
	}
	if truthK <= 0 || truthK > len(truth) {
		truthK = len(truth)
	}
	relevant := make(map[string]struct{}, truthK)
	for _, id := range truth[:truthK] {
		relevant[id] = struct{}{}
	}
	seen := make(map[string]struct{}, k)
	correct := 0
	for _, id := range got[:min(k, len(got))] {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := relevant[id]; ok {
			correct++
		}
	}
	return float64(correct) / float64(k)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// words returns the [a-z]+ runs of text bounded on both sides by a non-word
// rune or the text edge, where word runes are Unicode letters, numbers and
// underscore. "café" and "3d" yield nothing.
func words(text string) []string {
	var out []string
	for _, loc := range letterRun.FindAllStringIndex(text, -1) {
		if before, _ := utf8.DecodeLastRuneInString(text[:loc[0]]); loc[0] > 0 && isWordRune(before) {
			continue
		}
		if after, _ := utf8.DecodeRuneInString(text[loc[1]:]); loc[1] < len(text) && isWordRune(after) {
			continue
		}
		out = append(out, text[loc[0]:loc[1]])
	}
	return out
}

// WordCounts lowercases prompts, extracts whole [a-z]+ words, drops stop
// words and counts what remains.
func WordCounts(prompts []string) map[string]int {
	counts := map[string]int{}
	for _, prompt := range prompts {
		for _, w := range words(strings.ToLower(prompt)) {
			if _, stop := stopWords[w]; stop {
				continue
			}
			counts[w]++
		}
	}
	return counts
}

// TransitionQuality returns the fraction of ground-truth words whose count in
// prompts matches exactly.
func TransitionQuality(prompts []string, wordDict map[string]int) float64 {
	if len(prompts) == 0 || len(wordDict) == 0 {
		return 0
	}
	counts := WordCounts(prompts)
	matches := 0
	for w, want := range wordDict {
		if counts[w] == want {
			matches++
		}
	}
	return float64(matches) / float64(len(wordDict))
}
