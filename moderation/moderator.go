package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator masks configured words in chat bodies.
// Matching ignores case, punctuation between letters and common leet substitutions.
type Moderator struct {
	automaton *goahocorasick.Machine // nil when the dictionary is empty
	mask      rune
}

// leet maps substitutes back to the letter they stand for.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

// folded is a chat body reduced to the comparable letters, with the position
// of every kept rune in the original text.
type folded struct {
	runes  []rune
	origin []int
}

func fold(text []rune) folded {
	f := folded{runes: make([]rune, 0, len(text)), origin: make([]int, 0, len(text))}
	for i, r := range text {
		if sub, ok := leet[r]; ok {
			r = sub
		}
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		f.runes = append(f.runes, unicode.ToLower(r))
		f.origin = append(f.origin, i)
	}
	return f
}

// NewModerator builds the automaton from the censored words.
// Duplicates and words made only of punctuation are skipped.
func NewModerator(words []string, mask rune, log *slog.Logger) (*Moderator, error) {
	seen := make(map[string]struct{}, len(words))
	var dictionary [][]rune
	for _, word := range words {
		key := fold([]rune(word)).runes
		if len(key) == 0 {
			continue
		}
		if _, dup := seen[string(key)]; dup {
			continue
		}
		seen[string(key)] = struct{}{}
		dictionary = append(dictionary, key)
	}

	if len(dictionary) == 0 {
		log.Info("No censored word configured")
		return &Moderator{mask: mask}, nil
	}
	automaton := new(goahocorasick.Machine)
	if err := automaton.Build(dictionary); err != nil {
		return nil, err
	}
	log.Info("Moderation automaton built", "words", len(dictionary))
	return &Moderator{automaton: automaton, mask: mask}, nil
}

// Censor returns the body with every match masked rune by rune, spacing untouched,
// and the matched dictionary words in order of appearance.
func (m *Moderator) Censor(body string) (string, []string) {
	if m.automaton == nil {
		return body, nil
	}
	text := []rune(body)
	f := fold(text)
	if len(f.runes) == 0 {
		return body, nil
	}

	hits := m.automaton.MultiPatternSearch(f.runes, false)
	if len(hits) == 0 {
		return body, nil
	}
	words := make([]string, 0, len(hits))
	for _, hit := range hits {
		last := hit.Pos + len(hit.Word) - 1
		if hit.Pos < 0 || last >= len(f.origin) {
			continue
		}
		// Punctuation inside the match is masked as well.
		for i := f.origin[hit.Pos]; i <= f.origin[last]; i++ {
			text[i] = m.mask
		}
		words = append(words, string(hit.Word))
	}
	return string(text), words
}
