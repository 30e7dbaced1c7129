package model

import (
	"strings"
	"unicode"
)

// HideRune is the mask character substituted for unrevealed letters.
const HideRune = '_'

// punctuationBlacklist holds characters that may appear inside a word run
// but are never guessable.
const punctuationBlacklist = ",.!?;:"

// Vowels is the set of guessable vowels, compared case-insensitively.
const Vowels = "aeiouAEIOU"

// Word is a single letter-run within a phrase. It tracks which of its
// characters have been revealed by guesses.
type Word struct {
	text       string
	characters []rune
	revealed   []rune
}

// NewWord creates a word from one run of text and hides it.
func NewWord(text string) *Word {
	characters := make([]rune, 0, len(text))
	for _, r := range text {
		if !strings.ContainsRune(punctuationBlacklist, r) {
			characters = append(characters, r)
		}
	}

	revealed := make([]rune, len(characters))
	for i := range revealed {
		revealed[i] = HideRune
	}

	return &Word{
		text:       text,
		characters: characters,
		revealed:   revealed,
	}
}

// Text returns the original run text.
func (w *Word) Text() string {
	return w.text
}

// GuessConsonant reveals every occurrence of c if c is a consonant present
// in the word. Guessing a vowel through this path reveals nothing.
func (w *Word) GuessConsonant(c rune) bool {
	if !IsConsonant(c) {
		return false
	}
	return w.reveal(c)
}

// GuessVowel reveals every occurrence of c if c is a vowel present in the
// word. Guessing a consonant through this path reveals nothing.
func (w *Word) GuessVowel(c rune) bool {
	if !IsVowel(c) {
		return false
	}
	return w.reveal(c)
}

// reveal uncovers every occurrence of c, case-insensitively, preserving the
// word's original letter case in the revealed buffer.
func (w *Word) reveal(c rune) bool {
	hit := false
	for i, r := range w.characters {
		if unicode.ToLower(r) == unicode.ToLower(c) {
			w.revealed[i] = r
			hit = true
		}
	}
	return hit
}

// Revealed reports whether every character of the word has been uncovered.
func (w *Word) Revealed() bool {
	return string(w.characters) == string(w.revealed)
}

// Render returns the word's current masked representation.
func (w *Word) Render() string {
	return string(w.revealed)
}

// IsVowel reports whether c is one of aeiou, case-insensitively.
func IsVowel(c rune) bool {
	return strings.ContainsRune(Vowels, c)
}

// IsConsonant reports whether c is a letter outside the vowel set.
func IsConsonant(c rune) bool {
	return unicode.IsLetter(c) && !IsVowel(c)
}

// phraseElement is either a word or a literal separator.
type phraseElement struct {
	word      *Word  // nil for separators
	separator string // set when word is nil
}

// Phrase is the secret text to be guessed, parsed once into words and
// separators at construction. Rendering the element sequence is the only
// way to read the current puzzle state.
type Phrase struct {
	text     string
	elements []phraseElement
}

// NewPhrase parses text into a phrase. Letter runs become words; every
// other character, digits included, is kept as a literal separator. Only
// letters can be guessed, so anything else must stay visible for the
// phrase to be completable.
func NewPhrase(text string) *Phrase {
	p := &Phrase{text: text}

	var run []rune
	flush := func() {
		if len(run) > 0 {
			p.elements = append(p.elements, phraseElement{word: NewWord(string(run))})
			run = run[:0]
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) {
			run = append(run, r)
			continue
		}
		flush()
		p.elements = append(p.elements, phraseElement{separator: string(r)})
	}
	flush()

	return p
}

// Text returns the original phrase text.
func (p *Phrase) Text() string {
	return p.text
}

// GuessConsonant reveals c across every word; true if any occurrence was
// revealed.
func (p *Phrase) GuessConsonant(c rune) bool {
	hit := false
	for _, e := range p.elements {
		if e.word != nil && e.word.GuessConsonant(c) {
			hit = true
		}
	}
	return hit
}

// GuessVowel reveals c across every word; true if any occurrence was
// revealed.
func (p *Phrase) GuessVowel(c rune) bool {
	hit := false
	for _, e := range p.elements {
		if e.word != nil && e.word.GuessVowel(c) {
			hit = true
		}
	}
	return hit
}

// Resolve compares candidate against the original text, case-insensitively
// and whitespace-exactly. It never mutates reveal state.
func (p *Phrase) Resolve(candidate string) bool {
	return strings.EqualFold(p.text, candidate)
}

// Revealed reports whether every word in the phrase has been fully
// uncovered.
func (p *Phrase) Revealed() bool {
	for _, e := range p.elements {
		if e.word != nil && !e.word.Revealed() {
			return false
		}
	}
	return true
}

// Render returns the display string with unrevealed letters masked and all
// separators intact.
func (p *Phrase) Render() string {
	var b strings.Builder
	for _, e := range p.elements {
		if e.word != nil {
			b.WriteString(e.word.Render())
		} else {
			b.WriteString(e.separator)
		}
	}
	return b.String()
}
