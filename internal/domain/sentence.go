package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxSentenceLength is the longest sentence, in characters, an entry may hold.
const MaxSentenceLength = 500

// SentenceField is the field name reported in sentence validation errors.
const SentenceField = "sentence"

// Validation messages shown to the writer.
const (
	msgSentenceEmpty   = "Sentence cannot be empty."
	msgSentenceTooLong = "Sentence cannot exceed 500 characters."
)

// ValidateSentence trims surrounding whitespace from raw and checks that the
// result holds between 1 and MaxSentenceLength characters. Whitespace-only
// input counts as empty. Length is measured in Unicode code points.
//
// The trimmed text is returned unchanged otherwise; no other normalization
// is applied.
func ValidateSentence(raw string) (string, error) {
	sentence := strings.TrimSpace(raw)

	n := utf8.RuneCountInString(sentence)
	if n == 0 {
		return "", &ValidationError{Field: SentenceField, Kind: EmptyInput, Message: msgSentenceEmpty}
	}
	if n > MaxSentenceLength {
		return "", &ValidationError{Field: SentenceField, Kind: TooLong, Message: msgSentenceTooLong}
	}

	return sentence, nil
}
