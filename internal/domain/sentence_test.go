package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSentence(t *testing.T) {
	t.Parallel() // Enable parallel execution

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "simple", raw: "Hello world", want: "Hello world"},
		{name: "trims surrounding whitespace", raw: "  \tHello world\n ", want: "Hello world"},
		{name: "keeps inner whitespace", raw: "a  b", want: "a  b"},
		{name: "empty", raw: "", wantErr: ErrEmptyInput},
		{name: "whitespace only", raw: " \t\n ", wantErr: ErrEmptyInput},
		{name: "exactly max length", raw: strings.Repeat("a", MaxSentenceLength), want: strings.Repeat("a", MaxSentenceLength)},
		{name: "one over max length", raw: strings.Repeat("a", MaxSentenceLength+1), wantErr: ErrTooLong},
		{name: "padding does not count toward length", raw: "   " + strings.Repeat("a", MaxSentenceLength) + "   ", want: strings.Repeat("a", MaxSentenceLength)},
		{name: "multibyte counted as characters", raw: strings.Repeat("é", MaxSentenceLength), want: strings.Repeat("é", MaxSentenceLength)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateSentence(tc.raw)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Expected error to match ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestValidationErrorFieldErrors(t *testing.T) {
	t.Parallel() // Enable parallel execution

	_, err := ValidateSentence("")

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %T", err)
	}

	fields := verr.FieldErrors()
	if got := fields[SentenceField]; len(got) != 1 || got[0] != "Sentence cannot be empty." {
		t.Errorf("Unexpected field errors: %v", fields)
	}
	if errors.Is(err, ErrTooLong) {
		t.Error("Empty input must not match ErrTooLong")
	}
}
