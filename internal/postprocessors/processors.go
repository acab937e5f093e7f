package postprocessors

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// StripControl removes control characters from the text. Newlines are
// kept as paragraph breaks and tabs survive until the whitespace
// collapse turns them into spaces.
type StripControl struct{}

// Name identifies the processor.
func (StripControl) Name() string { return "strip-control" }

// Process drops every control rune except '\n' and '\t'.
// Carriage returns are folded into newlines first so Windows line
// endings do not produce doubled breaks.
func (StripControl) Process(_ context.Context, text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, text), nil
}

// CollapseWhitespace collapses runs of whitespace to single spaces.
// Paragraph breaks are the exception: any run of whitespace containing
// a newline becomes exactly one newline.
type CollapseWhitespace struct{}

// Name identifies the processor.
func (CollapseWhitespace) Name() string { return "collapse-whitespace" }

// Process rewrites the text rune by rune, buffering whitespace runs.
func (CollapseWhitespace) Process(_ context.Context, text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	inRun := false
	runHasNewline := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inRun = true
			if r == '\n' {
				runHasNewline = true
			}
			continue
		}
		if inRun {
			if b.Len() > 0 {
				if runHasNewline {
					b.WriteByte('\n')
				} else {
					b.WriteByte(' ')
				}
			}
			inRun = false
			runHasNewline = false
		}
		b.WriteRune(r)
	}
	// Trailing whitespace is dropped entirely.
	return b.String(), nil
}

// NormaliseUnicode applies Unicode NFC so visually identical content
// compares and tokenises identically in the store.
type NormaliseUnicode struct{}

// Name identifies the processor.
func (NormaliseUnicode) Name() string { return "unicode-nfc" }

// Process returns the NFC form of the text.
func (NormaliseUnicode) Process(_ context.Context, text string) (string, error) {
	return norm.NFC.String(text), nil
}
