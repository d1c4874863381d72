package stego

import "unicode/utf8"

// Ranges a host is expected to expose for the embedding parameters.
const (
	MaxTextLen = 1024
	MaxModulus = 1024
	MaxOffset  = 1024
)

// Params selects the payload and which pixels of a pass carry it. A pixel is
// a carrier when its counter, starting at Offset, is a multiple of Modulus.
type Params struct {
	Text    string
	Modulus int
	Offset  int
}

// Validate checks what the encoder and decoder need to run at all.
func (p Params) Validate() error {
	if p.Modulus < 1 {
		return &ConfigurationError{Field: "modulus", Value: p.Modulus, Reason: "must be at least 1"}
	}
	if p.Offset < 0 {
		return &ConfigurationError{Field: "offset", Value: p.Offset, Reason: "must not be negative"}
	}
	return nil
}

// CheckLimits validates p against the ranges a host exposes to users.
func (p Params) CheckLimits() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Modulus > MaxModulus {
		return &ConfigurationError{Field: "modulus", Value: p.Modulus, Reason: "must be at most 1024"}
	}
	if p.Offset > MaxOffset {
		return &ConfigurationError{Field: "offset", Value: p.Offset, Reason: "must be at most 1024"}
	}
	if n := utf8.RuneCountInString(p.Text); n > MaxTextLen {
		return &ConfigurationError{Field: "text length", Value: n, Reason: "must be at most 1024 characters"}
	}
	return nil
}

// ClampText cuts the text to MaxTextLen characters. It reports how many
// characters were removed.
func ClampText(text string) (string, int) {
	n := 0
	for i := range text {
		if n == MaxTextLen {
			return text[:i], utf8.RuneCountInString(text[i:])
		}
		n++
	}
	return text, 0
}

// narrow keeps the low 8 bits of every rune. Runes above U+00FF lose
// information and are counted.
func narrow(text string) (payload []byte, narrowed int) {
	payload = make([]byte, 0, len(text))
	for _, r := range text {
		if r > 0xFF {
			narrowed++
		}
		payload = append(payload, byte(r))
	}
	return payload, narrowed
}
