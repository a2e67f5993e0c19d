package model

import "testing"

func TestValidCodeValue(t *testing.T) {
	t.Parallel()

	valid := []string{"a", "Z", "0", "abc123", "ABCDEF", "1234567890"}
	for _, v := range valid {
		if !ValidCodeValue(v) {
			t.Errorf("ValidCodeValue(%q) = false, want true", v)
		}
	}

	invalid := []string{"", " ", "ab-12", "ab_12", "ab 12", "абв", "abc!", "a.b", "✓"}
	for _, v := range invalid {
		if ValidCodeValue(v) {
			t.Errorf("ValidCodeValue(%q) = true, want false", v)
		}
	}
}
