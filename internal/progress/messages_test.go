package progress

import "testing"

func TestSequenceLocales(t *testing.T) {
	en := Sequence("en")
	id := Sequence("id")
	if len(en) != 8 || len(id) != 8 {
		t.Fatalf("expected 8 messages per locale, got en=%d id=%d", len(en), len(id))
	}
	if en[0] == id[0] {
		t.Fatalf("expected distinct localized messages, both %q", en[0])
	}
}

func TestSequenceFallsBackToEnglish(t *testing.T) {
	tests := []string{"", "fr", "de-DE", "nonsense", "en-US", "id-ID"}
	for _, locale := range tests {
		seq := Sequence(locale)
		if len(seq) != 8 {
			t.Fatalf("Sequence(%q) returned %d messages", locale, len(seq))
		}
	}
	if got := Sequence("fr")[0]; got != Sequence("en")[0] {
		t.Fatalf("unknown locale should fall back to english, got %q", got)
	}
	if got := Sequence("id-ID")[0]; got != Sequence("id")[0] {
		t.Fatalf("regional variant should match base locale, got %q", got)
	}
}

func TestCursorOrderAndClamp(t *testing.T) {
	steps := []string{"a", "b", "c", "d"}
	cur := NewCursor(steps)

	if got := cur.Current(); got != "a" {
		t.Fatalf("Current() = %q, want a", got)
	}
	if got := cur.Advance(); got != "b" {
		t.Fatalf("first Advance() = %q, want b", got)
	}
	if got := cur.Advance(); got != "c" {
		t.Fatalf("second Advance() = %q, want c", got)
	}
	// Clamp: the final entry is never reached by advancing.
	for i := 0; i < 10; i++ {
		if got := cur.Advance(); got != "c" {
			t.Fatalf("clamped Advance() = %q, want c", got)
		}
	}
	if got := cur.Final(); got != "d" {
		t.Fatalf("Final() = %q, want d", got)
	}
}

func TestCursorRestartsPerRequest(t *testing.T) {
	steps := Sequence("en")
	first := NewCursor(steps)
	first.Advance()
	first.Advance()

	second := NewCursor(steps)
	if got := second.Current(); got != steps[0] {
		t.Fatalf("fresh cursor should start at the first message, got %q", got)
	}
}

func TestCursorEmptySteps(t *testing.T) {
	cur := NewCursor(nil)
	if cur.Current() != "" || cur.Advance() != "" || cur.Final() != "" {
		t.Fatal("empty cursor should return empty strings")
	}
}
