package ai

import "testing"

func TestFallbackSubtasks(t *testing.T) {
	first := FallbackSubtasks()
	if len(first) != 4 {
		t.Fatalf("unexpected fallback size: %d", len(first))
	}
	for i, s := range first {
		if s == "" {
			t.Fatalf("empty fallback subtask at %d", i)
		}
	}

	// Callers may append to the returned slice; handing out a shared backing
	// array would let one request corrupt another's fallback.
	first[0] = "mutated"
	if FallbackSubtasks()[0] == "mutated" {
		t.Fatalf("fallback shares its backing array with callers")
	}
}

func TestFallbackInsights(t *testing.T) {
	if FallbackInsights() == "" {
		t.Fatalf("empty fallback insight")
	}
}
