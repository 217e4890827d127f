package source

import "testing"

func TestList_ReturnsAllSources(t *testing.T) {
	sources := List()

	if len(sources) != 10 {
		t.Fatalf("len(List()) = %d, want 10", len(sources))
	}
}

func TestList_AllFieldsPopulated(t *testing.T) {
	seen := make(map[string]bool)

	for _, s := range List() {
		if s.Code == "" {
			t.Errorf("source %q has empty code", s.Name)
		}
		if s.Name == "" {
			t.Errorf("source %q has empty name", s.Code)
		}
		if s.URL == "" {
			t.Errorf("source %q has empty URL", s.Code)
		}
		if seen[s.Code] {
			t.Errorf("duplicate source code: %q", s.Code)
		}
		seen[s.Code] = true
	}
}
