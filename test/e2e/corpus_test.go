package e2e

import "testing"

func TestBuildCorpus(t *testing.T) {
	c := BuildCorpus(25)
	if len(c.Documents) != 25 || len(c.Cases) != 25 {
		t.Fatalf("corpus size: %d documents, %d cases", len(c.Documents), len(c.Cases))
	}
	names := make(map[string]bool)
	signatures := make(map[string]bool)
	for i, doc := range c.Documents {
		if names[doc.Name] {
			t.Errorf("duplicate document name %q", doc.Name)
		}
		names[doc.Name] = true
		if len(doc.Pages) != 2 {
			t.Errorf("%s: %d pages, want 2", doc.Name, len(doc.Pages))
		}
		if signatures[doc.Pages[0]] {
			t.Errorf("duplicate signature page in %q", doc.Name)
		}
		signatures[doc.Pages[0]] = true
		if c.Cases[i].Question != doc.Pages[0] {
			t.Errorf("case %d question should repeat the signature page verbatim", i)
		}
	}
}

func TestPageSource(t *testing.T) {
	s := &pageSource{pages: []string{"one", "two"}}
	if s.NumPages() != 2 {
		t.Errorf("NumPages=%d", s.NumPages())
	}
	text, err := s.PageText(1)
	if err != nil || text != "one" {
		t.Errorf("PageText(1)=%q, %v", text, err)
	}
	if _, err := s.PageText(3); err == nil {
		t.Error("out of range page should error")
	}
	if _, err := s.PageText(0); err == nil {
		t.Error("page numbering is 1-based")
	}
}
