// Package e2e provides end-to-end tests over a generated document corpus.
package e2e

import (
	"fmt"
)

// Document is a corpus entry: a named document with page texts.
type Document struct {
	Name  string
	Pages []string
}

// QueryCase defines a question and the document/page that must be cited.
// Questions repeat a page's signature text verbatim so the deterministic test
// embedder scores that page's chunk highest.
type QueryCase struct {
	Question    string
	WantDoc     string
	WantPage    int
	Description string
}

// Corpus holds documents and query cases for the end to end tests.
type Corpus struct {
	Documents []Document
	Cases     []QueryCase
}

var topics = []struct {
	name      string
	signature string
	filler    string
}{
	{"printer-manual.pdf", "Hold the feed button for three seconds to clear a paper jam.", "Routine maintenance keeps the rollers clean and the output sharp."},
	{"router-guide.pdf", "Press the recessed reset pin for ten seconds to restore factory settings.", "Placement away from thick walls improves wireless coverage."},
	{"oven-handbook.pdf", "The pyrolytic cleaning cycle locks the door until the cavity cools down.", "Preheating is recommended for baked goods and pastry."},
	{"camera-reference.pdf", "Firmware updates are installed from a card formatted in the camera.", "Longer exposures need a tripod or in-body stabilisation."},
	{"warranty-terms.pdf", "The limited warranty covers manufacturing defects for twenty four months.", "Accidental damage and consumables are excluded from coverage."},
}

// BuildCorpus returns n documents cycling through the topic templates. Every
// document gets a unique signature page plus a filler page, so each query case
// has exactly one best matching chunk.
func BuildCorpus(n int) *Corpus {
	c := &Corpus{}
	for i := 0; i < n; i++ {
		topic := topics[i%len(topics)]
		name := fmt.Sprintf("%03d-%s", i, topic.name)
		signature := fmt.Sprintf("Unit %03d: %s", i, topic.signature)
		doc := Document{
			Name:  name,
			Pages: []string{signature, topic.filler},
		}
		c.Documents = append(c.Documents, doc)
		c.Cases = append(c.Cases, QueryCase{
			Question:    signature,
			WantDoc:     name,
			WantPage:    1,
			Description: fmt.Sprintf("signature page of %s", name),
		})
	}
	return c
}

// pageSource adapts a Document to the ingestion pipeline's page reader.
type pageSource struct {
	pages []string
}

func (s *pageSource) NumPages() int { return len(s.pages) }

func (s *pageSource) PageText(n int) (string, error) {
	if n < 1 || n > len(s.pages) {
		return "", fmt.Errorf("page %d out of range", n)
	}
	return s.pages[n-1], nil
}

func (s *pageSource) Close() error { return nil }
