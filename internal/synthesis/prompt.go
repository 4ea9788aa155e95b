// Package synthesis assembles grounded prompts and produces answers with
// bounded retry against the completion service.
package synthesis

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/hyperjump/kotae/internal/models"
)

const systemInstructions = `You are a documentation assistant. Answer the question using only the
numbered context passages below. Cite passages as [source p.N] where N is the
page number given with the passage. If the passages do not contain the answer,
say so instead of guessing.`

// TokenCounter measures prompt size in model tokens.
type TokenCounter interface {
	CountTokens(text string) int
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTokenCounter returns a cl100k_base token counter.
func NewTokenCounter() (TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding: %w", err)
	}
	return &tiktokenCounter{encoding: enc}, nil
}

func (t *tiktokenCounter) CountTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// contextBlock renders one retrieved chunk as a numbered passage.
func contextBlock(n int, c models.ScoredChunk) string {
	return fmt.Sprintf("[%d] (%s p.%d)\n%s", n, c.SourceDocument, c.PageNumber, c.Text)
}

func historyLine(t models.Turn) string {
	label := "User"
	if t.Role == models.RoleAssistant {
		label = "Assistant"
	}
	return label + ": " + t.Text
}

func renderPrompt(blocks []string, history []models.Turn, question string) string {
	var b strings.Builder
	b.WriteString(systemInstructions)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(blocks, "\n\n"))
	if len(history) > 0 {
		b.WriteString("\n\nConversation so far:\n")
		for _, turn := range history {
			b.WriteString(historyLine(turn))
			b.WriteString("\n")
		}
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}

// BuildPrompt assembles the completion prompt from retrieved chunks, recent
// history and the question. When the assembled prompt exceeds maxTokens,
// context blocks are dropped from the tail (lowest ranked first) until it
// fits; the top ranked block is always kept. Returned citations cover only
// the blocks that made it into the prompt, deduplicated in rank order.
func BuildPrompt(question string, chunks []models.ScoredChunk, history []models.Turn, maxTokens int, counter TokenCounter) (string, []models.Citation) {
	blocks := make([]string, len(chunks))
	for i, c := range chunks {
		blocks[i] = contextBlock(i+1, c)
	}

	kept := len(blocks)
	prompt := renderPrompt(blocks[:kept], history, question)
	if maxTokens > 0 && counter != nil {
		for kept > 1 && counter.CountTokens(prompt) > maxTokens {
			kept--
			prompt = renderPrompt(blocks[:kept], history, question)
		}
	}

	citations := make([]models.Citation, 0, kept)
	seen := make(map[models.Citation]bool)
	for _, c := range chunks[:kept] {
		cit := models.Citation{SourceDocument: c.SourceDocument, PageNumber: c.PageNumber}
		if seen[cit] {
			continue
		}
		seen[cit] = true
		citations = append(citations, cit)
	}
	return prompt, citations
}
