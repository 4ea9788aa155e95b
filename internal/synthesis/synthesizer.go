package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/session"
)

// ErrSynthesisFailed reports that the completion service could not produce an
// answer within the retry budget. The session is left untouched.
var ErrSynthesisFailed = errors.New("answer synthesis failed")

const insufficientContextAnswer = "I don't have enough information in the indexed documents to answer that."

const (
	backoffBase = 500 * time.Millisecond
	backoffCap  = 8 * time.Second
)

// Retriever finds relevant chunks for a question.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, minScore float64) ([]models.ScoredChunk, error)
}

// Options carry the tuning knobs for retrieval and completion.
type Options struct {
	TopK            int
	MinScore        float64
	HistoryWindow   int
	MaxTokens       int
	Temperature     float64
	MaxRetries      int
	MaxPromptTokens int
}

// Synthesizer answers questions over a retrieval engine, a completion client
// and a conversation store. Turns within one session are serialized so the
// question is always recorded before its answer.
type Synthesizer struct {
	retriever Retriever
	client    llm.Client
	sessions  *session.Store
	counter   TokenCounter
	opts      Options
	logger    *zap.Logger

	// sleep is swapped in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithLogger sets a logger for retry and outcome events.
func WithLogger(l *zap.Logger) SynthesizerOption {
	return func(s *Synthesizer) { s.logger = l }
}

// WithSleep overrides the backoff sleep function.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) SynthesizerOption {
	return func(s *Synthesizer) { s.sleep = fn }
}

// NewSynthesizer wires a synthesizer. counter may be nil to disable prompt
// token budgeting.
func NewSynthesizer(retriever Retriever, client llm.Client, sessions *session.Store, counter TokenCounter, opts Options, sopts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		retriever: retriever,
		client:    client,
		sessions:  sessions,
		counter:   counter,
		opts:      opts,
		logger:    zap.NewNop(),
		sleep:     sleepCtx,
	}
	for _, o := range sopts {
		o(s)
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Answer retrieves context for the question, synthesizes an answer and
// appends the exchange to the session. When retrieval finds nothing above the
// score floor, it returns an insufficient-context response without calling
// the completion service or touching the session. When the completion service
// fails past the retry budget, the session is likewise left unchanged.
func (s *Synthesizer) Answer(ctx context.Context, sessionID, question string) (*models.ChatResponse, error) {
	var resp *models.ChatResponse
	err := s.sessions.Do(sessionID, func(sess *session.Session) error {
		chunks, err := s.retriever.Retrieve(ctx, question, s.opts.TopK, s.opts.MinScore)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			s.logger.Info("no context above score floor", zap.String("session", sessionID))
			resp = &models.ChatResponse{
				Answer:              insufficientContextAnswer,
				SessionID:           sessionID,
				CitedSources:        []models.Citation{},
				InsufficientContext: true,
			}
			return nil
		}

		history := sess.History(s.opts.HistoryWindow)
		prompt, citations := BuildPrompt(question, chunks, history, s.opts.MaxPromptTokens, s.counter)

		answer, err := s.complete(ctx, prompt)
		if err != nil {
			return err
		}

		sess.Append(models.Turn{Role: models.RoleUser, Text: question})
		sess.Append(models.Turn{Role: models.RoleAssistant, Text: answer})
		resp = &models.ChatResponse{
			Answer:       answer,
			SessionID:    sessionID,
			CitedSources: citations,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// complete calls the completion client with exponential backoff. Rate limit,
// timeout and service errors are retried up to MaxRetries times; anything
// else fails immediately.
func (s *Synthesizer) complete(ctx context.Context, prompt string) (string, error) {
	delay := backoffBase
	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			s.logger.Warn("retrying completion",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(lastErr))
			if err := s.sleep(ctx, delay); err != nil {
				return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
			}
			delay *= 2
			if delay > backoffCap {
				delay = backoffCap
			}
		}

		answer, err := s.client.Complete(ctx, prompt, s.opts.MaxTokens, s.opts.Temperature)
		if err == nil {
			if strings.TrimSpace(answer) == "" {
				lastErr = llm.ErrService
				continue
			}
			return answer, nil
		}
		if !retryable(err) {
			return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: retries exhausted: %v", ErrSynthesisFailed, lastErr)
}

func retryable(err error) bool {
	return errors.Is(err, llm.ErrRateLimited) ||
		errors.Is(err, llm.ErrTimeout) ||
		errors.Is(err, llm.ErrService)
}
