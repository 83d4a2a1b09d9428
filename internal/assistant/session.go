package assistant

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shopping-assistant/internal/catalog"
	"shopping-assistant/internal/common/logger"
	"shopping-assistant/internal/common/metrics"
	"shopping-assistant/internal/models"
)

type State int32

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// MessageRecorder receives per-message telemetry in addition to the Prometheus metrics.
type MessageRecorder interface {
	RecordMessage(ctx context.Context, intent string, duration time.Duration)
}

type snapshot struct {
	products   []models.Product
	categories []string
	fetchedAt  time.Time
}

// Session owns the catalog snapshot and runs classify, extract, recommend and
// format for each message. The snapshot is only ever replaced wholesale.
type Session struct {
	provider   catalog.Provider
	classifier *Classifier
	engine     *Engine
	formatter  *Formatter
	logger     logger.Logger
	recorder   MessageRecorder

	randSource  RandSource
	sourceLabel string

	state    atomic.Int32
	snapshot atomic.Pointer[snapshot]
}

type Option func(*Session)

func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithRandSource(r RandSource) Option {
	return func(s *Session) { s.randSource = r }
}

func WithSourceLabel(label string) Option {
	return func(s *Session) { s.sourceLabel = label }
}

func WithClassifier(c *Classifier) Option {
	return func(s *Session) { s.classifier = c }
}

func WithRecorder(r MessageRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

func NewSession(provider catalog.Provider, opts ...Option) *Session {
	s := &Session{
		provider:    provider,
		logger:      logger.NewNoOpLogger(),
		sourceLabel: "FakeStore",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.classifier == nil {
		s.classifier = NewClassifier(nil)
	}
	s.engine = NewEngine(provider)
	s.formatter = NewFormatter(s.randSource, s.sourceLabel)
	s.logger = s.logger.With(map[string]interface{}{"component": "assistant"})
	s.snapshot.Store(&snapshot{})
	return s
}

// Initialize fetches products and categories concurrently and replaces the
// snapshot. Fetch failures leave an empty snapshot; the session is Ready either way.
func (s *Session) Initialize(ctx context.Context) {
	var (
		wg         sync.WaitGroup
		products   []models.Product
		categories []string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products = s.provider.ListAllProducts(ctx)
	}()
	go func() {
		defer wg.Done()
		categories = s.provider.ListCategories(ctx)
	}()
	wg.Wait()

	s.snapshot.Store(&snapshot{
		products:   products,
		categories: categories,
		fetchedAt:  time.Now().UTC(),
	})
	s.state.Store(int32(StateReady))

	fields := map[string]interface{}{
		"productCount":  len(products),
		"categoryCount": len(categories),
	}
	if len(products) == 0 {
		s.logger.Warn("catalog snapshot is empty", fields)
		return
	}
	s.logger.Info("catalog snapshot loaded", fields)
}

// EnsureReady fetches the catalog when the snapshot is still empty.
// Concurrent callers may fetch more than once; the last completed fetch wins.
func (s *Session) EnsureReady(ctx context.Context) {
	if len(s.Snapshot()) == 0 {
		s.Initialize(ctx)
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) Snapshot() []models.Product {
	return s.snapshot.Load().products
}

func (s *Session) Categories() []string {
	return s.snapshot.Load().categories
}

func (s *Session) FetchedAt() time.Time {
	return s.snapshot.Load().fetchedAt
}

func (s *Session) WelcomeMessage() string {
	return WelcomeMessage
}

// ProcessMessage never fails; catalog problems show up as empty suggestions.
func (s *Session) ProcessMessage(ctx context.Context, text string) models.MessageResult {
	start := time.Now()
	s.EnsureReady(ctx)

	normalized := Normalize(text)
	intent := s.classifier.Classify(normalized)
	query := Extract(intent, normalized)

	products, contextLabel := s.engine.Recommend(ctx, s.Snapshot(), query)
	response := s.formatter.Format(products, contextLabel)
	reply := s.formatter.Reply(query)

	duration := time.Since(start)
	label := string(intent)
	metrics.MessagesProcessed.WithLabelValues(label).Inc()
	metrics.SuggestionsReturned.WithLabelValues(label).Observe(float64(len(response.Suggestions)))
	metrics.MessageDuration.WithLabelValues(label).Observe(duration.Seconds())
	if s.recorder != nil {
		s.recorder.RecordMessage(ctx, label, duration)
	}

	s.logger.Info("message processed", map[string]interface{}{
		"intent":          label,
		"context":         contextLabel,
		"suggestionCount": len(response.Suggestions),
		"confidence":      response.Confidence,
		"durationMs":      duration.Milliseconds(),
	})

	return models.MessageResult{
		Reply:       reply,
		Intent:      label,
		Suggestions: response,
	}
}

// ApologyResult is what callers return when processing a message blew up.
func ApologyResult() models.MessageResult {
	return models.MessageResult{
		Reply:  ApologyReply,
		Intent: string(IntentGeneral),
		Suggestions: models.AssistantResponse{
			Suggestions: []models.Suggestion{},
			NextActions: append([]string(nil), NoResultActions...),
			Confidence:  ConfidenceNoResults,
		},
	}
}
