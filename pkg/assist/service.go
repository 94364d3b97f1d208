package assist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quillardco/sensei/pkg/eventstream"
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/storage"
)

// DefaultWindow is the number of recent turns read into model context.
const DefaultWindow = 5

// Service orchestrates one assist call: validate, read history, invoke the
// model, classify, persist, respond. Each call is handled independently with
// no shared mutable state; concurrent calls for the same session may
// interleave their reads and writes (the history window is eventually
// consistent).
type Service struct {
	store     storage.Driver
	completer llm.Completer
	events    eventstream.Publisher
	logger    *zap.Logger
	window    int
	now       func() time.Time
}

// Option configures a Service created with NewService.
type Option func(*Service)

// WithWindow overrides the history window size.
func WithWindow(window int) Option {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithPublisher attaches an eventstream publisher. Publishing is best-effort:
// failures are logged and never alter the response.
func WithPublisher(publisher eventstream.Publisher) Option {
	return func(s *Service) {
		s.events = publisher
	}
}

// NewService creates the orchestrator over the given collaborators.
func NewService(store storage.Driver, completer llm.Completer, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		completer: completer,
		logger:    logger,
		window:    DefaultWindow,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Assist runs the full flow for one request and returns the classified
// envelope. It fails only with ValidationError, storage.UnavailableError on
// the read path, or UpstreamError from the LLM call. A failed write never
// discards the computed response: the current answer is returned and the
// failure is logged for operational visibility.
func (s *Service) Assist(ctx context.Context, req Request) (Envelope, error) {
	if err := req.Validate(); err != nil {
		return Envelope{}, err
	}

	log := s.logger.With(
		zap.String("user_id", req.UserID),
		zap.String("session_id", req.SessionID),
	)

	recent, err := s.store.FetchRecent(ctx, req.UserID, req.SessionID, s.window)
	if err != nil {
		// No partial context: answering without memory is worse than failing.
		log.Error("history read failed", zap.Error(err))
		return Envelope{}, asUnavailable("fetch recent", err)
	}

	pairs := PairHistory(recent)
	log.Debug("context window built", zap.Int("pairs", len(pairs)))

	raw, err := s.completer.Complete(ctx, req.Input, pairs)
	if err != nil {
		log.Error("llm completion failed", zap.Error(err))
		return Envelope{}, UpstreamError{Err: err}
	}

	envelope := Classify(raw)

	// Persist the raw, unclassified output so future context windows replay
	// exactly what the model produced.
	turn := &storage.Turn{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		UserInput:    req.Input,
		AssistantRaw: raw,
		CreatedAt:    s.now(),
	}

	if err := s.store.Append(ctx, turn); err != nil {
		log.Error("turn append failed, returning response anyway", zap.Error(err))
		return envelope, nil
	}

	s.publishTurn(ctx, log, turn, envelope.Type)

	return envelope, nil
}

// publishTurn emits a TurnPersistedEvent after a successful append.
// Best-effort, like the write path itself.
func (s *Service) publishTurn(ctx context.Context, log *zap.Logger, turn *storage.Turn, classification string) {
	if s.events == nil {
		return
	}

	event := &eventstream.TurnPersistedEvent{
		SchemaVersion:  eventstream.SchemaVersionV1,
		EventType:      eventstream.EventTypeTurnPersisted,
		EventID:        uuid.NewString(),
		EmittedAt:      s.now(),
		Classification: classification,
		Turn:           *turn,
	}

	if err := s.events.PublishTurn(ctx, event); err != nil {
		log.Warn("turn event publish failed", zap.Error(err))
	}
}
