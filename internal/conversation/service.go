package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wolfman30/doctor-booking-agent/internal/booking"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// ErrEmptyMessage is returned for blank user input.
var ErrEmptyMessage = errors.New("conversation: message is required")

// Service runs many conversations over a SessionStore. Turns on the same
// conversation are serialized; different conversations proceed in parallel.
type Service struct {
	engine *Engine
	store  SessionStore
	logger *logging.Logger
	locks  sync.Map // conversation id -> *sync.Mutex
}

func NewService(engine *Engine, store SessionStore, logger *logging.Logger) *Service {
	if engine == nil {
		panic("conversation: engine cannot be nil")
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{engine: engine, store: store, logger: logger}
}

// Engine exposes the underlying engine, mainly for its directory.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Start opens a conversation and returns the greeting. An empty id gets a
// generated one; an id that already exists is resumed as-is.
func (s *Service) Start(ctx context.Context, id string) (*Session, Response, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Load(ctx, id)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		sess = NewSession(id, s.engine.now())
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, Response{}, err
		}
		s.logger.Info("conversation started", "conversation_id", id)
	case err != nil:
		return nil, Response{}, err
	}

	resp := Response{
		Message:  Greeting,
		NextStep: booking.SlotSpecialtyOrSymptoms.NextStep(),
		State:    sess.State,
	}
	return sess, resp, nil
}

// ProcessMessage runs one conversational turn.
func (s *Service) ProcessMessage(ctx context.Context, id, message string) (Response, error) {
	return s.turn(ctx, id, message, s.engine.Advance)
}

// QuickBook runs the one-shot booking shortcut on an existing conversation.
func (s *Service) QuickBook(ctx context.Context, id, request string) (Response, error) {
	return s.turn(ctx, id, request, s.engine.QuickBook)
}

// Get returns a snapshot of the conversation.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Load(ctx, strings.TrimSpace(id))
}

// Reset discards the conversation entirely.
func (s *Service) Reset(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if _, err := s.store.Load(ctx, id); err != nil {
		return err
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.store.Load(ctx, id); err != nil {
		s.dropLockIfMissing(id, err)
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.locks.Delete(id)
	s.logger.Info("conversation reset", "conversation_id", id)
	return nil
}

type turnFunc func(ctx context.Context, sess *Session, message string) Response

func (s *Service) turn(ctx context.Context, id, message string, fn turnFunc) (Response, error) {
	id = strings.TrimSpace(id)
	message = strings.TrimSpace(message)
	if message == "" {
		return Response{}, ErrEmptyMessage
	}

	// Unknown ids never get a lock.
	if _, err := s.store.Load(ctx, id); err != nil {
		return Response{}, err
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		s.dropLockIfMissing(id, err)
		return Response{}, err
	}
	resp := fn(ctx, sess, message)
	if err := s.store.Save(ctx, sess); err != nil {
		return Response{}, fmt.Errorf("conversation: save after turn: %w", err)
	}
	return resp, nil
}

func (s *Service) lockFor(id string) *sync.Mutex {
	lockAny, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lockAny.(*sync.Mutex)
}

// dropLockIfMissing forgets the lock of a conversation that was reset or
// expired while the caller waited for it.
func (s *Service) dropLockIfMissing(id string, err error) {
	if errors.Is(err, ErrSessionNotFound) {
		s.locks.Delete(id)
	}
}
