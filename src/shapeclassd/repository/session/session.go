package session

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/model"
)

//go:generate mockgen -source=session.go -destination=repositorymock/session_mock.go -package=repositorymock

// Repository is an entity-scoped repository.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Set(ctx context.Context, s *entity.Session) error
	// Update applies fn to the stored Session under the repository lock and saves the result.
	// The stored Session is left unchanged when fn returns an error.
	Update(ctx context.Context, id uuid.UUID, fn func(*entity.Session) error) (*entity.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SessionCount(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[uuid.UUID]*model.Session
	stats    tally.Scope
}

// New returns a repository to a key-value Session data store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[uuid.UUID]*model.Session),
		stats:    stats,
	}
}

// Get returns the Session associated with the given id.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return mapper.ModelToSession(f)
}

// Set sets the Session to its associated uuid.
func (r *repository) Set(ctx context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s == nil {
		return errors.New("can't save nil session")
	}
	r.memstore[s.UUID] = mapper.SessionToModel(s)
	r.updateGauge()
	return nil
}

// Update atomically reads, modifies and saves the Session associated with the given id.
func (r *repository) Update(ctx context.Context, id uuid.UUID, fn func(*entity.Session) error) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[id]
	if !ok {
		return nil, &errors.UUIDNotFoundError{UUID: id}
	}
	s, err := mapper.ModelToSession(m)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	r.memstore[id] = mapper.SessionToModel(s)

	updated := *s
	return &updated, nil
}

// Delete removes the Session associated with the given id.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.updateGauge()
	return nil
}

// SessionCount returns the total count of active sessions.
func (r *repository) SessionCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}

func (r *repository) updateGauge() {
	r.stats.Gauge("active_connections").Update(float64(len(r.memstore)))
}
