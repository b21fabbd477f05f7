package repository

import (
	"context"
	"sync"
	"user_hub/internal/common"
	"user_hub/internal/domain/model"
)

type memorySessionRepository struct {
	mu     sync.RWMutex
	byID   map[string]*model.Session
	byUser map[string]map[string]struct{} // userID -> set of session ids
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		byID:   make(map[string]*model.Session),
		byUser: make(map[string]map[string]struct{}),
	}
}

func (r *memorySessionRepository) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.byID[stored.ID] = &stored
	if r.byUser[stored.UserID] == nil {
		r.byUser[stored.UserID] = make(map[string]struct{})
	}
	r.byUser[stored.UserID][stored.ID] = struct{}{}
	return nil
}

func (r *memorySessionRepository) Find(ctx context.Context, id string) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return nil // idempotent
	}
	delete(r.byID, id)
	if ids := r.byUser[session.UserID]; ids != nil {
		delete(ids, id)
		if len(ids) == 0 {
			delete(r.byUser, session.UserID)
		}
	}
	return nil
}

func (r *memorySessionRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.byUser[userID] {
		delete(r.byID, id)
	}
	delete(r.byUser, userID)
	return nil
}
