package repositories

import (
	"MediPortal/cache"
	"MediPortal/models"
	"context"
	"errors"
	"fmt"
)

// SessionRepository persists the current user durably, one key per principal.
// Absence of the key means logged out.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(cache *cache.Cache) *SessionRepository {
	return &SessionRepository{cache: cache}
}

// Save stores the serialized current-user object. Sessions do not expire on
// their own; logout removes them.
func (r *SessionRepository) Save(ctx context.Context, user models.User) error {
	return r.cache.SetJSON(ctx, r.sessionKey(user.ID), user, 0)
}

// Get loads the persisted user for a principal, or nil when logged out.
func (r *SessionRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.cache.GetJSON(ctx, r.sessionKey(id), &user)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &user, nil
}

// Delete removes the persisted user.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, r.sessionKey(id))
}

func (r *SessionRepository) sessionKey(id string) string {
	return fmt.Sprintf("mediportal_user:%s", id)
}
