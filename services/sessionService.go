package services

import (
	"MediPortal/models"
	"MediPortal/utils"
	"context"
	"log"
	"strings"
)

// ProfileStore is the profile lookup surface the resolver needs.
type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Insert(ctx context.Context, user models.User) error
}

// SessionReader looks up the durably persisted current user. Absence reads as
// (nil, nil).
type SessionReader interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// SessionService resolves the authenticated principal to a domain User.
type SessionService struct {
	profiles ProfileStore
	sessions SessionReader
}

// NewSessionService builds a resolver. sessions may be nil, in which case
// resolution goes straight to the profile store.
func NewSessionService(profiles ProfileStore, sessions SessionReader) *SessionService {
	return &SessionService{profiles: profiles, sessions: sessions}
}

// GetCurrentUser resolves an access token to a User. No or invalid token
// means no principal and returns absence (nil, nil). The persisted session
// copy is consulted first: it carries any in-session profile merges and
// restores the signed-in user across restarts. Failing that, the profile row
// is loaded; when that too is missing it is rebuilt from the token's signup
// metadata, inserted best-effort, and the metadata-assembled user is returned
// regardless of the insert outcome.
func (s *SessionService) GetCurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := utils.ValidateToken(token)
	if err != nil {
		return nil, nil
	}

	if s.sessions != nil {
		if user, err := s.sessions.Get(ctx, claims.UserID); err != nil {
			log.Printf("Session lookup for user %s failed: %v", claims.UserID, err)
		} else if user != nil {
			return user, nil
		}
	}

	user, err := s.profiles.GetByID(ctx, claims.UserID)
	if err == nil {
		return user, nil
	}

	// Profile row missing (provisioning gap) or unreadable: fall back to the
	// principal's metadata and try to create the row on the fly.
	log.Printf("Profile missing for user %s, attempting fallback creation", claims.UserID)
	fallback := userFromClaims(claims)
	if insertErr := s.profiles.Insert(ctx, fallback); insertErr != nil {
		// Possibly a race with the provisioning trigger; still return the
		// metadata-assembled user.
		log.Printf("Fallback profile insert failed: %v", insertErr)
	}
	return &fallback, nil
}

// userFromClaims assembles a User from token metadata with defaults.
func userFromClaims(claims *utils.TokenClaims) models.User {
	name := claims.Name
	if name == "" {
		if at := strings.Index(claims.Email, "@"); at > 0 {
			name = claims.Email[:at]
		} else {
			name = "Unknown User"
		}
	}
	role := models.Role(claims.Role)
	if !models.ValidRole(role) {
		role = models.RolePatient
	}
	return models.User{
		ID:    claims.UserID,
		Name:  name,
		Email: claims.Email,
		Role:  role,
		Photo: claims.Photo,
	}
}
