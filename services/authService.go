package services

import (
	"MediPortal/models"
	"MediPortal/repositories"
	"MediPortal/utils"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// AuthService is the auth provider boundary: credential storage and principal
// lookup. Token issuance lives in utils.
type AuthService interface {
	Register(ctx context.Context, reg utils.Registration) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdatePassword(ctx context.Context, accountID, newPassword string) error
}

type authService struct {
	accounts *repositories.AccountRepository
	profiles *repositories.ProfileRepository
}

func NewAuthService(accounts *repositories.AccountRepository, profiles *repositories.ProfileRepository) AuthService {
	return &authService{accounts: accounts, profiles: profiles}
}

// Register validates a signup payload and creates the account plus its
// profile row. Role defaults to PATIENT.
func (s *authService) Register(ctx context.Context, reg utils.Registration) (*models.User, error) {
	if err := utils.ValidateRegistration(reg); err != nil {
		return nil, fmt.Errorf("invalid registration data: %w", err)
	}

	if exists, err := s.accounts.EmailExists(ctx, reg.Email); err != nil || exists {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := utils.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	role := reg.Role
	if role == "" {
		role = models.RolePatient
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Email:        reg.Email,
		PasswordHash: hashedPassword,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	user := models.User{
		ID:    account.ID,
		Name:  reg.Name,
		Email: reg.Email,
		Role:  role,
		Photo: reg.Photo,
	}
	if err := s.profiles.Insert(ctx, user); err != nil {
		// The resolver self-heals a missing profile row on first lookup.
		return &user, nil
	}
	return &user, nil
}

// Authenticate checks credentials and returns the resolved user.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !utils.CheckPassword(account.PasswordHash, password) {
		return nil, errors.New("invalid email or password")
	}

	user, err := s.profiles.GetByID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			// Provisioning gap: assemble a minimal patient user.
			return &models.User{ID: account.ID, Email: account.Email, Role: models.RolePatient}, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.accounts.GetByEmail(ctx, email)
}

// UpdatePassword hashes and stores a new password for the account.
func (s *authService) UpdatePassword(ctx context.Context, accountID, newPassword string) error {
	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, accountID, hashedPassword)
}
