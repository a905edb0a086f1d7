// Package services holds the SmartTask business rules: account registration
// and authentication, and the task operations and queries front ends call.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/cryptox"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/repositories/accounts"
	"github.com/dmitrijs2005/smarttask/internal/timex"
)

const (
	minPasswordLen = 6
	minEmailLen    = 6
)

// Registration carries the fields of a new account. Password is plaintext
// and is hashed before anything is stored.
type Registration struct {
	FirstName  string
	LastName   string
	Email      string
	ExternalID string
	Major      string
	Password   string
}

// ProfileUpdate holds optional new values; nil or blank fields are left
// unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Major     *string
}

type AccountService struct {
	repo   accounts.Repository
	hasher cryptox.Hasher
	clock  timex.Clock
	log    logging.Logger
}

func NewAccountService(repo accounts.Repository, hasher cryptox.Hasher, clock timex.Clock, log logging.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		clock:  clock,
		log:    log.With("service", "accounts"),
	}
}

// Register validates r, hashes the password and stores a new active account
// under the lower-cased email.
func (s *AccountService) Register(ctx context.Context, r Registration) (models.Account, error) {
	email := models.NormalizeEmail(r.Email)
	if !validEmail(email) {
		return models.Account{}, common.ErrInvalidEmail
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return models.Account{}, common.ErrWeakPassword
	}
	first, last := strings.TrimSpace(r.FirstName), strings.TrimSpace(r.LastName)
	if first == "" || last == "" {
		return models.Account{}, common.ErrInvalidName
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return models.Account{}, common.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return models.Account{}, common.ErrorInternal
	}

	account, err := s.repo.Create(ctx, models.Account{
		Email:        email,
		FirstName:    first,
		LastName:     last,
		ExternalID:   strings.TrimSpace(r.ExternalID),
		Major:        strings.TrimSpace(r.Major),
		PasswordHash: hash,
		CreatedAt:    models.Stamp(s.clock.Now()),
		Active:       true,
	})
	if err != nil {
		return models.Account{}, err
	}

	s.log.Info(ctx, "account registered", "email", email)
	return account, nil
}

// Authenticate checks the password of an active account and records the
// login time. Hashes in the legacy format are upgraded on success.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (models.Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return models.Account{}, err
	}
	if !account.Active {
		return models.Account{}, common.ErrInactive
	}
	if err := s.verify(ctx, account.PasswordHash, password); err != nil {
		return models.Account{}, err
	}

	rehash := ""
	if cryptox.NeedsRehash(account.PasswordHash) {
		if h, err := s.hasher.Hash(password); err == nil {
			rehash = h
		} else {
			s.log.Warn(ctx, "cannot upgrade legacy password hash", "email", account.Email, "error", err)
		}
	}

	now := models.Stamp(s.clock.Now())
	return s.repo.Update(ctx, account.Email, func(a *models.Account) error {
		a.LastLoginAt = &now
		if rehash != "" {
			a.PasswordHash = rehash
		}
		return nil
	})
}

func (s *AccountService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.verify(ctx, account.PasswordHash, oldPassword); err != nil {
		return err
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLen {
		return common.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return common.ErrorInternal
	}

	_, err = s.repo.Update(ctx, account.Email, func(a *models.Account) error {
		a.PasswordHash = hash
		return nil
	})
	return err
}

func (s *AccountService) UpdateProfile(ctx context.Context, email string, u ProfileUpdate) (models.Account, error) {
	return s.repo.Update(ctx, email, func(a *models.Account) error {
		overwrite(&a.FirstName, u.FirstName)
		overwrite(&a.LastName, u.LastName)
		overwrite(&a.Major, u.Major)
		return nil
	})
}

// Deactivate is a soft delete; the record and its tasks stay.
func (s *AccountService) Deactivate(ctx context.Context, email string) error {
	return s.setActive(ctx, email, false)
}

func (s *AccountService) Activate(ctx context.Context, email string) error {
	return s.setActive(ctx, email, true)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *AccountService) EmailExists(ctx context.Context, email string) bool {
	_, err := s.repo.FindByEmail(ctx, email)
	return err == nil
}

func (s *AccountService) ListAll(ctx context.Context) []models.Account {
	return s.repo.List(ctx)
}

func (s *AccountService) UserStats(ctx context.Context) models.UserStats {
	var st models.UserStats
	for _, a := range s.repo.List(ctx) {
		st.Total++
		if a.Active {
			st.Active++
		}
	}
	st.Inactive = st.Total - st.Active
	return st
}

func (s *AccountService) setActive(ctx context.Context, email string, active bool) error {
	_, err := s.repo.Update(ctx, email, func(a *models.Account) error {
		a.Active = active
		return nil
	})
	if err == nil {
		s.log.Info(ctx, "account active flag changed", "email", models.NormalizeEmail(email), "active", active)
	}
	return err
}

func (s *AccountService) verify(ctx context.Context, hash, password string) error {
	err := cryptox.Verify(hash, password)
	if err == nil || errors.Is(err, common.ErrWrongPassword) {
		return err
	}
	s.log.Error(ctx, "stored password hash is unusable", "error", err)
	return common.ErrWrongPassword
}

func validEmail(email string) bool {
	return utf8.RuneCountInString(email) >= minEmailLen && strings.Contains(email, "@") && strings.Contains(email, ".")
}

func overwrite(dst *string, v *string) {
	if v == nil {
		return
	}
	if t := strings.TrimSpace(*v); t != "" {
		*dst = t
	}
}
