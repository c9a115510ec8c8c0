// Package service — the business logic layer.
//
// AuthService is the auth partition. It sits between the HTTP handlers and
// the store:
//
//	AuthHandler (HTTP) → AuthService (business rules) → store.Store (state)
//	                   ↘ auth.PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Registration: unique-email check, password hashing, atomic creation
//     of the user AND their data partition (goals + empty ledger)
//   - Login/logout: maintain the store's single current-session pointer
//   - Keep every auth rule out of the HTTP layer
//
// SESSION MODEL:
// This is a single-profile app — the store holds at most one active
// session at a time (CurrentSession is one user ID or empty). Login sets
// it, logout clears it, and a failed login or registration leaves it — and
// everything else — untouched.
package service

import (
	"context"
	"log/slog"

	"github.com/rs/xid"

	"github.com/nhasan/nutriai/internal/apperror"
	"github.com/nhasan/nutriai/internal/auth"
	"github.com/nhasan/nutriai/internal/model"
	"github.com/nhasan/nutriai/internal/store"
)

// AuthService handles registration, login, and session state.
type AuthService struct {
	store     *store.Store
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(st *store.Store, passwords *auth.PasswordService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     st,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new user account.
//
// Fails with apperror.DuplicateEmail when any existing user already has the
// email (case-sensitive exact match) — in that case nothing is mutated or
// persisted. On success the user, their goal profile (defaults merged with
// any overrides), and an empty meal ledger are created together, so the
// "one data partition per user" invariant can never be half-true.
//
// Register does NOT log the new user in. The caller decides whether to
// follow up with Login.
func (s *AuthService) Register(ctx context.Context, name, email, password string, overrides *model.GoalPatch) (*model.User, error) {
	var exists bool
	s.store.View(func(st *store.State) {
		for _, u := range st.Users {
			if u.Email == email {
				exists = true
				return
			}
		}
	})
	if exists {
		return nil, apperror.DuplicateEmail(email)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:           xid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	goals := model.DefaultGoals()
	if overrides != nil {
		overrides.ApplyTo(&goals)
	}

	s.store.Update(func(st *store.State) {
		st.Users = append(st.Users, user)
		st.UserData[user.ID] = &store.UserData{
			Goals: goals,
			Meals: []model.MealEntry{},
		}
	})

	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &user, nil
}

// Login verifies the email/password pair and, on success, points the
// store's session at that user and persists.
//
// Fails with apperror.InvalidCredentials when no user matches — the same
// error whether the email is unknown or the password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	var match *model.User
	s.store.View(func(st *store.State) {
		for i := range st.Users {
			if st.Users[i].Email == email {
				u := st.Users[i]
				match = &u
				return
			}
		}
	})
	if match == nil {
		return nil, apperror.InvalidCredentials()
	}

	ok, err := s.passwords.Verify(match.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.InvalidCredentials()
	}

	s.store.Update(func(st *store.State) {
		st.CurrentSession = match.ID
	})
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("userID", match.ID))
	return match, nil
}

// Logout clears the session pointer and persists. Idempotent — logging out
// while already logged out is harmless.
func (s *AuthService) Logout(ctx context.Context) error {
	s.store.Update(func(st *store.State) {
		st.CurrentSession = ""
	})
	return s.store.Save(ctx)
}

// CurrentUser returns the user the session points at, or nil when logged
// out.
func (s *AuthService) CurrentUser() *model.User {
	var user *model.User
	s.store.View(func(st *store.State) {
		if st.CurrentSession == "" {
			return
		}
		for i := range st.Users {
			if st.Users[i].ID == st.CurrentSession {
				u := st.Users[i]
				user = &u
				return
			}
		}
	})
	return user
}

// IsAuthenticated reports whether a session is active.
func (s *AuthService) IsAuthenticated() bool {
	var active bool
	s.store.View(func(st *store.State) {
		active = st.CurrentSession != ""
	})
	return active
}
