package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/pagination"
	"github.com/g-celente/case-watch-back/internal/store"
)

// UserProfile is a user enriched with their task involvement counts.
type UserProfile struct {
	domain.User
	TaskCounts store.UserTaskCounts `json:"taskCounts"`
}

// UpdateUserInput carries the fields accepted when updating a user.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Avatar   *string
	Password *string
}

// UserService provides user-related operations including registration
// and account updates.
type UserService interface {
	// List retrieves users ordered by registration date, paginated.
	List(ctx context.Context, page pagination.Params) ([]*domain.User, pagination.PageInfo, error)

	// Get retrieves a user together with their task involvement counts.
	Get(ctx context.Context, userID uuid.UUID) (*UserProfile, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create registers a new user with the given email, name, and
	// plaintext password. The password is hashed by the store layer.
	// Returns ErrConflict when the email is already registered.
	Create(ctx context.Context, email, name, password string) (*domain.User, error)

	// Update applies the non-nil input fields to a user's account.
	// Users may only update their own account.
	Update(
		ctx context.Context,
		actorID, userID uuid.UUID,
		input UpdateUserInput,
	) (*domain.User, error)

	// Delete removes a user's account. Users may only delete their own.
	Delete(ctx context.Context, actorID, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	logger    *slog.Logger
	now       func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(userStore store.UserStore, db *sql.DB, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		logger:    logger.With("component", "user_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List retrieves users ordered by registration date, paginated.
func (s *UserServiceImpl) List(
	ctx context.Context,
	page pagination.Params,
) ([]*domain.User, pagination.PageInfo, error) {
	users, total, err := s.userStore.List(ctx, page.Limit, page.Offset)
	if err != nil {
		s.logger.Error("failed to list users",
			"error", err)
		return nil, pagination.PageInfo{}, fmt.Errorf("failed to list users: %w", err)
	}

	return users, pagination.Describe(page.Page, page.Limit, total), nil
}

// Get retrieves a user together with their task involvement counts.
func (s *UserServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fromStore(fmt.Errorf("failed to retrieve user: %w", err))
	}

	counts, err := s.userStore.CountTasks(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count user tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to count user tasks: %w", err)
	}

	return &UserProfile{User: *user, TaskCounts: counts}, nil
}

// GetByEmail retrieves a user by their email address.
func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by email",
				"email", email)
		} else {
			s.logger.Error("failed to retrieve user by email",
				"error", err,
				"email", email)
		}
		return nil, fromStore(fmt.Errorf("failed to retrieve user by email: %w", err))
	}

	return user, nil
}

// Create registers a new user. The creation runs in a transaction so a
// failed insert leaves nothing behind.
func (s *UserServiceImpl) Create(
	ctx context.Context,
	email, name, password string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, name, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register existing email",
				"email", email)
		} else {
			s.logger.Error("failed to create user",
				"error", err,
				"email", email)
		}
		return nil, fromStore(fmt.Errorf("failed to create user: %w", err))
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// Update applies the non-nil input fields to a user's account. The full
// user is loaded first and written back whole, inside a transaction.
func (s *UserServiceImpl) Update(
	ctx context.Context,
	actorID, userID uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	if actorID != userID {
		return nil, fmt.Errorf("%w: users may only update their own account", ErrForbidden)
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve user for update: %w", err)
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Avatar != nil {
			user.Avatar = *input.Avatar
		}
		if input.Password != nil {
			// The store re-hashes when Password is set.
			user.Password = *input.Password
		}
		user.UpdatedAt = s.now()

		if err := txStore.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to update to an existing email",
				"user_id", userID)
		} else if !store.IsNotFoundError(err) {
			s.logger.Error("failed to update user",
				"error", err,
				"user_id", userID)
		}
		return nil, fromStore(err)
	}

	s.logger.Info("user updated",
		"user_id", userID)

	return updated, nil
}

// Delete removes a user's account.
func (s *UserServiceImpl) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID != userID {
		return fmt.Errorf("%w: users may only delete their own account", ErrForbidden)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to delete user",
				"error", err,
				"user_id", userID)
		}
		return fromStore(fmt.Errorf("failed to delete user: %w", err))
	}

	s.logger.Info("user deleted",
		"user_id", userID)

	return nil
}
