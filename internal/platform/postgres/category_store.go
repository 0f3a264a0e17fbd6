package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/g-celente/case-watch-back/internal/domain"
	"github.com/g-celente/case-watch-back/internal/platform/logger"
	"github.com/g-celente/case-watch-back/internal/store"
)

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, log *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: log.With(slog.String("component", "category_store")),
	}
}

// Ensure PostgresCategoryStore implements store.CategoryStore interface
var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create implements store.CategoryStore.Create
// Returns store.ErrCategoryNameExists if the owner already has a category
// with the same name.
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO categories (id, name, description, color, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.Name,
		nullString(category.Description),
		nullString(category.Color),
		category.UserID,
		category.CreatedAt,
		category.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate category name during creation",
				slog.String("name", category.Name),
				slog.String("user_id", category.UserID.String()))
			return fmt.Errorf("%w: %v", store.ErrCategoryNameExists, err)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during category creation",
				slog.String("user_id", category.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, category.UserID)
		}

		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("user_id", category.UserID.String()))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving category by ID", slog.String("category_id", id.String()))

	query := `
		SELECT id, name, description, color, user_id, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("category not found", slog.String("category_id", id.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, err
	}

	return category, nil
}

// FindByName implements store.CategoryStore.FindByName
// Returns store.ErrCategoryNotFound if no such category exists.
func (s *PostgresCategoryStore) FindByName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("finding category by name",
		slog.String("user_id", ownerID.String()),
		slog.String("name", name))

	query := `
		SELECT id, name, description, color, user_id, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND name = $2
	`

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to find category by name",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}

	return category, nil
}

// ListByOwner implements store.CategoryStore.ListByOwner
// An empty search matches every category. The second return value is the
// total matching count for pagination.
func (s *PostgresCategoryStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	search string,
	limit, offset int,
) ([]*domain.Category, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("listing categories",
		slog.String("user_id", ownerID.String()),
		slog.Int("limit", limit),
		slog.Int("offset", offset))

	where := `WHERE user_id = $1`
	args := []any{ownerID}
	if search != "" {
		where += ` AND name ILIKE $2`
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM categories ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count categories",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, color, user_id, created_at, updated_at
		FROM categories
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query categories",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, 0, err
	}
	defer closeRows(rows, log)

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning category rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	log.Debug("listed categories",
		slog.String("user_id", ownerID.String()),
		slog.Int("count", len(categories)),
		slog.Int("total", total))
	return categories, total, nil
}

// ListRecent implements store.CategoryStore.ListRecent
func (s *PostgresCategoryStore) ListRecent(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) ([]*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, color, user_id, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		log.Error("failed to query recent categories",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	categories := []*domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning category rows", slog.String("error", err.Error()))
		return nil, err
	}

	return categories, nil
}

// Update implements store.CategoryStore.Update
// Returns store.ErrCategoryNotFound if the category does not exist and
// store.ErrCategoryNameExists on a name collision within the owner.
func (s *PostgresCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during update",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	category.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $1, description = $2, color = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		category.Name,
		nullString(category.Description),
		nullString(category.Color),
		category.UpdatedAt,
		category.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate category name during update",
				slog.String("category_id", category.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrCategoryNameExists, err)
		}
		log.Error("failed to update category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "category"); err != nil {
		log.Debug("category not found for update",
			slog.String("category_id", category.ID.String()))
		return store.ErrCategoryNotFound
	}

	log.Info("category updated successfully",
		slog.String("category_id", category.ID.String()))
	return nil
}

// Delete implements store.CategoryStore.Delete
// Returns store.ErrCategoryNotFound if the category does not exist.
func (s *PostgresCategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete category",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, "category"); err != nil {
		log.Debug("category not found for delete", slog.String("category_id", id.String()))
		return store.ErrCategoryNotFound
	}

	log.Info("category deleted successfully", slog.String("category_id", id.String()))
	return nil
}

// CountTasks implements store.CategoryStore.CountTasks
func (s *PostgresCategoryStore) CountTasks(ctx context.Context, categoryID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM tasks WHERE category_id = $1`,
		categoryID,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count tasks for category",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()))
		return 0, err
	}

	return count, nil
}

// Stats implements store.CategoryStore.Stats
// Statuses with no tasks are absent from the map.
func (s *PostgresCategoryStore) Stats(ctx context.Context, categoryID uuid.UUID) (store.CategoryStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("computing category stats", slog.String("category_id", categoryID.String()))

	query := `
		SELECT status, COUNT(*)
		FROM tasks
		WHERE category_id = $1
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		log.Error("failed to query category stats",
			slog.String("error", err.Error()),
			slog.String("category_id", categoryID.String()))
		return store.CategoryStats{}, err
	}
	defer closeRows(rows, log)

	stats := store.CategoryStats{ByStatus: map[domain.TaskStatus]int{}}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			log.Error("failed to scan category stats row", slog.String("error", err.Error()))
			return store.CategoryStats{}, err
		}
		stats.ByStatus[domain.TaskStatus(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning category stats rows", slog.String("error", err.Error()))
		return store.CategoryStats{}, err
	}

	return stats, nil
}

// WithTx implements store.CategoryStore.WithTx
// It returns a copy of the store bound to the provided transaction.
func (s *PostgresCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return &PostgresCategoryStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanCategory reads one category row in the column order used by this file's queries.
func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	var description, color sql.NullString

	err := row.Scan(
		&category.ID,
		&category.Name,
		&description,
		&color,
		&category.UserID,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	category.Description = description.String
	category.Color = color.String
	return &category, nil
}
