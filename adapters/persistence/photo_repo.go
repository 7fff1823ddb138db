package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/photo-gallery/internal/domain/photo"
	"github.com/khoahotran/photo-gallery/pkg/apperror"
	"github.com/khoahotran/photo-gallery/pkg/logger"
)

// mainPhotoConstraint is the partial unique index on photos(user_id) WHERE
// is_main. It lets the database reject a second main photo outright.
const mainPhotoConstraint = "photos_one_main_per_user"

type postgresPhotoRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPhotoRepo(db *pgxpool.Pool, logger logger.Logger) photo.Repository {
	return &postgresPhotoRepo{db: db, logger: logger}
}

var psqlPhoto = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanPhoto(row pgx.Row) (*photo.Photo, error) {
	p := &photo.Photo{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.URL, &p.PublicID,
		&p.Description, &p.IsMain, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("photo", "")
		}
		return nil, apperror.NewInternal("failed to scan photo row", err)
	}
	return p, nil
}

func scanPhotos(rows pgx.Rows) ([]*photo.Photo, error) {
	defer rows.Close()
	photos := make([]*photo.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating photo rows", err)
	}
	return photos, nil
}

// Create inserts the photo and decides is_main in the same statement: the
// insert re-checks "no main exists yet" so the first persisted photo becomes
// main even when uploads for one user race. If two inserts still collide on
// the partial unique index, the loser is retried as non-main, so exactly one
// wins.
func (r *postgresPhotoRepo) Create(ctx context.Context, p *photo.Photo) (*photo.Photo, error) {
	query := `
		INSERT INTO photos (id, user_id, url, public_id, description, is_main, created_at)
		VALUES ($1, $2, $3, $4, $5,
			NOT EXISTS (SELECT 1 FROM photos WHERE user_id = $2 AND is_main),
			$6)
		RETURNING is_main
	`
	err := r.db.QueryRow(ctx, query,
		p.ID, p.UserID, p.URL, p.PublicID, p.Description, p.CreatedAt,
	).Scan(&p.IsMain)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == mainPhotoConstraint {
		retry := `
			INSERT INTO photos (id, user_id, url, public_id, description, is_main, created_at)
			VALUES ($1, $2, $3, $4, $5, FALSE, $6)
			RETURNING is_main
		`
		err = r.db.QueryRow(ctx, retry,
			p.ID, p.UserID, p.URL, p.PublicID, p.Description, p.CreatedAt,
		).Scan(&p.IsMain)
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to insert photo", err)
	}
	return p, nil
}

func (r *postgresPhotoRepo) FindByID(ctx context.Context, id uuid.UUID) (*photo.Photo, error) {
	query := `
		SELECT id, user_id, url, public_id, description, is_main, created_at
		FROM photos WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	p, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("photo", id.String())
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPhotoRepo) FindMainByUser(ctx context.Context, userID uuid.UUID) (*photo.Photo, error) {
	query := `
		SELECT id, user_id, url, public_id, description, is_main, created_at
		FROM photos WHERE user_id = $1 AND is_main
	`
	row := r.db.QueryRow(ctx, query, userID)
	p, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("main photo", userID.String())
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPhotoRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*photo.Photo, error) {
	builder := psqlPhoto.Select("id", "user_id", "url", "public_id", "description", "is_main", "created_at").
		From("photos").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list photos query", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query photos by user", err)
	}
	return scanPhotos(rows)
}

// SetMain runs the clear and the set inside one transaction. The second
// update carries the optimistic predicate NOT is_main: if a concurrent
// writer already flipped the target, zero rows are affected and the caller
// gets a conflict it can safely retry.
func (r *postgresPhotoRepo) SetMain(ctx context.Context, userID, photoID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin set-main transaction", err)
	}
	defer tx.Rollback(ctx)

	clearQuery := `
		UPDATE photos SET is_main = FALSE
		WHERE user_id = $1 AND is_main AND id <> $2
	`
	if _, err := tx.Exec(ctx, clearQuery, userID, photoID); err != nil {
		return apperror.NewInternal("failed to clear current main photo", err)
	}

	setQuery := `
		UPDATE photos SET is_main = TRUE
		WHERE id = $1 AND user_id = $2 AND NOT is_main
	`
	cmdTag, err := tx.Exec(ctx, setQuery, photoID, userID)
	if err != nil {
		// Two reassignments racing on different photos can both get past the
		// clear: the loser's snapshot never saw the winner's new main. The
		// partial unique index rejects the second main, which is a conflict
		// the caller can retry, not an internal failure.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == mainPhotoConstraint {
			return apperror.NewConflict("photo", "main-flag state changed by a concurrent writer")
		}
		return apperror.NewInternal("failed to set main photo", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewConflict("photo", "main-flag state changed by a concurrent writer")
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit set-main transaction", err)
	}
	return nil
}

func (r *postgresPhotoRepo) Update(ctx context.Context, p *photo.Photo) error {
	query := `
		UPDATE photos SET description = $2
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, p.ID, p.Description)
	if err != nil {
		return apperror.NewInternal("failed to update photo", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("photo", p.ID.String())
	}
	return nil
}

func (r *postgresPhotoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM photos WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewInternal("failed to delete photo", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("photo", id.String())
	}
	return nil
}
