package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"linkbio/internal/app/links"
	"linkbio/internal/domain"
)

// PostgreSQL SQLSTATE error codes.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	sqlStateUniqueViolation = "23505"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

var _ links.Repo = (*Repo)(nil)

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	return r.listLinks(ctx, r.db, ownerID, false, "list links")
}

func (r *Repo) listLinks(ctx context.Context, q queryer, ownerID string, forUpdate bool, op string) ([]domain.Link, error) {
	builder := psql.Select(sqlLinkCols...).
		From(sqlTableLinks).
		Where(sq.Eq{sqlColOwnerID: ownerID}).
		OrderBy(sqlColPosition+" ASC", sqlColCreatedAt+" ASC", sqlColID+" ASC")

	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build %s: %w", op, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errOpFmt, op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.Link, 0)
	for rows.Next() {
		item, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf(errOpFmt, op, err)
		}

		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errOpFmt, op, err)
	}

	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	return r.getOne(ctx, sq.Eq{sqlColID: id.String(), sqlColOwnerID: ownerID}, "get link by id")
}

func (r *Repo) GetActiveByShortCode(ctx context.Context, shortCode string) (domain.Link, error) {
	return r.getOne(ctx, sq.Eq{sqlColShortCode: shortCode, sqlColIsActive: true}, "get link by short code")
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq, op string) (domain.Link, error) {
	query, args, err := psql.Select(sqlLinkCols...).
		From(sqlTableLinks).
		Where(where).
		ToSql()
	if err != nil {
		return domain.Link{}, fmt.Errorf("postgres: build %s: %w", op, err)
	}

	item, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Link{}, domain.ErrNotFound
		}

		return domain.Link{}, fmt.Errorf(errOpFmt, op, err)
	}

	return item, nil
}

func (r *Repo) Create(ctx context.Context, link domain.Link) (domain.Link, error) {
	var created domain.Link

	err := r.inOwnerTx(ctx, link.OwnerID, func(tx *sql.Tx) error {
		next, err := nextPosition(ctx, tx, link.OwnerID)
		if err != nil {
			return err
		}

		query, args, err := psql.Insert(sqlTableLinks).
			Columns(
				sqlColID,
				sqlColOwnerID,
				sqlColShortCode,
				sqlColTitle,
				sqlColDestinationURL,
				sqlColIcon,
				sqlColBackgroundColor,
				sqlColTextColor,
				sqlColPosition,
				sqlColIsActive,
				sqlColClickCount,
				sqlColCreatedAt,
				sqlColUpdatedAt,
			).
			Values(
				link.ID.String(),
				link.OwnerID,
				link.ShortCode,
				link.Title,
				link.DestinationURL,
				link.Presentation.Icon,
				link.Presentation.BackgroundColor,
				link.Presentation.TextColor,
				next,
				link.IsActive,
				0,
				link.CreatedAt,
				link.UpdatedAt,
			).
			Suffix(sqlLinksReturning).
			ToSql()
		if err != nil {
			return fmt.Errorf("postgres: build create link: %w", err)
		}

		created, err = scanLink(tx.QueryRowContext(ctx, query, args...))
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrShortCodeConflict
			}

			return fmt.Errorf(errOpFmt, "create link", err)
		}

		return nil
	})
	if err != nil {
		return domain.Link{}, err
	}

	return created, nil
}

func nextPosition(ctx context.Context, tx *sql.Tx, ownerID string) (int, error) {
	query, args, err := psql.Select("COALESCE(MAX(" + sqlColPosition + ") + 1, 0)").
		From(sqlTableLinks).
		Where(sq.Eq{sqlColOwnerID: ownerID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("postgres: build next position: %w", err)
	}

	var next int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf(errOpFmt, "next position", err)
	}

	return next, nil
}

func (r *Repo) Update(
	ctx context.Context,
	ownerID string,
	id uuid.UUID,
	patch domain.LinkPatch,
	now time.Time,
) (domain.Link, error) {
	builder := psql.Update(sqlTableLinks).
		Set(sqlColUpdatedAt, now).
		Where(sq.Eq{sqlColID: id.String(), sqlColOwnerID: ownerID}).
		Suffix(sqlLinksReturning)

	if patch.Title != nil {
		builder = builder.Set(sqlColTitle, *patch.Title)
	}
	if patch.DestinationURL != nil {
		builder = builder.Set(sqlColDestinationURL, *patch.DestinationURL)
	}
	if patch.Icon != nil {
		builder = builder.Set(sqlColIcon, *patch.Icon)
	}
	if patch.BackgroundColor != nil {
		builder = builder.Set(sqlColBackgroundColor, *patch.BackgroundColor)
	}
	if patch.TextColor != nil {
		builder = builder.Set(sqlColTextColor, *patch.TextColor)
	}
	if patch.IsActive != nil {
		builder = builder.Set(sqlColIsActive, *patch.IsActive)
	}
	if patch.Order != nil {
		builder = builder.Set(sqlColPosition, *patch.Order)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return domain.Link{}, fmt.Errorf("postgres: build update link: %w", err)
	}

	item, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Link{}, domain.ErrNotFound
		}

		return domain.Link{}, fmt.Errorf(errOpFmt, "update link", err)
	}

	return item, nil
}

func (r *Repo) Delete(ctx context.Context, ownerID string, id uuid.UUID) (domain.Link, error) {
	query, args, err := psql.Delete(sqlTableLinks).
		Where(sq.Eq{sqlColID: id.String(), sqlColOwnerID: ownerID}).
		Suffix(sqlLinksReturning).
		ToSql()
	if err != nil {
		return domain.Link{}, fmt.Errorf("postgres: build delete link: %w", err)
	}

	item, err := scanLink(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Link{}, domain.ErrNotFound
		}

		return domain.Link{}, fmt.Errorf(errOpFmt, "delete link", err)
	}

	return item, nil
}

func (r *Repo) Reorder(ctx context.Context, ownerID string, ids []uuid.UUID, now time.Time) ([]domain.Link, error) {
	var out []domain.Link

	err := r.inOwnerTx(ctx, ownerID, func(tx *sql.Tx) error {
		current, err := r.listLinks(ctx, tx, ownerID, true, "reorder links")
		if err != nil {
			return err
		}

		plan := domain.PlanOrder(current, ids)
		if len(plan) > 0 {
			if err := applyPositions(ctx, tx, ownerID, plan, now); err != nil {
				return err
			}
		}

		out, err = r.listLinks(ctx, tx, ownerID, false, "list reordered links")

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// applyPositions assigns position i to plan[i] in a single UPDATE.
func applyPositions(ctx context.Context, tx *sql.Tx, ownerID string, plan []uuid.UUID, now time.Time) error {
	var (
		caseSQL strings.Builder
		args    = make([]any, 0, 2*len(plan))
		idList  = make([]string, 0, len(plan))
	)

	caseSQL.WriteString("CASE " + sqlColID)
	for pos, id := range plan {
		caseSQL.WriteString(" WHEN ?::uuid THEN ?::integer")
		args = append(args, id.String(), pos)
		idList = append(idList, id.String())
	}
	caseSQL.WriteString(" ELSE " + sqlColPosition + " END")

	query, qargs, err := psql.Update(sqlTableLinks).
		Set(sqlColPosition, sq.Expr(caseSQL.String(), args...)).
		Set(sqlColUpdatedAt, now).
		Where(sq.Eq{sqlColOwnerID: ownerID, sqlColID: idList}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: build reorder links: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, qargs...); err != nil {
		return fmt.Errorf(errOpFmt, "reorder links", err)
	}

	return nil
}

// inOwnerTx serializes writes that depend on an owner's full link set.
func (r *Repo) inOwnerTx(ctx context.Context, ownerID string, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf(errOpFmt, "begin tx", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", ownerID); err != nil {
		return fmt.Errorf(errOpFmt, "lock owner", err)
	}

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf(errOpFmt, "commit tx", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateUniqueViolation
	}

	return false
}
