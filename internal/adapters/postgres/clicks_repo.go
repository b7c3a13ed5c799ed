package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"linkbio/internal/app/analytics"
	"linkbio/internal/domain"
)

var _ analytics.Source = (*Repo)(nil)

// The counter bump and the event insert share one statement so neither can
// land without the other.
const recordClickSQLFmt = `
WITH bumped AS (
	UPDATE links
	SET click_count = click_count + 1, updated_at = $1
	WHERE %s = $2
	RETURNING id, click_count
), appended AS (
	INSERT INTO click_events (link_id, occurred_at, referrer, device, browser, location)
	SELECT id, $1, $3, $4, $5, $6 FROM bumped
)
SELECT click_count FROM bumped`

var (
	recordClickByIDSQL        = fmt.Sprintf(recordClickSQLFmt, sqlColID)
	recordClickByShortCodeSQL = fmt.Sprintf(recordClickSQLFmt, sqlColShortCode)
)

func (r *Repo) RecordClick(ctx context.Context, key domain.LinkKey, ev domain.ClickEvent) (int64, error) {
	query, ref := recordClickByShortCodeSQL, key.ShortCode
	if key.ByID() {
		query, ref = recordClickByIDSQL, key.ID.String()
	}

	var total int64
	err := r.db.QueryRowContext(ctx, query,
		ev.Timestamp,
		ref,
		ev.Referrer,
		ev.Device,
		ev.Browser,
		ev.Location,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}

		return 0, fmt.Errorf(errOpFmt, "record click", err)
	}

	return total, nil
}

func (r *Repo) ListClickEvents(
	ctx context.Context,
	ownerID string,
	since time.Time,
) (map[uuid.UUID][]domain.ClickEvent, error) {
	const op = "list click events"

	builder := psql.Select(sqlClicksSelectCols...).
		From(sqlTableClickEvents+" "+sqlAliasClicks).
		Join(sqlTableLinks+" "+sqlAliasLinks+" ON "+
			qualify(sqlAliasLinks, sqlColID)+" = "+qualify(sqlAliasClicks, sqlColLinkID)).
		Where(sq.Eq{qualify(sqlAliasLinks, sqlColOwnerID): ownerID}).
		OrderBy(qualify(sqlAliasClicks, sqlColOccurredAt)+" ASC", qualify(sqlAliasClicks, sqlColID)+" ASC")

	if !since.IsZero() {
		builder = builder.Where(sq.GtOrEq{qualify(sqlAliasClicks, sqlColOccurredAt): since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build %s: %w", op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf(errOpFmt, op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make(map[uuid.UUID][]domain.ClickEvent)
	for rows.Next() {
		ev, err := scanClickEvent(rows)
		if err != nil {
			return nil, fmt.Errorf(errOpFmt, op, err)
		}

		out[ev.LinkID] = append(out[ev.LinkID], ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf(errOpFmt, op, err)
	}

	return out, nil
}
