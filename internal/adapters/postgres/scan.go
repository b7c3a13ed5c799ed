package postgres

import (
	"database/sql"

	"linkbio/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (domain.Link, error) {
	var (
		item        domain.Link
		uniqueViews sql.NullInt64
	)

	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.ShortCode,
		&item.Title,
		&item.DestinationURL,
		&item.Presentation.Icon,
		&item.Presentation.BackgroundColor,
		&item.Presentation.TextColor,
		&item.Order,
		&item.IsActive,
		&item.ClickCount,
		&uniqueViews,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return domain.Link{}, err
	}

	if uniqueViews.Valid {
		n := uniqueViews.Int64
		item.UniqueViews = &n
	}

	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()

	return item, nil
}

func scanClickEvent(row rowScanner) (domain.ClickEvent, error) {
	var ev domain.ClickEvent

	err := row.Scan(
		&ev.LinkID,
		&ev.Timestamp,
		&ev.Referrer,
		&ev.Device,
		&ev.Browser,
		&ev.Location,
	)
	if err != nil {
		return domain.ClickEvent{}, err
	}

	ev.Timestamp = ev.Timestamp.UTC()

	return ev, nil
}
