package postgres

const (
	sqlTableLinks       = "links"
	sqlTableClickEvents = "click_events"

	sqlAliasLinks  = "l"
	sqlAliasClicks = "e"

	sqlColID              = "id"
	sqlColOwnerID         = "owner_id"
	sqlColShortCode       = "short_code"
	sqlColTitle           = "title"
	sqlColDestinationURL  = "destination_url"
	sqlColIcon            = "icon"
	sqlColBackgroundColor = "background_color"
	sqlColTextColor       = "text_color"
	sqlColPosition        = "position"
	sqlColIsActive        = "is_active"
	sqlColClickCount      = "click_count"
	sqlColUniqueViews     = "unique_views"
	sqlColCreatedAt       = "created_at"
	sqlColUpdatedAt       = "updated_at"

	sqlColLinkID     = "link_id"
	sqlColOccurredAt = "occurred_at"
	sqlColReferrer   = "referrer"
	sqlColDevice     = "device"
	sqlColBrowser    = "browser"
	sqlColLocation   = "location"
)

const errOpFmt = "postgres: %s: %w"
