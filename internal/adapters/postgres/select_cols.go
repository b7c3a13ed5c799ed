package postgres

import "strings"

func qualify(alias, col string) string {
	return alias + "." + col
}

// Order matches scanLink.
var sqlLinkCols = []string{
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
	sqlColUniqueViews,
	sqlColCreatedAt,
	sqlColUpdatedAt,
}

var sqlLinksReturning = "RETURNING " + strings.Join(sqlLinkCols, ", ")

// Order matches scanClickEvent.
var sqlClicksSelectCols = []string{
	qualify(sqlAliasClicks, sqlColLinkID),
	qualify(sqlAliasClicks, sqlColOccurredAt),
	qualify(sqlAliasClicks, sqlColReferrer),
	qualify(sqlAliasClicks, sqlColDevice),
	qualify(sqlAliasClicks, sqlColBrowser),
	qualify(sqlAliasClicks, sqlColLocation),
}
