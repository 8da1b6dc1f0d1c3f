// Package ui provides shared UI constants and utilities.
package ui

// Layout constants for consistent sizing across UI components.
const (
	// ScrollMargin is the number of rows kept visible above/below the cursor.
	ScrollMargin = 3

	// BorderHeight is the vertical space consumed by a standard panel border.
	BorderHeight = 2

	// HeaderHeight is the space for the column header + separator in the station panel.
	HeaderHeight = 2

	// PanelOverhead is the total vertical overhead (border + header + separator).
	// listHeight = panelHeight - PanelOverhead
	PanelOverhead = BorderHeight + HeaderHeight

	// MinBadgeWidth is the narrowest terminal that still shows the codec and
	// health columns of the station list.
	MinBadgeWidth = 60
)
