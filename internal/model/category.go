package model

import "time"

// Fallback display values for transactions whose category cannot be shown.
const (
	UnknownCategoryName       = "Unknown"
	UncategorizedCategoryName = "Uncategorized"
	PlaceholderIcon           = "❓"
)

// Category groups transactions of one kind for reporting and budgeting.
// Names are not required to be unique.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string `validate:"required"`
	Kind      Kind   `validate:"required,oneof=income expense debt"`
	Icon      string
	Color     string
}

// DisplayIcon returns the category icon or the placeholder glyph.
func (c *Category) DisplayIcon() string {
	if c == nil || c.Icon == "" {
		return PlaceholderIcon
	}
	return c.Icon
}
