package domain

// FilterOptions narrows the visible items. An empty field means no constraint;
// the zero value shows everything.
type FilterOptions struct {
	Source   string   `json:"source,omitempty"`
	Category string   `json:"category,omitempty"`
	Priority Priority `json:"priority,omitempty"`
}

// HasActive reports whether any filter is set.
func (f FilterOptions) HasActive() bool {
	return f.Source != "" || f.Category != "" || f.Priority != ""
}
