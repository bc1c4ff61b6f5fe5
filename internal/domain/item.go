package domain

import (
	"strings"
	"time"
)

// Item is one entry of the wishlist. ID and CreatedAt are assigned by the
// persistence service and never supplied by callers.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	ImageURL  string    `json:"image_url"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority"`
	Price     string    `json:"price"`
	Bought    bool      `json:"bought"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is the payload for creating an item.
type Draft struct {
	Name     string   `json:"name" validate:"required"`
	Link     string   `json:"link" validate:"required,url"`
	Source   string   `json:"source" validate:"required"`
	ImageURL string   `json:"image_url" validate:"optional_url"`
	Category string   `json:"category" validate:"required"`
	Priority Priority `json:"priority" validate:"priority"`
	Price    string   `json:"price" validate:"required,price"`
	Bought   bool     `json:"bought"`
}

// Normalize trims surrounding whitespace from every text field and defaults an
// empty priority to Medium.
func (d *Draft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Link = strings.TrimSpace(d.Link)
	d.Source = strings.TrimSpace(d.Source)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.Category = strings.TrimSpace(d.Category)
	d.Price = strings.TrimSpace(d.Price)
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
}

// Item builds the stored record for the draft.
func (d Draft) Item(id string, createdAt time.Time) Item {
	return Item{
		ID:        id,
		Name:      d.Name,
		Link:      d.Link,
		Source:    d.Source,
		ImageURL:  d.ImageURL,
		Category:  d.Category,
		Priority:  d.Priority,
		Price:     d.Price,
		Bought:    d.Bought,
		CreatedAt: createdAt,
	}
}

// Patch is a partial update. A nil field leaves the stored value unchanged.
type Patch struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,min=1"`
	Link     *string   `json:"link,omitempty" validate:"omitempty,url"`
	Source   *string   `json:"source,omitempty" validate:"omitempty,min=1"`
	ImageURL *string   `json:"image_url,omitempty" validate:"omitempty,optional_url"`
	Category *string   `json:"category,omitempty" validate:"omitempty,min=1"`
	Priority *Priority `json:"priority,omitempty" validate:"omitempty,priority"`
	Price    *string   `json:"price,omitempty" validate:"omitempty,price"`
	Bought   *bool     `json:"bought,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Link == nil && p.Source == nil && p.ImageURL == nil &&
		p.Category == nil && p.Priority == nil && p.Price == nil && p.Bought == nil
}

// Normalize trims the text fields that are set.
func (p *Patch) Normalize() {
	for _, s := range []*string{p.Name, p.Link, p.Source, p.ImageURL, p.Category, p.Price} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// Apply copies every set field onto item.
func (p Patch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Link != nil {
		item.Link = *p.Link
	}
	if p.Source != nil {
		item.Source = *p.Source
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Priority != nil {
		item.Priority = *p.Priority
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Bought != nil {
		item.Bought = *p.Bought
	}
}
