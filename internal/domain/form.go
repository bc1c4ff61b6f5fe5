package domain

import (
	"strings"

	"github.com/utafrali/wishlist/pkg/validator"
)

// Form holds the raw values of the add/edit form. Priority and Bought come from
// a selector and a checkbox and carry no validation rules.
type Form struct {
	Name     string   `json:"name" validate:"required"`
	Link     string   `json:"link" validate:"required,url"`
	Source   string   `json:"source" validate:"required"`
	ImageURL string   `json:"image_url" validate:"optional_url"`
	Category string   `json:"category" validate:"required"`
	Priority Priority `json:"priority"`
	Price    string   `json:"price" validate:"required,positive_price"`
	Bought   bool     `json:"bought"`
}

// NewForm returns the initial state of an empty form.
func NewForm() Form {
	return Form{Priority: PriorityMedium}
}

// FormFromItem pre-fills the form for editing an existing item.
func FormFromItem(item Item) Form {
	return Form{
		Name:     item.Name,
		Link:     item.Link,
		Source:   item.Source,
		ImageURL: item.ImageURL,
		Category: item.Category,
		Priority: item.Priority,
		Price:    item.Price,
		Bought:   item.Bought,
	}
}

func (f Form) trimmed() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Link = strings.TrimSpace(f.Link)
	f.Source = strings.TrimSpace(f.Source)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Category = strings.TrimSpace(f.Category)
	f.Price = strings.TrimSpace(f.Price)
	if f.Priority == "" {
		f.Priority = PriorityMedium
	}
	return f
}

// Validate checks the form. On failure the error is a *validator.ValidationError
// whose Fields() are keyed by the JSON field names.
func (f Form) Validate() error {
	return validator.Validate(f.trimmed())
}

// Draft converts a validated form into a create payload.
func (f Form) Draft() Draft {
	t := f.trimmed()
	return Draft{
		Name:     t.Name,
		Link:     t.Link,
		Source:   t.Source,
		ImageURL: t.ImageURL,
		Category: t.Category,
		Priority: t.Priority,
		Price:    StripThousands(t.Price),
		Bought:   t.Bought,
	}
}

// Patch converts a validated form into a patch that overwrites every field.
func (f Form) Patch() Patch {
	d := f.Draft()
	return Patch{
		Name:     &d.Name,
		Link:     &d.Link,
		Source:   &d.Source,
		ImageURL: &d.ImageURL,
		Category: &d.Category,
		Priority: &d.Priority,
		Price:    &d.Price,
		Bought:   &d.Bought,
	}
}
