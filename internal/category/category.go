package category

import "strings"

// Category is the closed set shared by budgets and expenses.
type Category string

const (
	Electricity    Category = "electricity"
	Water          Category = "water"
	Internet       Category = "internet"
	Rent           Category = "rent"
	Supplies       Category = "supplies"
	Salaries       Category = "salaries"
	Marketing      Category = "marketing"
	Transportation Category = "transportation"
	Other          Category = "other"
)

var catalog = []struct {
	category    Category
	description string
}{
	{Electricity, "Electricity bills"},
	{Water, "Water bills"},
	{Internet, "Internet and telephony"},
	{Rent, "Office and warehouse rent"},
	{Supplies, "Office supplies and consumables"},
	{Salaries, "Salaries and wages"},
	{Marketing, "Advertising and marketing"},
	{Transportation, "Travel, fuel and delivery"},
	{Other, "Anything else"},
}

// All returns the categories in display order.
func All() []Category {
	out := make([]Category, len(catalog))
	for i, c := range catalog {
		out[i] = c.category
	}
	return out
}

// Names is All as plain strings, for validators.
func Names() []string {
	out := make([]string, len(catalog))
	for i, c := range catalog {
		out[i] = string(c.category)
	}
	return out
}

// Parse normalizes raw and reports whether it names a known category.
func Parse(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.Valid()
}

func (c Category) Valid() bool {
	for _, e := range catalog {
		if e.category == c {
			return true
		}
	}
	return false
}

func (c Category) Description() string {
	for _, e := range catalog {
		if e.category == c {
			return e.description
		}
	}
	return ""
}

func (c Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        string(c),
		Description: c.Description(),
	}
}
