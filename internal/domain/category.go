package domain

import "strings"

// EventCategory classifies an event for discovery and filtering.
type EventCategory string

const (
	CategoryConcert    EventCategory = "concert"
	CategoryConference EventCategory = "conference"
	CategoryExhibition EventCategory = "exhibition"
	CategoryFestival   EventCategory = "festival"
	CategorySport      EventCategory = "sport"
	CategoryTheater    EventCategory = "theater"
	CategoryWorkshop   EventCategory = "workshop"
	CategoryComedy     EventCategory = "comedy"
	CategoryCharity    EventCategory = "charity"
	CategoryOther      EventCategory = "other"
)

// ParseEventCategory parses a category name, case-insensitively.
func ParseEventCategory(name string) (EventCategory, error) {
	c := EventCategory(strings.ToLower(strings.TrimSpace(name)))
	if !c.IsValid() {
		return "", ErrInvalidCategory.withf("unknown event category %q", name)
	}
	return c, nil
}

// IsValid checks if the category is one of the closed set.
func (c EventCategory) IsValid() bool {
	switch c {
	case CategoryConcert, CategoryConference, CategoryExhibition, CategoryFestival,
		CategorySport, CategoryTheater, CategoryWorkshop, CategoryComedy,
		CategoryCharity, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of the category.
func (c EventCategory) String() string {
	return string(c)
}
