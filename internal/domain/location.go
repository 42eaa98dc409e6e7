package domain

import "strings"

// Location is an immutable venue location. City and country are mandatory;
// coordinates are optional but must come as a pair.
type Location struct {
	address   string
	city      string
	country   string
	latitude  *float64
	longitude *float64
}

// NewLocation validates and builds a Location.
func NewLocation(address, city, country string, latitude, longitude *float64) (Location, error) {
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	address = strings.TrimSpace(address)

	if city == "" || len(city) > 100 {
		return Location{}, ErrInvalidLocation.withf("city must be 1-100 characters")
	}
	if country == "" || len(country) > 100 {
		return Location{}, ErrInvalidLocation.withf("country must be 1-100 characters")
	}
	if len(address) > 500 {
		return Location{}, ErrInvalidLocation.withf("address must be at most 500 characters")
	}
	if (latitude == nil) != (longitude == nil) {
		return Location{}, ErrInvalidCoordinates
	}
	if latitude != nil {
		if *latitude < -90 || *latitude > 90 || *longitude < -180 || *longitude > 180 {
			return Location{}, ErrInvalidCoordinates
		}
		lat, lon := *latitude, *longitude
		latitude, longitude = &lat, &lon
	}

	return Location{
		address:   address,
		city:      city,
		country:   country,
		latitude:  latitude,
		longitude: longitude,
	}, nil
}

func (l Location) Address() string { return l.address }
func (l Location) City() string { return l.city }
func (l Location) Country() string { return l.country }

// Coordinates returns the lat/lon pair and whether one was provided.
func (l Location) Coordinates() (lat, lon float64, ok bool) {
	if l.latitude == nil {
		return 0, 0, false
	}
	return *l.latitude, *l.longitude, true
}

// Equals compares two locations by value, coordinates included.
func (l Location) Equals(other Location) bool {
	if l.address != other.address || l.city != other.city || l.country != other.country {
		return false
	}
	lat1, lon1, ok1 := l.Coordinates()
	lat2, lon2, ok2 := other.Coordinates()
	return ok1 == ok2 && lat1 == lat2 && lon1 == lon2
}

// IsZero reports whether the location was never set.
func (l Location) IsZero() bool {
	return l.city == "" && l.country == ""
}
