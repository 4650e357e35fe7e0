package models

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter is returned when a filter's range bounds are inconsistent.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterSpec describes the constraints of a listing search.
// Range bounds are optional; a nil pointer means the dimension is unbounded
// on that side. All bounds are inclusive.
// Nullable bounds use pointers to distinguish "not set" from zero.
type FilterSpec struct {
	PropertyType PropertyType `json:"propertyType"`
	LocationCode string       `json:"locationCode"`
	PriceMin     *float64     `json:"priceMin,omitempty"`
	PriceMax     *float64     `json:"priceMax,omitempty"`
	SizeMin      *float64     `json:"sizeMin,omitempty"`
	SizeMax      *float64     `json:"sizeMax,omitempty"`
	RoomsMin     *float64     `json:"roomsMin,omitempty"`
	RoomsMax     *float64     `json:"roomsMax,omitempty"`
}

// Validate checks that every dimension with both bounds present satisfies
// min <= max, and that the property type is known. Violations are wrapped
// around ErrInvalidFilter so callers can test with errors.Is.
func (f FilterSpec) Validate() error {
	if !f.PropertyType.Valid() {
		return fmt.Errorf("%w: unknown property type %q", ErrInvalidFilter, f.PropertyType)
	}
	if f.LocationCode == "" {
		return fmt.Errorf("%w: location code is required", ErrInvalidFilter)
	}
	dims := []struct {
		name     string
		min, max *float64
	}{
		{"price", f.PriceMin, f.PriceMax},
		{"size", f.SizeMin, f.SizeMax},
		{"rooms", f.RoomsMin, f.RoomsMax},
	}
	for _, d := range dims {
		if d.min != nil && d.max != nil && *d.min > *d.max {
			return fmt.Errorf("%w: %s min %.2f exceeds max %.2f", ErrInvalidFilter, d.name, *d.min, *d.max)
		}
	}
	return nil
}

// SubsetOf reports whether every result matching f would also match other.
// This holds when both filters target the same property type and location
// (exact string equality on the location code) and each of f's bounds lies
// within other's bounds, treating missing bounds as unbounded. The relation
// is reflexive and transitive.
func (f FilterSpec) SubsetOf(other FilterSpec) bool {
	if f.PropertyType != other.PropertyType || f.LocationCode != other.LocationCode {
		return false
	}
	return rangeWithin(f.PriceMin, f.PriceMax, other.PriceMin, other.PriceMax) &&
		rangeWithin(f.SizeMin, f.SizeMax, other.SizeMin, other.SizeMax) &&
		rangeWithin(f.RoomsMin, f.RoomsMax, other.RoomsMin, other.RoomsMax)
}

// rangeWithin reports whether [aMin, aMax] is contained in [bMin, bMax],
// with nil meaning -inf or +inf respectively.
func rangeWithin(aMin, aMax, bMin, bMax *float64) bool {
	if bMin != nil && (aMin == nil || *aMin < *bMin) {
		return false
	}
	if bMax != nil && (aMax == nil || *aMax > *bMax) {
		return false
	}
	return true
}

// CacheKey returns the ledger grouping key for the filter. Two filters share
// a key iff they target the same property type and location.
func (f FilterSpec) CacheKey() string {
	return string(f.PropertyType) + "|" + f.LocationCode
}

// Matches reports whether a listing satisfies all of the filter's
// constraints. Used to re-filter a cached dataset on reuse.
func (f FilterSpec) Matches(l Listing) bool {
	if l.PropertyType != f.PropertyType || l.LocationCode != f.LocationCode {
		return false
	}
	if f.PriceMin != nil && l.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && l.Price > *f.PriceMax {
		return false
	}
	if f.SizeMin != nil && l.SizeM2 < *f.SizeMin {
		return false
	}
	if f.SizeMax != nil && l.SizeM2 > *f.SizeMax {
		return false
	}
	if f.RoomsMin != nil && l.Rooms < *f.RoomsMin {
		return false
	}
	if f.RoomsMax != nil && l.Rooms > *f.RoomsMax {
		return false
	}
	return true
}
