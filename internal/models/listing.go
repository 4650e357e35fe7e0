package models

// Listing is a single cleaned real-estate advertisement. Numeric fields are
// assumed to be already normalized from their scraped text form before they
// reach this package.
type Listing struct {
	ID           string       `json:"id"`
	PropertyType PropertyType `json:"propertyType"`
	LocationCode string       `json:"locationCode"`
	Price        float64      `json:"price"`
	SizeM2       float64      `json:"sizeM2"`
	Rooms        float64      `json:"rooms"`
	Condition    Condition    `json:"condition"`
}

// PricePerM2 returns the unit price used for market comparison. The second
// return value is false when the listing has no usable size, in which case
// the listing is excluded from segmentation and scoring.
func (l Listing) PricePerM2() (float64, bool) {
	if l.SizeM2 <= 0 {
		return 0, false
	}
	return l.Price / l.SizeM2, true
}

// ValueAssessment is the scored market comparison of one listing against its
// size band. Score is an integer in [0, 100]; PercentDelta is the signed
// relative deviation of the listing's unit price from the band mean.
type ValueAssessment struct {
	ListingID    string        `json:"listingId"`
	PercentDelta float64       `json:"percentDelta"`
	Category     ValueCategory `json:"category"`
	Score        int           `json:"score"`
	Insight      string        `json:"insight,omitempty"`
}
