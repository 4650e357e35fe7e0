package models

// PropertyType identifies the kind of property a listing or search refers to.
type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyPlot      PropertyType = "plot"
)

// Valid reports whether the property type is one of the known values.
func (p PropertyType) Valid() bool {
	switch p {
	case PropertyApartment, PropertyHouse, PropertyPlot:
		return true
	}
	return false
}

// Condition describes the advertised state of a listing.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionRenovated Condition = "renovated"
	ConditionGood      Condition = "good"
	ConditionNeedsWork Condition = "needsWork"
	ConditionUnknown   Condition = "unknown"
)

// ValueCategory is the qualitative market assessment of a listing.
type ValueCategory string

const (
	CategoryExcellent   ValueCategory = "excellent"
	CategoryGood        ValueCategory = "good"
	CategoryAverage     ValueCategory = "average"
	CategoryAboveMarket ValueCategory = "aboveMarket"
	CategoryExpensive   ValueCategory = "expensive"
	CategoryUnknown     ValueCategory = "unknown"
)
