package model

// DataType is the scalar type a property's values must conform to.
// Validation of values against these types is out of scope (spec
// Non-goals name scalar validators as external leaf utilities); this
// type exists only to key the properties cache.
type DataType int

const (
	DataTypeText DataType = iota
	DataTypeNumber
	DataTypeCheckbox
	DataTypeTime
	DataTypePoint
	DataTypeRelation
)

// Property associates a property id with its immutable data type.
type Property struct {
	ID       string
	DataType DataType
}
