package schema

// FieldType is an abstract field type from the fixed catalog.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeText     FieldType = "text"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
	TypeUUID     FieldType = "uuid"
	TypeJSON     FieldType = "json"
	TypeArray    FieldType = "array"
	TypeEnum     FieldType = "enum"
	TypeEmail    FieldType = "email"
)

// AllTypes lists the full abstract type catalog in a stable order.
var AllTypes = []FieldType{
	TypeString,
	TypeText,
	TypeInteger,
	TypeFloat,
	TypeBoolean,
	TypeDatetime,
	TypeUUID,
	TypeJSON,
	TypeArray,
	TypeEnum,
	TypeEmail,
}

// typeParameters maps each abstract type to the parameter names it accepts.
// Types absent from this map accept no parameters.
var typeParameters = map[FieldType][]string{
	TypeString: {"max_length"},
	TypeEmail:  {"max_length"},
	TypeEnum:   {"enum_values"},
	TypeArray:  {"item_type"},
}

// Known reports whether t is part of the type catalog. Unknown types are a
// validation error, never silently defaulted.
func Known(t FieldType) bool {
	for _, k := range AllTypes {
		if t == k {
			return true
		}
	}
	return false
}

// ParametersFor returns the parameter names legal on the given type.
func ParametersFor(t FieldType) []string {
	return typeParameters[t]
}

// AcceptsParameter reports whether the given parameter is legal on t.
func AcceptsParameter(t FieldType, param string) bool {
	for _, p := range typeParameters[t] {
		if p == param {
			return true
		}
	}
	return false
}
