package schema

// Kind is the primitive a generated field value should take.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindList
	KindMapping
)

// CountField is the synthetic whole-number field carried next to the record list.
const CountField = "count"

// RecordsField holds the record list in the output contract.
const RecordsField = "records"

// TypeName returns the JSON type name used to describe the kind to the model.
func (k Kind) TypeName() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "array"
	case KindMapping:
		return "object"
	default:
		return "string"
	}
}

// KindOf maps a declared schema type onto a Kind. Unknown types are text.
func KindOf(declared string) Kind {
	switch declared {
	case "integer":
		return KindInteger
	case "number":
		return KindFloat
	case "boolean":
		return KindBoolean
	case "array":
		return KindList
	case "object":
		return KindMapping
	default:
		return KindText
	}
}

// ShapeField is one required field of the record contract.
type ShapeField struct {
	Name string
	Kind Kind
}

// Shape is the structured-output contract: a list of records made of Fields,
// plus a whole-number count. Every field is required.
type Shape struct {
	Fields []ShapeField
}

// DeriveShape builds the output contract for s.
func DeriveShape(s *Schema) Shape {
	fields := make([]ShapeField, len(s.Properties))
	for i, p := range s.Properties {
		fields[i] = ShapeField{Name: p.Name, Kind: KindOf(p.Type)}
	}
	return Shape{Fields: fields}
}
