package schema

// Type is a semantic, database-agnostic column type. Dialects map it to a
// native type name through a type map.
type Type uint8

// List of semantic column types.
const (
	TypeInvalid Type = iota
	TypeAnsiString
	TypeAnsiStringFixedLength
	TypeString
	TypeStringFixedLength
	TypeBinary
	TypeBoolean
	TypeByte
	TypeSByte
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeSingle
	TypeDouble
	TypeDecimal
	TypeCurrency
	TypeDate
	TypeTime
	TypeDateTime
	TypeDateTime2
	TypeDateTimeOffset
	TypeGuid
	TypeXml
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:               "invalid",
	TypeAnsiString:            "AnsiString",
	TypeAnsiStringFixedLength: "AnsiStringFixedLength",
	TypeString:                "String",
	TypeStringFixedLength:     "StringFixedLength",
	TypeBinary:                "Binary",
	TypeBoolean:               "Boolean",
	TypeByte:                  "Byte",
	TypeSByte:                 "SByte",
	TypeInt16:                 "Int16",
	TypeInt32:                 "Int32",
	TypeInt64:                 "Int64",
	TypeUInt16:                "UInt16",
	TypeUInt32:                "UInt32",
	TypeUInt64:                "UInt64",
	TypeSingle:                "Single",
	TypeDouble:                "Double",
	TypeDecimal:               "Decimal",
	TypeCurrency:              "Currency",
	TypeDate:                  "Date",
	TypeTime:                  "Time",
	TypeDateTime:              "DateTime",
	TypeDateTime2:             "DateTime2",
	TypeDateTimeOffset:        "DateTimeOffset",
	TypeGuid:                  "Guid",
	TypeXml:                   "Xml",
}

// String returns the name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known semantic type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// ConstName returns the constant name of the type.
func (t Type) ConstName() string {
	if !t.Valid() {
		return "invalid"
	}
	return "Type" + typeNames[t]
}

// ParseType returns the semantic type with the given name. Both the plain
// name ("String") and the constant name ("TypeString") are accepted.
func ParseType(name string) (Type, bool) {
	for t := TypeAnsiString; t < endTypes; t++ {
		if typeNames[t] == name || "Type"+typeNames[t] == name {
			return t, true
		}
	}
	return TypeInvalid, false
}
