package schema

// Default is the default value of a column. It is one of Undefined, Literal
// or SystemMethod.
type Default interface {
	isDefault()
}

// Undefined is the absent default. Rendering it produces no DEFAULT clause.
type Undefined struct{}

// Literal is a literal default value quoted by the dialect.
type Literal struct {
	V any
}

// SystemMethod is a default computed by the database engine.
type SystemMethod uint8

// Supported system methods.
const (
	NewGuid SystemMethod = iota + 1
	NewSequentialID
	CurrentDateTime
	CurrentDateTimeOffset
	CurrentUTCDateTime
	CurrentUser
)

var systemMethodNames = map[SystemMethod]string{
	NewGuid:               "NewGuid",
	NewSequentialID:       "NewSequentialId",
	CurrentDateTime:       "CurrentDateTime",
	CurrentDateTimeOffset: "CurrentDateTimeOffset",
	CurrentUTCDateTime:    "CurrentUTCDateTime",
	CurrentUser:           "CurrentUser",
}

// String returns the name of the system method.
func (m SystemMethod) String() string {
	if name, ok := systemMethodNames[m]; ok {
		return name
	}
	return "invalid"
}

// ParseSystemMethod returns the system method with the given name.
func ParseSystemMethod(name string) (SystemMethod, bool) {
	for m, n := range systemMethodNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

func (Undefined) isDefault()    {}
func (Literal) isDefault()      {}
func (SystemMethod) isDefault() {}

// IsUndefined reports whether d is absent. A nil Default is treated as
// Undefined.
func IsUndefined(d Default) bool {
	if d == nil {
		return true
	}
	_, ok := d.(Undefined)
	return ok
}
