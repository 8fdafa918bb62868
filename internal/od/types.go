// internal/od/types.go
package od

// Error is the result code of a get/set-family operation.
// Values are ODV3 abort codes; all of them are negative as int32,
// so a single int32 can carry either a byte count or an Error.
type Error int32

const (
	OK             Error = 0
	WriteOnly      Error = -0x3F64FFFD // 0xC09B0003
	ReadOnly       Error = -0x3F64FFFC // 0xC09B0004
	ObjectNotFound Error = -0x3F64FFFB // 0xC09B0005
	UnableToSet    Error = -0x3F64FFF8 // 0xC09B0008
	DataTypeError  Error = -0x3F64FFF6 // 0xC09B000A
	ParamTooLong   Error = -0x3F64FFF5 // 0xC09B000B
	ParamTooShort  Error = -0x3F64FFF4 // 0xC09B000C
	FieldNotFound  Error = -0x3F64FFF3 // 0xC09B000D
	ValueTooHigh   Error = -0x3F64FFF1 // 0xC09B000F
	ValueTooLow    Error = -0x3F64FFF0 // 0xC09B0010
)

// String returns the fixed display text for e.
func (e Error) String() string {
	switch e {
	case OK:
		return "OK"
	case DataTypeError:
		return "Data type mismatch"
	case ParamTooLong:
		return "Parameter too large"
	case ParamTooShort:
		return "Parameter too short"
	case ValueTooHigh:
		return "Value too high"
	case ValueTooLow:
		return "Value too low"
	case ObjectNotFound:
		return "Object not found"
	case FieldNotFound:
		return "Field not found in object"
	case ReadOnly:
		return "Object is read only"
	case UnableToSet:
		return "Unable to set value"
	case WriteOnly:
		return "Object is write only"
	}
	return "Unknown"
}

// Error implements the error interface so codes can be wrapped and matched with errors.Is.
func (e Error) Error() string { return e.String() }

// Code returns the raw 32-bit abort code.
func (e Error) Code() uint32 { return uint32(e) }

// Err returns nil for OK and e otherwise.
func (e Error) Err() error {
	if e == OK {
		return nil
	}
	return e
}

// Result splits a count-or-error return value.
// Non-negative n is a byte count and yields OK.
func Result(n int32) (int, Error) {
	if n < 0 {
		return 0, Error(n)
	}
	return int(n), OK
}

// DataType identifies the native type of an object or element.
type DataType uint8

const (
	Invalid   DataType = 0x0
	U8        DataType = 0x1
	U16       DataType = 0x2
	U32       DataType = 0x3
	I8        DataType = 0x4
	I16       DataType = 0x5
	I32       DataType = 0x6
	String    DataType = 0x8
	BinString DataType = 0x9
	Record    DataType = 0xA
)

func (t DataType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case String:
		return "string"
	case BinString:
		return "bstring"
	case Record:
		return "record"
	}
	return "ERR"
}

// Signed reports whether t is a signed integer type.
func (t DataType) Signed() bool {
	return t == I8 || t == I16 || t == I32
}

// Integer reports whether t is one of the integer types.
func (t DataType) Integer() bool {
	switch t {
	case U8, U16, U32, I8, I16, I32:
		return true
	}
	return false
}

// TypeSize returns the byte width of one element of type t.
// Strings report the width of a single character.
func TypeSize(t DataType) int {
	switch t {
	case U8, I8, String, BinString:
		return 1
	case U16, I16:
		return 2
	case U32, I32:
		return 4
	}
	return 0
}

// ClassID identifies the category of an object.
type ClassID uint8

const (
	ClassInvalid  ClassID = 0x0
	ClassVariable ClassID = 0x1 // single value
	ClassArray    ClassID = 0x2 // same-typed elements, optionally named
	ClassRecord   ClassID = 0x3 // independently typed, named fields
)

func (c ClassID) String() string {
	switch c {
	case ClassVariable:
		return "Variable"
	case ClassArray:
		return "Array"
	case ClassRecord:
		return "Record"
	}
	return "Object"
}

// Permissions is the access tier of an object.
// The core carries it as metadata only; callers decide how to enforce it.
type Permissions uint8

const (
	FactoryHidden Permissions = 0 // read/write in factory mode, otherwise read-only, hidden
	FactoryConfig Permissions = 1 // read/write in factory mode, otherwise read-only
	Hidden        Permissions = 2 // read/write, hidden
	UserConfig    Permissions = 3 // read/write to all users
	InfoOnly      Permissions = 4 // read only to all users
	Status        Permissions = 5 // read only, dynamic
	Dynamic       Permissions = 6 // fully dynamic
)

func (p Permissions) String() string {
	switch p {
	case FactoryHidden:
		return "factory_hidden"
	case FactoryConfig:
		return "factory_config"
	case Hidden:
		return "hidden"
	case UserConfig:
		return "user_config"
	case InfoOnly:
		return "info"
	case Status:
		return "status"
	case Dynamic:
		return "dynamic"
	}
	return "unknown"
}
