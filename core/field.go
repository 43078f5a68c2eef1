package core

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	Int64Type
	Float64Type
	BoolType
	DurationType
	ErrorType
	AnyType
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Type: StringType, Str: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Type: Int64Type, Int64: int64(value)}
}

// Int64 creates a 64-bit integer field
func Int64(key string, value int64) Field {
	return Field{Key: key, Type: Int64Type, Int64: value}
}

// Float64 creates a float field
func Float64(key string, value float64) Field {
	return Field{Key: key, Type: Float64Type, Float64: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	f := Field{Key: key, Type: BoolType}
	if value {
		f.Int64 = 1
	}
	return f
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Type: DurationType, Int64: int64(value)}
}

// Err creates an error field with the key "error"
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Type: ErrorType, Str: "<nil>"}
	}
	return Field{Key: "error", Type: ErrorType, Str: err.Error()}
}

// Any creates a field holding an arbitrary value. Prefer the typed
// constructors; Any always allocates.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Type: AnyType, Any: value}
}

// StringValue returns the string representation of a field's value
func (f Field) StringValue() string {
	switch f.Type {
	case StringType:
		return f.Str
	case Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case DurationType:
		return time.Duration(f.Int64).String()
	case ErrorType:
		return f.Str
	case AnyType:
		return fmt.Sprintf("%v", f.Any)
	default:
		return ""
	}
}
