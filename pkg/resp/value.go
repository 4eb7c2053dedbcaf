package resp

import "strconv"

// Type identifies the wire type of a RESP value by its prefix byte.
type Type byte

const (
	TypeStatus  Type = '+'
	TypeError   Type = '-'
	TypeInteger Type = ':'
	TypeBulk    Type = '$'
	TypeArray   Type = '*'
)

// Value is one decoded RESP reply. The zero Value is a nil bulk string.
type Value struct {
	typ  Type
	data []byte
	num  int64
	arr  []Value
	set  bool
}

func Status(s string) Value {
	return Value{typ: TypeStatus, data: []byte(s), set: true}
}

func Error(msg string) Value {
	return Value{typ: TypeError, data: []byte(msg), set: true}
}

func Integer(n int64) Value {
	return Value{typ: TypeInteger, num: n, set: true}
}

func Bulk(data []byte) Value {
	return Value{typ: TypeBulk, data: data, set: true}
}

func BulkString(s string) Value {
	return Bulk([]byte(s))
}

// Nil is the null bulk string reply ($-1).
func Nil() Value {
	return Value{typ: TypeBulk}
}

func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{typ: TypeArray, arr: elems, set: true}
}

// NilArray is the null array reply (*-1).
func NilArray() Value {
	return Value{typ: TypeArray}
}

func (v Value) Type() Type {
	if v.typ == 0 {
		return TypeBulk
	}
	return v.typ
}

// IsNil reports whether v is a null bulk string or null array.
func (v Value) IsNil() bool {
	return !v.set
}

// Bytes returns the raw bytes of a status, error or bulk value. It is nil for
// nil values and empty for integer and array values.
func (v Value) Bytes() []byte {
	return v.data
}

func (v Value) Text() string {
	return string(v.data)
}

// Num returns the payload of an integer value.
func (v Value) Num() int64 {
	return v.num
}

// Elems returns the elements of an array value, or nil for any other type.
func (v Value) Elems() []Value {
	return v.arr
}

func (v Value) String() string {
	switch v.Type() {
	case TypeStatus:
		return "+" + v.Text()
	case TypeError:
		return "-" + v.Text()
	case TypeInteger:
		return ":" + strconv.FormatInt(v.num, 10)
	case TypeBulk:
		if v.IsNil() {
			return "$(nil)"
		}
		return "$" + v.Text()
	default:
		if v.IsNil() {
			return "*(nil)"
		}
		s := "*["
		for i, e := range v.arr {
			if i > 0 {
				s += " "
			}
			s += e.String()
		}
		return s + "]"
	}
}
