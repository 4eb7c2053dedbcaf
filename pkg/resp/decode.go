package resp

import (
	"strconv"

	"github.com/pkg/errors"
)

// ErrNil reports a nil reply, e.g. GET on a missing key.
var ErrNil = errors.New("resp: nil reply")

// ServerError is an error reply sent by the server (-ERR ..., -WRONGTYPE ...).
type ServerError struct {
	Msg string
}

func (e *ServerError) Error() string {
	return "resp: server error: " + e.Msg
}

// Err surfaces an error reply as a *ServerError, nil for any other value.
// Useful when a reply's payload is irrelevant but its failure is not.
func Err(v Value) error {
	if v.Type() == TypeError {
		return &ServerError{Msg: v.Text()}
	}
	return nil
}

func serverErr(v Value) error {
	return Err(v)
}

// String decodes a status or bulk reply.
func String(v Value) (string, error) {
	if err := serverErr(v); err != nil {
		return "", err
	}
	switch v.Type() {
	case TypeStatus:
		return v.Text(), nil
	case TypeBulk:
		if v.IsNil() {
			return "", ErrNil
		}
		return v.Text(), nil
	default:
		return "", errors.Errorf("resp: cannot decode %s as string", v)
	}
}

// Int decodes an integer reply, or a bulk reply holding decimal digits.
func Int(v Value) (int64, error) {
	if err := serverErr(v); err != nil {
		return 0, err
	}
	switch v.Type() {
	case TypeInteger:
		return v.Num(), nil
	case TypeBulk:
		if v.IsNil() {
			return 0, ErrNil
		}
		n, err := strconv.ParseInt(v.Text(), 10, 64)
		return n, errors.Wrapf(err, "resp: cannot decode %s as int", v)
	default:
		return 0, errors.Errorf("resp: cannot decode %s as int", v)
	}
}

func Uint64(v Value) (uint64, error) {
	n, err := Int(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.Errorf("resp: cannot decode %d as uint64", n)
	}
	return uint64(n), nil
}

func Float64(v Value) (float64, error) {
	if err := serverErr(v); err != nil {
		return 0, err
	}
	if v.Type() != TypeBulk || v.IsNil() {
		return 0, errors.Errorf("resp: cannot decode %s as float", v)
	}
	f, err := strconv.ParseFloat(v.Text(), 64)
	return f, errors.Wrapf(err, "resp: cannot decode %s as float", v)
}

// Bool decodes an integer reply as existence (:1 / :0).
func Bool(v Value) (bool, error) {
	n, err := Int(v)
	return n != 0, err
}

// Values decodes an array reply into its elements.
func Values(v Value) ([]Value, error) {
	if err := serverErr(v); err != nil {
		return nil, err
	}
	if v.Type() != TypeArray {
		return nil, errors.Errorf("resp: cannot decode %s as array", v)
	}
	if v.IsNil() {
		return nil, ErrNil
	}
	return v.Elems(), nil
}

// Strings decodes an array of bulk or status replies.
func Strings(v Value) ([]string, error) {
	elems, err := Values(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		s, err := String(e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// StringMap decodes a flat field-value array reply (e.g. HGETALL) into a map.
func StringMap(v Value) (map[string]string, error) {
	elems, err := Strings(v)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, errors.Errorf("resp: odd pair count %d", len(elems))
	}
	out := make(map[string]string, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		out[elems[i]] = elems[i+1]
	}
	return out, nil
}

// Page decodes one reply of a cursor command: a two element array holding the
// next cursor and the items of the page. Cursor 0 means no further pages.
func Page(v Value) (cursor uint64, items []Value, err error) {
	elems, err := Values(v)
	if err != nil {
		return 0, nil, err
	}
	if len(elems) != 2 {
		return 0, nil, errors.Errorf("resp: scan reply arity %d", len(elems))
	}
	cursor, err = Uint64(elems[0])
	if err != nil {
		return 0, nil, err
	}
	items, err = Values(elems[1])
	if err != nil {
		return 0, nil, err
	}
	return cursor, items, nil
}
