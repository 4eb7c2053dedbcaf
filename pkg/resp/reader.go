package resp

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ErrProtocol reports a reply that does not follow the RESP framing rules.
var ErrProtocol = errors.New("resp: protocol error")

// Declared-length caps, matching the server's own proto limits. Anything
// larger is a corrupt or hostile frame, rejected before allocating.
const (
	maxBulkLen  = 512 * 1024 * 1024
	maxArrayLen = 1024 * 1024
)

// Reader decodes RESP values from a stream. It is not safe for concurrent use.
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadValue reads exactly one reply, including all elements of nested arrays.
// Server error replies are returned as error-typed values, not as a Go error.
func (r *Reader) ReadValue() (Value, error) {
	line, err := r.readLine()
	if err != nil {
		return Value{}, err
	}
	switch line[0] {
	case '+':
		return Status(string(line[1:])), nil
	case '-':
		return Error(string(line[1:])), nil
	case ':':
		n, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return Value{}, errors.Wrapf(ErrProtocol, "bad integer %q", line)
		}
		return Integer(n), nil
	case '$':
		return r.readBulk(line)
	case '*':
		return r.readArray(line)
	default:
		return Value{}, errors.Wrapf(ErrProtocol, "bad prefix %q", line)
	}
}

// readLine reads one \r\n terminated line, without the terminator.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) < 3 || line[len(line)-2] != '\r' {
		return nil, errors.Wrapf(ErrProtocol, "bad line %q", line)
	}
	return line[:len(line)-2], nil
}

func (r *Reader) readBulk(header []byte) (Value, error) {
	n, err := strconv.ParseInt(string(header[1:]), 10, 64)
	if err != nil {
		return Value{}, errors.Wrapf(ErrProtocol, "bad bulk header %q", header)
	}
	if n == -1 {
		return Nil(), nil
	}
	if n < 0 || n > maxBulkLen {
		return Value{}, errors.Wrapf(ErrProtocol, "bad bulk length %d", n)
	}
	buf := make([]byte, n+2)
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return Value{}, err
	}
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return Value{}, errors.Wrap(ErrProtocol, "bulk not CRLF terminated")
	}
	return Bulk(buf[:n]), nil
}

func (r *Reader) readArray(header []byte) (Value, error) {
	n, err := strconv.ParseInt(string(header[1:]), 10, 64)
	if err != nil {
		return Value{}, errors.Wrapf(ErrProtocol, "bad array header %q", header)
	}
	if n == -1 {
		return NilArray(), nil
	}
	if n < 0 || n > maxArrayLen {
		return Value{}, errors.Wrapf(ErrProtocol, "bad array length %d", n)
	}
	elems := make([]Value, 0, n)
	for i := int64(0); i < n; i++ {
		elem, err := r.ReadValue()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, elem)
	}
	return Array(elems...), nil
}
