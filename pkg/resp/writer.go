package resp

import (
	"bytes"
	"strconv"
)

const crlf = "\r\n"

// AppendCommand appends a command encoded as a multi-bulk request frame,
// e.g. SET key value -> *3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n.
func AppendCommand(buf *bytes.Buffer, name string, args []string) {
	buf.WriteByte('*')
	buf.WriteString(strconv.Itoa(len(args) + 1))
	buf.WriteString(crlf)
	appendBulk(buf, name)
	for _, arg := range args {
		appendBulk(buf, arg)
	}
}

func appendBulk(buf *bytes.Buffer, s string) {
	buf.WriteByte('$')
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteString(crlf)
	buf.WriteString(s)
	buf.WriteString(crlf)
}
