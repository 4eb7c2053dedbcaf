package client

import (
	"bytes"
	"context"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/YushiOMOTE/redis-ac/pkg/resp"
)

// ErrClosed reports use of a connection after Close.
var ErrClosed = errors.New("client: connection closed")

// Conn is one live session with the server. A Conn must be driven from one
// place at a time: it is handed to a scan stream or a subscription loop, which
// owns it until it is handed back, and it must never carry two in-flight
// operations at once. Exclusive use is by hand-off, not by locking.
type Conn interface {
	// Do sends one command and reads exactly one reply. Server error replies
	// are returned as error-typed values and surfaced by the decode helpers;
	// the returned error covers transport and framing failures only.
	Do(ctx context.Context, cmd *Command) (resp.Value, error)

	// ReadPush blocks until the next server-pushed frame arrives, without
	// sending anything. Used for subscription delivery.
	ReadPush(ctx context.Context) (resp.Value, error)

	Close() error
}

type conn struct {
	nc           net.Conn
	rd           *resp.Reader
	wbuf         bytes.Buffer
	readTimeout  time.Duration
	writeTimeout time.Duration
	closed       bool
}

// NewConn wraps an established network connection. Most callers use Dial.
func NewConn(nc net.Conn, opts Options) Conn {
	opts.init()
	return &conn{
		nc:           nc,
		rd:           resp.NewReader(nc),
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}
}

func (c *conn) Do(ctx context.Context, cmd *Command) (resp.Value, error) {
	if c.closed {
		return resp.Value{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return resp.Value{}, err
	}

	c.wbuf.Reset()
	resp.AppendCommand(&c.wbuf, cmd.Name(), cmd.Args())
	if err := c.nc.SetWriteDeadline(deadline(ctx, c.writeTimeout)); err != nil {
		return resp.Value{}, errors.Wrap(err, "client: set write deadline")
	}
	if _, err := c.nc.Write(c.wbuf.Bytes()); err != nil {
		return resp.Value{}, errors.Wrapf(err, "client: write %s", cmd.Name())
	}

	if err := c.nc.SetReadDeadline(deadline(ctx, c.readTimeout)); err != nil {
		return resp.Value{}, errors.Wrap(err, "client: set read deadline")
	}
	v, err := c.rd.ReadValue()
	if err != nil {
		return resp.Value{}, errors.Wrapf(err, "client: read %s reply", cmd.Name())
	}
	return v, nil
}

func (c *conn) ReadPush(ctx context.Context) (resp.Value, error) {
	if c.closed {
		return resp.Value{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return resp.Value{}, err
	}

	// No default timeout here: a subscription may legitimately stay idle for
	// a long time. The context deadline, if any, still applies, and Close
	// unblocks a pending read.
	if err := c.nc.SetReadDeadline(deadline(ctx, 0)); err != nil {
		return resp.Value{}, errors.Wrap(err, "client: set read deadline")
	}
	v, err := c.rd.ReadValue()
	if err != nil {
		return resp.Value{}, errors.Wrap(err, "client: read push")
	}
	return v, nil
}

func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.nc.Close()
}

// deadline picks the context deadline when set, the default otherwise.
// A zero default means no deadline.
func deadline(ctx context.Context, def time.Duration) time.Time {
	if t, ok := ctx.Deadline(); ok {
		return t
	}
	if def > 0 {
		return time.Now().Add(def)
	}
	return time.Time{}
}
