package client

import (
	"context"
	"net"
	"time"

	"github.com/KyberNetwork/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// Options configures Dial and a dialed connection.
type Options struct {
	Addr string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxDialRetries bounds backoff retries of the initial dial.
	// Zero means dial once without retrying.
	MaxDialRetries uint64
}

func (o *Options) init() {
	if o.DialTimeout == 0 {
		o.DialTimeout = defaultDialTimeout
	}
	if o.ReadTimeout == 0 {
		o.ReadTimeout = defaultReadTimeout
	}
	if o.WriteTimeout == 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
}

// Dial establishes one connection to the server. Dial failures are retried
// with exponential backoff up to MaxDialRetries; once established, the
// connection is never redialed by this package.
func Dial(ctx context.Context, opts Options) (Conn, error) {
	opts.init()
	dialer := net.Dialer{Timeout: opts.DialTimeout}

	var nc net.Conn
	op := func() error {
		var err error
		nc, err = dialer.DialContext(ctx, "tcp", opts.Addr)
		return err
	}
	notify := func(err error, next time.Duration) {
		logger.Warnf("client: dial %s failed, retrying in %s: %v", opts.Addr, next, err)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), opts.MaxDialRetries), ctx)
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return nil, errors.Wrapf(err, "client: dial %s", opts.Addr)
	}
	return NewConn(nc, opts), nil
}
