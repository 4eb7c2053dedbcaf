// Package pubsub runs a channel subscription as a handler-driven loop: it
// subscribes, delivers each pushed message to a caller handler, and lets the
// handler's control decision end the subscription with a final value. The
// connection is owned by the loop for its whole lifetime and handed back when
// the loop resolves.
package pubsub

import (
	"context"

	"github.com/pkg/errors"

	"github.com/YushiOMOTE/redis-ac/pkg/client"
	"github.com/YushiOMOTE/redis-ac/pkg/resp"
)

// ControlFlow is a handler's decision after one message: keep receiving, or
// break out of the loop with a final value.
type ControlFlow[U any] struct {
	brk   bool
	value U
}

func Continue[U any]() ControlFlow[U] {
	return ControlFlow[U]{}
}

func Break[U any](value U) ControlFlow[U] {
	return ControlFlow[U]{brk: true, value: value}
}

// Handler is invoked once per delivered message, strictly in receipt order;
// message N+1 is never read before the decision for message N.
type Handler[U any] func(ctx context.Context, msg *Msg) (ControlFlow[U], error)

// Subscribe subscribes to the given channels and runs handler for every
// message until it returns Break. The loop then unsubscribes from all
// channels and patterns, consumes their acknowledgements, and returns the
// connection with the break value, free of any subscription.
//
// On a handler error the connection is returned together with the error and
// no unsubscribe is issued; on a transport or protocol error the connection
// is lost and the returned Conn is nil.
func Subscribe[U any](ctx context.Context, conn client.Conn, handler Handler[U],
	channels ...string) (client.Conn, U, error) {
	return run(ctx, conn, client.NewCommand("SUBSCRIBE", channels...), len(channels), 0, handler)
}

// PSubscribe is Subscribe over pattern subscriptions.
func PSubscribe[U any](ctx context.Context, conn client.Conn, handler Handler[U],
	patterns ...string) (client.Conn, U, error) {
	return run(ctx, conn, client.NewCommand("PSUBSCRIBE", patterns...), 0, len(patterns), handler)
}

func run[U any](ctx context.Context, conn client.Conn, sub *client.Command,
	nchannels, npatterns int, handler Handler[U]) (client.Conn, U, error) {
	var zero U

	ack, err := conn.Do(ctx, sub)
	if err == nil {
		err = resp.Err(ack)
	}
	if err != nil {
		return nil, zero, errors.WithMessagef(err, "pubsub: %s", sub.Name())
	}

	for {
		v, err := conn.ReadPush(ctx)
		if err != nil {
			return nil, zero, errors.WithMessage(err, "pubsub: receive")
		}
		msg := msgFromValue(v)
		if msg == nil {
			continue
		}

		flow, err := handler(ctx, msg)
		if err != nil {
			return conn, zero, err
		}
		if !flow.brk {
			continue
		}

		// Both forms are cleared regardless of which subscribe variant was
		// used, so the connection comes back free of any subscription.
		if err := clearSubscriptions(ctx, conn, "UNSUBSCRIBE", max(nchannels, 1)); err != nil {
			return nil, zero, err
		}
		if err := clearSubscriptions(ctx, conn, "PUNSUBSCRIBE", max(npatterns, 1)); err != nil {
			return nil, zero, err
		}
		return conn, flow.value, nil
	}
}

// ackTags maps the unsubscribe command to the type tag of its
// acknowledgement frames.
var ackTags = map[string]string{
	"UNSUBSCRIBE":  "unsubscribe",
	"PUNSUBSCRIBE": "punsubscribe",
}

// clearSubscriptions issues one unsubscribe form and consumes all of its
// acknowledgement frames. The server sends one frame per cleared channel or
// pattern (one for the whole command when there is nothing to clear), and a
// message already in flight may arrive ahead of them, so frames are drained
// through the same filter used while receiving until `want` acknowledgements
// have been seen.
func clearSubscriptions(ctx context.Context, conn client.Conn, name string, want int) error {
	tag := ackTags[name]

	frame, err := conn.Do(ctx, client.NewCommand(name))
	if err != nil {
		return errors.WithMessagef(err, "pubsub: %s", tag)
	}
	for seen := 0; ; {
		if err := resp.Err(frame); err != nil {
			return errors.WithMessagef(err, "pubsub: %s", tag)
		}
		if isAck(frame, tag) {
			seen++
		}
		if seen >= want {
			return nil
		}
		frame, err = conn.ReadPush(ctx)
		if err != nil {
			return errors.WithMessagef(err, "pubsub: %s", tag)
		}
	}
}

func isAck(v resp.Value, tag string) bool {
	elems := v.Elems()
	if len(elems) == 0 {
		return false
	}
	got, err := resp.String(elems[0])
	return err == nil && got == tag
}
