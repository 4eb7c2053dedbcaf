// Package scan drives cursor-based server enumerations (SCAN, HSCAN, SSCAN,
// ZSCAN) as a lazy stream of items. A Stream borrows the connection for the
// whole enumeration and hands it back exactly once, with the last item or as
// a trailing no-item step, so the caller regains exclusive use of it only
// when no request can still be in flight.
package scan

import (
	"context"

	"github.com/pkg/errors"

	"github.com/YushiOMOTE/redis-ac/pkg/client"
	"github.com/YushiOMOTE/redis-ac/pkg/resp"
)

// Decode turns one enumeration item into T.
type Decode[T any] func(resp.Value) (T, error)

// Stream is a finite, non-restartable sequence of enumeration items. It is
// not safe for concurrent use; drive it from one goroutine via Next or
// Collect.
type Stream[T any] struct {
	conn    client.Conn
	factory Factory
	decode  Decode[T]

	cursor   uint64
	more     bool // a page request is still owed (initial, or cursor != 0)
	queue    []T
	returned bool
	err      error
}

// Step is one emission of a Stream. Conn is non-nil on exactly one step per
// stream: together with the last item, or alone when the enumeration finishes
// with no item left to deliver.
type Step[T any] struct {
	Conn    client.Conn
	Item    T
	HasItem bool
}

// New takes ownership of conn until the stream's terminal step.
func New[T any](conn client.Conn, factory Factory, decode Decode[T]) *Stream[T] {
	return &Stream[T]{
		conn:    conn,
		factory: factory,
		decode:  decode,
		more:    true,
	}
}

// NewStrings is New for the common case of bulk-string items.
func NewStrings(conn client.Conn, factory Factory) *Stream[string] {
	return New(conn, factory, resp.String)
}

// Next advances the stream one step. ok is false once the stream is
// exhausted, which happens only after the step carrying the connection has
// been delivered. A page failure is fatal: the error is returned, the
// connection is not recoverable, and every later call returns the same error.
func (s *Stream[T]) Next(ctx context.Context) (step Step[T], ok bool, err error) {
	if s.err != nil {
		return Step[T]{}, false, s.err
	}

	// Refill until an item is available or the server reports cursor 0.
	// A page may legitimately be empty with a nonzero cursor.
	for len(s.queue) == 0 && s.more {
		if err := s.fetchPage(ctx); err != nil {
			return Step[T]{}, false, err
		}
	}

	if len(s.queue) > 0 {
		item := s.queue[0]
		s.queue = s.queue[1:]
		step := Step[T]{Item: item, HasItem: true}
		if len(s.queue) == 0 && !s.more {
			// Last deliverable item: reunite the caller with the connection.
			step.Conn = s.handBack()
		}
		return step, true, nil
	}

	if !s.returned {
		// Empty enumeration: a single trailing step still returns the
		// connection even though no item was ever produced.
		return Step[T]{Conn: s.handBack()}, true, nil
	}
	return Step[T]{}, false, nil
}

func (s *Stream[T]) fetchPage(ctx context.Context) error {
	v, err := s.conn.Do(ctx, s.factory(s.cursor))
	if err != nil {
		return s.fail(err)
	}
	cursor, items, err := resp.Page(v)
	if err != nil {
		return s.fail(err)
	}
	for _, it := range items {
		item, err := s.decode(it)
		if err != nil {
			return s.fail(err)
		}
		s.queue = append(s.queue, item)
	}
	s.cursor = cursor
	s.more = cursor != 0
	return nil
}

func (s *Stream[T]) fail(err error) error {
	s.err = errors.WithMessage(err, "scan")
	s.conn = nil
	return s.err
}

func (s *Stream[T]) handBack() client.Conn {
	c := s.conn
	s.conn = nil
	s.returned = true
	return c
}

// Collect drains the stream, returning every item in emission order together
// with the recovered connection. An empty enumeration yields an empty slice.
func (s *Stream[T]) Collect(ctx context.Context) (client.Conn, []T, error) {
	var items []T
	for {
		step, ok, err := s.Next(ctx)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, errors.New("scan: stream already drained")
		}
		if step.HasItem {
			items = append(items, step.Item)
		}
		if step.Conn != nil {
			return step.Conn, items, nil
		}
	}
}
