package scan

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YushiOMOTE/redis-ac/pkg/client"
	"github.com/YushiOMOTE/redis-ac/pkg/resp"
)

// fakeConn serves scripted page replies and records every issued command, so
// tests can assert both cursor sequencing and that the stream stops touching
// the connection once it is handed back.
type fakeConn struct {
	t       *testing.T
	replies []reply
	cmds    []string
}

type reply struct {
	v   resp.Value
	err error
}

func (f *fakeConn) Do(_ context.Context, cmd *client.Command) (resp.Value, error) {
	f.cmds = append(f.cmds, cmd.String())
	require.NotEmpty(f.t, f.replies, "unexpected command %s", cmd)
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.v, r.err
}

func (f *fakeConn) ReadPush(context.Context) (resp.Value, error) {
	f.t.Fatal("unexpected ReadPush on scan connection")
	return resp.Value{}, nil
}

func (f *fakeConn) Close() error { return nil }

func page(cursor string, items ...string) reply {
	elems := make([]resp.Value, 0, len(items))
	for _, it := range items {
		elems = append(elems, resp.BulkString(it))
	}
	return reply{v: resp.Array(resp.BulkString(cursor), resp.Array(elems...))}
}

func TestStreamDeliveryOrder(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("5", "a", "b"), page("0", "c")}}
	s := NewStrings(fc, Keys("", 0))
	ctx := context.Background()

	step, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", step.Item)
	assert.Nil(t, step.Conn)

	step, ok, err = s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", step.Item)
	assert.Nil(t, step.Conn, "connection must not come back while pages remain")

	step, ok, err = s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c", step.Item)
	assert.Same(t, fc, step.Conn, "connection rides with the last item")

	_, ok, err = s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []string{"SCAN 0", "SCAN 5"}, fc.cmds)
}

func TestStreamCollect(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("5", "a", "b"), page("0", "c")}}
	conn, items, err := NewStrings(fc, Keys("", 0)).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, items)
	assert.Same(t, fc, conn)
}

func TestStreamEmptyEnumeration(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("0")}}
	s := NewStrings(fc, Keys("", 0))
	ctx := context.Background()

	step, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, step.HasItem, "zero-item completion still emits a terminal step")
	assert.Same(t, fc, step.Conn)

	_, ok, err = s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreamCollectEmpty(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("0")}}
	conn, items, err := NewStrings(fc, Keys("", 0)).Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Same(t, fc, conn)
}

func TestStreamEmptyMiddlePage(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("3", "a"), page("7"), page("0", "b")}}
	conn, items, err := NewStrings(fc, Keys("", 0)).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, items)
	assert.Same(t, fc, conn)
	assert.Equal(t, []string{"SCAN 0", "SCAN 3", "SCAN 7"}, fc.cmds)
}

func TestStreamPageError(t *testing.T) {
	boom := errors.New("connection reset")
	fc := &fakeConn{t: t, replies: []reply{page("5", "a"), {err: boom}}}
	s := NewStrings(fc, Keys("", 0))
	ctx := context.Background()

	step, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", step.Item)

	_, _, err = s.Next(ctx)
	require.ErrorIs(t, err, boom)

	// Fatal and sticky: the connection is lost and no further page is issued.
	_, _, err = s.Next(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"SCAN 0", "SCAN 5"}, fc.cmds)
}

func TestStreamDecodeMismatchIsFatal(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{{v: resp.BulkString("not a page")}}}
	_, _, err := NewStrings(fc, Keys("", 0)).Collect(context.Background())
	require.Error(t, err)
}

func TestStreamNoUseAfterHandBack(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("0", "a")}}
	s := NewStrings(fc, Keys("", 0))
	ctx := context.Background()

	step, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Same(t, fc, step.Conn)
	issued := len(fc.cmds)

	for i := 0; i < 3; i++ {
		_, ok, err := s.Next(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, issued, len(fc.cmds))
}

func TestStreamDuplicatesPassThrough(t *testing.T) {
	fc := &fakeConn{t: t, replies: []reply{page("9", "k", "k"), page("0", "k")}}
	_, items, err := NewStrings(fc, Keys("", 0)).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "k", "k"}, items, "server-side duplicates are not deduplicated")
}

func TestFactoryArgs(t *testing.T) {
	assert.Equal(t, "SCAN 0", Keys("", 0)(0).String())
	assert.Equal(t, "SCAN 42 MATCH key* COUNT 100", Keys("key*", 100)(42).String())
	assert.Equal(t, "HSCAN h 7 MATCH f*", HashFields("h", "f*", 0)(7).String())
	assert.Equal(t, "SSCAN s 0", SetMembers("s", "", 0)(0).String())
	assert.Equal(t, "ZSCAN z 3 COUNT 10", SortedSetMembers("z", "", 10)(3).String())
}

func TestFactoryReinvocable(t *testing.T) {
	f := HashFields("h", "f*", 0)
	assert.Equal(t, f(5).String(), f(5).String(), "factory must be pure")
	assert.Equal(t, "HSCAN h 0 MATCH f*", f(0).String())
}
