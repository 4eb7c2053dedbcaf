package pubsub

import (
	"github.com/YushiOMOTE/redis-ac/pkg/resp"
)

// Msg is one pubsub message. Pattern is present only for messages delivered
// through a pattern subscription.
type Msg struct {
	payload resp.Value
	channel resp.Value
	pattern resp.Value
	hasPat  bool
}

// Channel decodes the channel the message came on.
func (m *Msg) Channel() (string, error) {
	return resp.String(m.channel)
}

// ChannelName is Channel with a "?" fallback for non-string channels.
func (m *Msg) ChannelName() string {
	s, err := resp.String(m.channel)
	if err != nil {
		return "?"
	}
	return s
}

// Payload decodes the message payload as a string.
func (m *Msg) Payload() (string, error) {
	return resp.String(m.payload)
}

// PayloadBytes returns the raw payload bytes, or nil for non-bulk payloads.
func (m *Msg) PayloadBytes() []byte {
	return m.payload.Bytes()
}

// FromPattern reports whether the message came from a pattern subscription.
func (m *Msg) FromPattern() bool {
	return m.hasPat
}

// Pattern decodes the matching pattern of a pattern-subscription message.
func (m *Msg) Pattern() (string, error) {
	if !m.hasPat {
		return "", resp.ErrNil
	}
	return resp.String(m.pattern)
}

// msgFromValue decodes a push frame into a Msg. Frames that are not an array
// tagged "message" or "pmessage" with the right arity, such as subscribe and
// unsubscribe acknowledgements, yield nil and are skipped by the caller.
func msgFromValue(v resp.Value) *Msg {
	elems, err := resp.Values(v)
	if err != nil {
		return nil
	}
	if len(elems) == 0 {
		return nil
	}
	tag, err := resp.String(elems[0])
	if err != nil {
		return nil
	}
	switch tag {
	case "message":
		if len(elems) < 3 {
			return nil
		}
		return &Msg{channel: elems[1], payload: elems[2]}
	case "pmessage":
		if len(elems) < 4 {
			return nil
		}
		return &Msg{pattern: elems[1], channel: elems[2], payload: elems[3], hasPat: true}
	default:
		return nil
	}
}
