package protocol

import (
	"errors"

	"ticktoggle/core"
)

// ErrTrailingData is returned when a trace payload holds more than one event
var ErrTrailingData = errors.New("trailing bytes after trace event")

// EncodeEvent writes a trace event as VLQ(type, clock, value1, value2)
func EncodeEvent(out OutputBuffer, evt core.TraceEvent) {
	EncodeVLQUint(out, uint32(evt.Type))
	EncodeVLQUint(out, evt.Clock)
	EncodeVLQUint(out, evt.Value1)
	EncodeVLQUint(out, evt.Value2)
}

// DecodeEvent parses the payload of a trace frame
func DecodeEvent(payload []byte) (core.TraceEvent, error) {
	var evt core.TraceEvent
	data := payload

	typ, err := DecodeVLQUint(&data)
	if err != nil {
		return evt, err
	}
	if evt.Clock, err = DecodeVLQUint(&data); err != nil {
		return evt, err
	}
	if evt.Value1, err = DecodeVLQUint(&data); err != nil {
		return evt, err
	}
	if evt.Value2, err = DecodeVLQUint(&data); err != nil {
		return evt, err
	}
	if len(data) != 0 {
		return evt, ErrTrailingData
	}
	evt.Type = uint8(typ)
	return evt, nil
}

// TraceEncoder frames trace events with a running sequence number. It reuses
// one scratch buffer, so the slice returned by Frame is only valid until the
// next call.
type TraceEncoder struct {
	out ScratchOutput
	seq uint8
}

// Frame encodes evt as a complete message block
func (e *TraceEncoder) Frame(evt core.TraceEvent) []byte {
	e.out.Reset()
	EncodeFrame(&e.out, e.seq, func(output OutputBuffer) {
		EncodeEvent(output, evt)
	})
	e.seq = (e.seq + 1) & MessageSeqMask
	return e.out.Result()
}
