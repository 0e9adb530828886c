// Package monitor decodes the trace stream of a toggling board and checks it
// for toggle parity and periodicity.
package monitor

import (
	"context"
	"errors"
	"io"

	"ticktoggle/core"
	"ticktoggle/protocol"
)

// Stream turns raw serial bytes into trace events
type Stream struct {
	r      io.Reader
	dec    *protocol.Decoder
	buf    []byte
	follow bool

	// BadPayloads counts frames that passed the CRC but held no valid event
	BadPayloads uint32
}

// NewStream decodes events from r. With follow set, io.EOF means "no data
// yet", which is how a serial port with a read timeout reports an idle line.
func NewStream(r io.Reader, follow bool) *Stream {
	return &Stream{
		r:      r,
		dec:    protocol.NewDecoder(1024),
		buf:    make([]byte, 256),
		follow: follow,
	}
}

// Next blocks until an event is decoded, the reader fails or ctx is done
func (s *Stream) Next(ctx context.Context) (core.TraceEvent, error) {
	for {
		for {
			frame, ok := s.dec.Next()
			if !ok {
				break
			}
			evt, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.BadPayloads++
				continue
			}
			return evt, nil
		}

		if err := ctx.Err(); err != nil {
			return core.TraceEvent{}, err
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			// Next drains the decoder before the following read, so the
			// chunk always fits
			s.dec.Write(s.buf[:n])
		}
		if errors.Is(err, io.EOF) && s.follow {
			continue
		}
		if err != nil {
			return core.TraceEvent{}, err
		}
	}
}

// Resyncs returns how many framing errors the decoder recovered from
func (s *Stream) Resyncs() uint32 {
	return s.dec.Resyncs
}

// Lost returns how many frames were missed according to sequence numbers
func (s *Stream) Lost() uint32 {
	return s.dec.Lost
}
