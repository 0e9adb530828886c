package protocol

import "errors"

// ErrBufferFull is returned by Decoder.Write when the receive FIFO cannot
// take the whole chunk. Drain frames with Next and write the rest.
var ErrBufferFull = errors.New("decoder buffer full")

// EncodeFrame wraps the payload written by fill in a message block. seq is
// masked to its low nibble and tagged with MessageDest.
func EncodeFrame(out OutputBuffer, seq uint8, fill func(output OutputBuffer)) {
	cursor := out.CurPosition()

	// Header: length placeholder and sequence
	out.Output([]byte{0, (seq & MessageSeqMask) | MessageDest})

	fill(out)

	changed := len(out.DataSince(cursor))
	out.Update(cursor, uint8(changed+MessageTrailerSize))

	crc := CRC16(out.DataSince(cursor))
	out.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})
}

// Frame is one validated message block
type Frame struct {
	Seq     uint8 // Sequence nibble, 0-15
	Payload []byte
}

// Decoder splits a byte stream into frames. It starts unsynchronized, since
// a monitor usually attaches mid-stream, and drops input up to the next sync
// byte whenever a block fails its length, destination or CRC check.
type Decoder struct {
	fifo         *FifoBuffer
	synchronized bool
	started      bool
	nextSeq      uint8

	Resyncs uint32 // Framing errors that forced a resync
	Lost    uint32 // Frames skipped according to sequence numbers
}

// NewDecoder creates a decoder buffering up to capacity bytes
func NewDecoder(capacity int) *Decoder {
	if capacity < MessageLengthMax+1 {
		capacity = MessageLengthMax + 1
	}
	return &Decoder{fifo: NewFifoBuffer(capacity)}
}

// Write queues raw serial bytes for decoding
func (d *Decoder) Write(p []byte) (int, error) {
	n := d.fifo.Write(p)
	if n < len(p) {
		return n, ErrBufferFull
	}
	return n, nil
}

// Next returns the next complete frame, or false when more input is needed
func (d *Decoder) Next() (Frame, bool) {
	data := d.fifo.Data()
	avail := len(data)
	frame, ok := d.scan(&data)
	d.fifo.Pop(avail - len(data))
	return frame, ok
}

func (d *Decoder) scan(buf *[]byte) (Frame, bool) {
	data := *buf
	defer func() { *buf = data }()

	for len(data) > 0 {
		if !d.synchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				return Frame{}, false
			}
			data = data[syncPos+1:]
			d.synchronized = true
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
			d.desync()
			continue
		}

		seq := data[MessagePositionSeq]
		if seq&^MessageSeqMask != MessageDest {
			d.desync()
			continue
		}

		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		data = data[msgLen:]

		seq &= MessageSeqMask
		if d.started && seq != d.nextSeq {
			d.Lost += uint32((seq - d.nextSeq) & MessageSeqMask)
		}
		d.started = true
		d.nextSeq = (seq + 1) & MessageSeqMask

		return Frame{Seq: seq, Payload: payload}, true
	}
	return Frame{}, false
}

// desync drops the current block; scanning resumes after the next sync byte
func (d *Decoder) desync() {
	d.synchronized = false
	d.Resyncs++
}

// Buffered returns the number of bytes waiting for a complete frame
func (d *Decoder) Buffered() int {
	return d.fifo.Available()
}

// Reset discards buffered input and sequence tracking
func (d *Decoder) Reset() {
	d.fifo.Reset()
	d.synchronized = false
	d.started = false
	d.nextSeq = 0
}
