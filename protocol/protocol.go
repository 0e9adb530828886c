// Package protocol frames trace events for export over a serial line.
//
// The framing follows Klipper's message blocks: a length byte, a sequence
// byte carrying 0x10 in its high bits, a payload of VLQ-encoded integers,
// a CRC16 and a trailing 0x7E sync byte.
package protocol

// Frame layout constants
const (
	MessageMax         = 256 // Scratch buffer size; holds several frames
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// Message sequence mask
	MessageSeqMask = 0x0F
)
