// Package rangefinder decodes the text output of a LightWare SF11 laser
// rangefinder. A PacketParser rebuilds newline terminated packets from an
// arbitrarily fragmented byte stream and writes every valid one into a
// ReadingStore, which hands out timestamped readings.
//
// Neither type is safe for concurrent use. Feed, HasNewData and Get are meant
// to be called from a single read loop.
package rangefinder

import (
	"github.com/NotCoffee418/sf11_rangefinder/pkg/monitoring"
)

// PacketCapacity is the size of the packet buffer. One byte is kept free, so a
// packet holds at most PacketCapacity-1 bytes; the rest of a longer line is
// dropped.
const PacketCapacity = 64

type PacketParser struct {
	store *ReadingStore

	buffer    [PacketCapacity]byte
	index     int
	truncated bool
}

func NewPacketParser(store *ReadingStore) *PacketParser {
	return &PacketParser{store: store}
}

// Feed runs every byte of rx through the framing state machine. Chunks need
// not be aligned with packet boundaries; a partial packet is carried over to
// the next call.
func (p *PacketParser) Feed(rx []byte) {
	for _, b := range rx {
		switch b {
		case '\n':
			p.terminate()

		case '\r':
			// Ignore

		default:
			if p.index < len(p.buffer)-1 {
				p.buffer[p.index] = b
				p.index++
			} else if !p.truncated {
				p.truncated = true
				p.store.stats.Overflows++
				monitoring.Logf("Packet longer than %d bytes, dropping the rest of the line", len(p.buffer)-1)
			}
		}
	}
}

// Buffered returns the number of bytes of the packet in progress.
func (p *PacketParser) Buffered() int {
	return p.index
}

// terminate parses the buffered packet and always resets the buffer, so a bad
// line never leaks into the next one.
func (p *PacketParser) terminate() {
	packet := p.buffer[:p.index]

	if parsed, err := ParsePacket(packet); err == nil {
		p.store.update(parsed)
	} else {
		p.store.stats.Malformed++
		monitoring.Logf("Discarding packet %q: %v", packet, err)
	}

	p.index = 0
	p.truncated = false
}
