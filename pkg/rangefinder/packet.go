package rangefinder

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrMalformedPacket = errors.New("malformed packet")

// ParsedReading holds the three fields of one SF11 text packet.
type ParsedReading struct {
	Distance float64 // [m]
	Voltage  float64 // [V]
	Strength float64 // [%]
}

// ParsePacket decodes one line of the form "<float> m <float> V <float>".
// Whitespace between tokens is optional. Anything after the third field fails
// the whole packet.
func ParsePacket(packet []byte) (ParsedReading, error) {
	var (
		s   = packetScanner{data: packet}
		p   ParsedReading
		err error
	)
	if p.Distance, err = s.float("distance"); err != nil {
		return ParsedReading{}, err
	}
	if err = s.literal('m'); err != nil {
		return ParsedReading{}, err
	}
	if p.Voltage, err = s.float("voltage"); err != nil {
		return ParsedReading{}, err
	}
	if err = s.literal('V'); err != nil {
		return ParsedReading{}, err
	}
	if p.Strength, err = s.float("strength"); err != nil {
		return ParsedReading{}, err
	}
	if err = s.end(); err != nil {
		return ParsedReading{}, err
	}
	return p, nil
}

type packetScanner struct {
	data []byte
	pos  int
}

func (s *packetScanner) skipSpace() {
	for s.pos < len(s.data) && isSpace(s.data[s.pos]) {
		s.pos++
	}
}

// float consumes a decimal number with optional sign, fraction and exponent.
func (s *packetScanner) float(field string) (float64, error) {
	s.skipSpace()
	d, n := s.data, len(s.data)
	start, i := s.pos, s.pos

	if i < n && (d[i] == '+' || d[i] == '-') {
		i++
	}
	digits := 0
	for i < n && isDigit(d[i]) {
		i++
		digits++
	}
	if i < n && d[i] == '.' {
		i++
		for i < n && isDigit(d[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: missing %s at offset %d", ErrMalformedPacket, field, start)
	}

	// exponent only counts when at least one digit follows
	if i < n && (d[i] == 'e' || d[i] == 'E') {
		j := i + 1
		if j < n && (d[j] == '+' || d[j] == '-') {
			j++
		}
		if j < n && isDigit(d[j]) {
			for j < n && isDigit(d[j]) {
				j++
			}
			i = j
		}
	}

	v, err := strconv.ParseFloat(string(d[start:i]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformedPacket, field, err)
	}
	s.pos = i
	return v, nil
}

func (s *packetScanner) literal(c byte) error {
	s.skipSpace()
	if s.pos >= len(s.data) || s.data[s.pos] != c {
		return fmt.Errorf("%w: expected %q at offset %d", ErrMalformedPacket, c, s.pos)
	}
	s.pos++
	return nil
}

func (s *packetScanner) end() error {
	s.skipSpace()
	if s.pos != len(s.data) {
		return fmt.Errorf("%w: trailing data at offset %d", ErrMalformedPacket, s.pos)
	}
	return nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
