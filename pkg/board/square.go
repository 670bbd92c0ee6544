// Package board contains the 0x88 chess board representation, move
// generation, move validation and game state tracking.
package board

import "fmt"

// Square represents a square on the board in 0x88 encoding: the rank in the
// upper nibble and the file in the lower nibble. Any value with the 0x88 bits
// set is off the board, so off-board detection is a single mask and the delta
// between two squares determines both direction and distance. 8 bits.
type Square uint8

// NoSquare is the canonical off-board sentinel.
const NoSquare Square = 0x88

const (
	A1 Square = 0x00
	B1 Square = 0x01
	C1 Square = 0x02
	D1 Square = 0x03
	E1 Square = 0x04
	F1 Square = 0x05
	G1 Square = 0x06
	H1 Square = 0x07

	A2 Square = 0x10
	B2 Square = 0x11
	C2 Square = 0x12
	D2 Square = 0x13
	E2 Square = 0x14
	F2 Square = 0x15
	G2 Square = 0x16
	H2 Square = 0x17

	A3 Square = 0x20
	B3 Square = 0x21
	C3 Square = 0x22
	D3 Square = 0x23
	E3 Square = 0x24
	F3 Square = 0x25
	G3 Square = 0x26
	H3 Square = 0x27

	A4 Square = 0x30
	B4 Square = 0x31
	C4 Square = 0x32
	D4 Square = 0x33
	E4 Square = 0x34
	F4 Square = 0x35
	G4 Square = 0x36
	H4 Square = 0x37

	A5 Square = 0x40
	B5 Square = 0x41
	C5 Square = 0x42
	D5 Square = 0x43
	E5 Square = 0x44
	F5 Square = 0x45
	G5 Square = 0x46
	H5 Square = 0x47

	A6 Square = 0x50
	B6 Square = 0x51
	C6 Square = 0x52
	D6 Square = 0x53
	E6 Square = 0x54
	F6 Square = 0x55
	G6 Square = 0x56
	H6 Square = 0x57

	A7 Square = 0x60
	B7 Square = 0x61
	C7 Square = 0x62
	D7 Square = 0x63
	E7 Square = 0x64
	F7 Square = 0x65
	G7 Square = 0x66
	H7 Square = 0x67

	A8 Square = 0x70
	B8 Square = 0x71
	C8 Square = 0x72
	D8 Square = 0x73
	E8 Square = 0x74
	F8 Square = 0x75
	G8 Square = 0x76
	H8 Square = 0x77
)

// NewSquare returns the square for the given file and rank, both 0-7.
func NewSquare(file, rank int) Square {
	return Square(rank<<4 | file)
}

// ParseSquareStr parses a square in algebraic notation, such as "e4".
func ParseSquareStr(str string) (Square, error) {
	if len(str) != 2 {
		return NoSquare, fmt.Errorf("invalid square: '%v'", str)
	}
	if str[0] < 'a' || str[0] > 'h' {
		return NoSquare, fmt.Errorf("invalid file: '%v'", str)
	}
	if str[1] < '1' || str[1] > '8' {
		return NoSquare, fmt.Errorf("invalid rank: '%v'", str)
	}
	return NewSquare(int(str[0]-'a'), int(str[1]-'1')), nil
}

func (s Square) IsValid() bool {
	return s&0x88 == 0
}

// File returns the file, 0 (a) to 7 (h).
func (s Square) File() int {
	return int(s & 0x0F)
}

// Rank returns the rank, 0 (first) to 7 (eighth).
func (s Square) Rank() int {
	return int(s >> 4)
}

// IsLight returns true iff the square is a light square.
func (s Square) IsLight() bool {
	light := s&0x01 != 0
	if s&0x10 != 0 {
		light = !light
	}
	return light
}

// Add returns the square at the given delta. The result may be off-board.
func (s Square) Add(delta int) Square {
	return Square(uint8(int(s) + delta))
}

func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+s.File(), '1'+s.Rank())
}
