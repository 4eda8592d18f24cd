package chip8

import (
	"errors"
	"fmt"
)

// Sentinel errors, every error returned by the machine wraps one of them.
var (
	ErrImageTooLarge  = errors.New("program image too large")
	ErrOutOfBounds    = errors.New("program counter out of bounds")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
)

// LoadError is returned when a program image does not fit into memory.
type LoadError struct {
	Size int // size of the rejected image
	Max  int // maximum supported image size
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %d bytes exceeds maximum of %d bytes", ErrImageTooLarge, e.Size, e.Max)
}

func (e *LoadError) Unwrap() error {
	return ErrImageTooLarge
}

// FetchError is returned when an opcode can not be read because the
// program counter left the addressable memory.
type FetchError struct {
	Address uint16
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: fetching opcode at $%04X", ErrOutOfBounds, e.Address)
}

func (e *FetchError) Unwrap() error {
	return ErrOutOfBounds
}

// DecodeError is returned for opcodes that do not map to an instruction.
type DecodeError struct {
	Address uint16
	Opcode  Opcode
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s $%04X at $%04X", ErrUnknownOpcode, uint16(e.Opcode), e.Address)
}

func (e *DecodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// Bytes returns the raw opcode bytes in memory order.
func (e *DecodeError) Bytes() [2]byte {
	return [2]byte{byte(e.Opcode >> 8), byte(e.Opcode)}
}

// StackError is returned when a call exceeds the stack capacity or a
// return is executed on an empty stack.
type StackError struct {
	Address uint16
	Err     error // ErrStackOverflow or ErrStackUnderflow
}

func (e *StackError) Error() string {
	return fmt.Sprintf("%s at $%04X", e.Err, e.Address)
}

func (e *StackError) Unwrap() error {
	return e.Err
}
