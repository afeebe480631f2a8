package script

import (
	"encoding/hex"
	"fmt"
)

// asBool gets the boolean value of the byte array. Any non-zero byte is
// true, except a lone sign bit on the last byte (negative zero).
func asBool(t []byte) bool {
	for i := range t {
		if t[i] != 0 {
			if i == len(t)-1 && t[i] == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

// fromBool converts a boolean into the canonical byte array
func fromBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return nil
}

// stack is a LIFO of byte arrays. Index 0 is the top.
type stack struct {
	stk           [][]byte
	verifyMinimal bool
	maxNumLen     int
}

// Depth returns the number of items on the stack
func (s *stack) Depth() int32 {
	return int32(len(s.stk))
}

// PushByteArray adds the given byte array to the top of the stack
func (s *stack) PushByteArray(so []byte) {
	s.stk = append(s.stk, so)
}

// PushInt converts the number to its minimal encoding and pushes it
func (s *stack) PushInt(val Num) {
	s.PushByteArray(val.Bytes())
}

// PushBool pushes the canonical encoding of a boolean
func (s *stack) PushBool(val bool) {
	s.PushByteArray(fromBool(val))
}

// PopByteArray pops the top item
func (s *stack) PopByteArray() ([]byte, error) {
	return s.nipN(0)
}

// PopInt pops the top item and interprets it as a script number
func (s *stack) PopInt() (Num, error) {
	so, err := s.PopByteArray()
	if err != nil {
		return 0, err
	}
	return MakeNum(so, s.verifyMinimal, s.maxNumLen)
}

// PopBool pops the top item and interprets it as a boolean
func (s *stack) PopBool() (bool, error) {
	so, err := s.PopByteArray()
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

// PeekByteArray returns the nth item from the top without removing it
func (s *stack) PeekByteArray(idx int32) ([]byte, error) {
	sz := int32(len(s.stk))
	if idx < 0 || idx >= sz {
		return nil, scriptError(ErrInvalidStackOperation, fmt.Sprintf(
			"index %d is invalid for stack size %d", idx, sz))
	}
	return s.stk[sz-idx-1], nil
}

// PeekInt returns the nth item as a script number
func (s *stack) PeekInt(idx int32) (Num, error) {
	so, err := s.PeekByteArray(idx)
	if err != nil {
		return 0, err
	}
	return MakeNum(so, s.verifyMinimal, s.maxNumLen)
}

// nipN removes and returns the nth item from the top
func (s *stack) nipN(idx int32) ([]byte, error) {
	sz := int32(len(s.stk))
	if idx < 0 || idx > sz-1 {
		return nil, scriptError(ErrInvalidStackOperation, fmt.Sprintf(
			"index %d is invalid for stack size %d", idx, sz))
	}

	so := s.stk[sz-idx-1]
	if idx == 0 {
		s.stk = s.stk[:sz-1]
	} else if idx == sz-1 {
		s1 := make([][]byte, sz-1)
		copy(s1, s.stk[1:])
		s.stk = s1
	} else {
		s1 := s.stk[sz-idx : sz]
		s.stk = s.stk[:sz-idx-1]
		s.stk = append(s.stk, s1...)
	}
	return so, nil
}

// NipN removes the nth item from the top
func (s *stack) NipN(idx int32) error {
	_, err := s.nipN(idx)
	return err
}

// Tuck copies the top item and inserts it before the second one
func (s *stack) Tuck() error {
	so2, err := s.PopByteArray()
	if err != nil {
		return err
	}
	so1, err := s.PopByteArray()
	if err != nil {
		return err
	}
	s.PushByteArray(so2)
	s.PushByteArray(so1)
	s.PushByteArray(so2)
	return nil
}

// DropN removes the top n items
func (s *stack) DropN(n int32) error {
	if n < 1 {
		return scriptError(ErrInternal, fmt.Sprintf(
			"attempt to drop %d items from stack", n))
	}
	for ; n > 0; n-- {
		if _, err := s.PopByteArray(); err != nil {
			return err
		}
	}
	return nil
}

// DupN duplicates the top n items
func (s *stack) DupN(n int32) error {
	if n < 1 {
		return scriptError(ErrInternal, fmt.Sprintf(
			"attempt to dup %d stack items", n))
	}
	for i := n; i > 0; i-- {
		so, err := s.PeekByteArray(n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// RotN rotates the top 3n items to the left n times
func (s *stack) RotN(n int32) error {
	if n < 1 {
		return scriptError(ErrInternal, fmt.Sprintf(
			"attempt to rotate %d stack items", n))
	}
	entry := 3*n - 1
	for i := n; i > 0; i-- {
		so, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// SwapN swaps the top n items with the n items below them
func (s *stack) SwapN(n int32) error {
	if n < 1 {
		return scriptError(ErrInternal, fmt.Sprintf(
			"attempt to swap %d stack items", n))
	}
	entry := 2*n - 1
	for i := n; i > 0; i-- {
		so, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// OverN copies n items n items back to the top
func (s *stack) OverN(n int32) error {
	if n < 1 {
		return scriptError(ErrInternal, fmt.Sprintf(
			"attempt to perform over on %d stack items", n))
	}
	entry := 2*n - 1
	for ; n > 0; n-- {
		so, err := s.PeekByteArray(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// PickN copies the nth item to the top
func (s *stack) PickN(n int32) error {
	so, err := s.PeekByteArray(n)
	if err != nil {
		return err
	}
	s.PushByteArray(so)
	return nil
}

// RollN moves the nth item to the top
func (s *stack) RollN(n int32) error {
	so, err := s.nipN(n)
	if err != nil {
		return err
	}
	s.PushByteArray(so)
	return nil
}

// Items returns a copy of the stack, bottom first
func (s *stack) Items() [][]byte {
	out := make([][]byte, len(s.stk))
	for i, so := range s.stk {
		out[i] = append([]byte(nil), so...)
	}
	return out
}

// String returns the stack in hex, top first
func (s *stack) String() string {
	var result string
	for i := len(s.stk) - 1; i >= 0; i-- {
		result += fmt.Sprintf("%02d: %s\n", len(s.stk)-1-i, hex.EncodeToString(s.stk[i]))
	}
	return result
}
