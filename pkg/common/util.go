package common

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/robaho/fixed"
)

func ParseInt(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

var overflow = errors.New("binary: varint overflows a 64-bit integer")

// ReadUvarint reads an encoded unsigned integer from r and returns it as a uint64.
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var x uint64
	var s uint
	for i := 0; ; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return x, err
		}
		if b < 0x80 {
			if i > 9 || i == 9 && b > 1 {
				return x, overflow
			}
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
}

// ReadVarint reads a zig-zag encoded signed integer.
func ReadVarint(r io.ByteReader) (int64, error) {
	ux, err := ReadUvarint(r)
	x := int64(ux >> 1)
	if ux&1 != 0 {
		x = ^x
	}
	return x, err
}

// PutUvarint encodes a uint64 and returns the number of bytes written.
func PutUvarint(w io.ByteWriter, x uint64) int {
	i := 0
	for x >= 0x80 {
		w.WriteByte(byte(x) | 0x80)
		x >>= 7
		i++
	}
	w.WriteByte(byte(x))
	return i + 1
}

func PutVarint(w io.ByteWriter, x int64) int {
	ux := uint64(x) << 1
	if x < 0 {
		ux = ^ux
	}
	return PutUvarint(w, ux)
}

// EncodeBytes writes a uvarint length then the bytes.
func EncodeBytes(w io.ByteWriter, b []byte) {
	PutUvarint(w, uint64(len(b)))
	for _, c := range b {
		w.WriteByte(c)
	}
}

func DecodeBytes(r io.ByteReader) ([]byte, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, min(n, 256))
	for i := uint64(0); i < n; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		b = append(b, c)
	}
	return b, nil
}

func EncodeString(w io.ByteWriter, s string) {
	EncodeBytes(w, []byte(s))
}

func DecodeString(r io.ByteReader) (string, error) {
	b, err := DecodeBytes(r)
	return string(b), err
}

// fixed values travel as text so no precision is lost between builds
func EncodeFixed(w io.ByteWriter, f fixed.Fixed) {
	EncodeString(w, f.String())
}

func DecodeFixed(r io.ByteReader) (fixed.Fixed, error) {
	s, err := DecodeString(r)
	if err != nil {
		return fixed.ZERO, err
	}
	return fixed.NewSErr(s)
}

func EncodeTime(w io.ByteWriter, time time.Time) {
	PutVarint(w, time.UnixNano())
}

func DecodeTime(r io.ByteReader) (time.Time, error) {
	ns, err := ReadVarint(r)
	return time.Unix(0, ns), err
}
