//go:build amd64

package simd

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// wideThreshold is the haystack length above which the two-lane loop's
// setup cost is worth paying.
const wideThreshold = 32

// hasAVX2 records whether the host supports 256-bit AVX2 integer ops.
// There is no assembly kernel here; the flag widens the generic SWAR
// loop's chunk size instead, the only part of that speedup reachable
// without .s files.
var hasAVX2 = cpu.X86.HasAVX2

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if absent.
func Memchr(haystack []byte, needle byte) int {
	if hasAVX2 && len(haystack) >= wideThreshold {
		return memchrWide(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle in
// haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	return memchr2Generic(haystack, needle1, needle2)
}

// Memchr3 returns the index of the first instance of any of the three
// needles in haystack, or -1 if none are present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	return memchr3Generic(haystack, needle1, needle2, needle3)
}

// memchrWide processes two 8-byte lanes per iteration instead of one:
// twice the bytes inspected per loop iteration, one zeroByteMask
// application per lane (see memchrGeneric).
func memchrWide(haystack []byte, needle byte) int {
	n := len(haystack)
	mask := broadcast(needle)

	i := 0
	for i+16 <= n {
		c0 := binary.LittleEndian.Uint64(haystack[i:])
		c1 := binary.LittleEndian.Uint64(haystack[i+8:])
		if z := zeroByteMask(c0 ^ mask); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
		if z := zeroByteMask(c1 ^ mask); z != 0 {
			return i + 8 + bits.TrailingZeros64(z)/8
		}
		i += 16
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}
