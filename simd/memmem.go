package simd

// Index returns the position of the first occurrence of needle in
// haystack, or -1 if absent. It anchors on Memchr for needle's first byte
// (the fast path on every platform this package builds for) and verifies
// the rest byte-by-byte.
func Index(haystack, needle []byte) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return Memchr(haystack, needle[0])
	}

	first := needle[0]
	pos := 0
	for {
		idx := Memchr(haystack[pos:], first)
		if idx == -1 {
			return -1
		}
		start := pos + idx
		if start+n > len(haystack) {
			return -1
		}
		if equalAt(haystack, start, needle) {
			return start
		}
		pos = start + 1
	}
}

func equalAt(haystack []byte, start int, needle []byte) bool {
	for i, b := range needle {
		if haystack[start+i] != b {
			return false
		}
	}
	return true
}
