package simd

import (
	"strings"
	"testing"
)

func TestZeroByteMask(t *testing.T) {
	if z := zeroByteMask(broadcast('a') ^ broadcast('a')); z == 0 {
		t.Error("all-zero lanes: mask = 0, want nonzero")
	}
	if z := zeroByteMask(broadcast('a') ^ broadcast('b')); z != 0 {
		t.Errorf("no zero lane: mask = %#x, want 0", z)
	}
	// Only the zero lane is flagged, lowest lane first for
	// TrailingZeros-based position recovery.
	v := uint64(0xffffffffffffff00)
	if z := zeroByteMask(v); z != 0x80 {
		t.Errorf("single low zero lane: mask = %#x, want 0x80", z)
	}
}

func TestMemchrFound(t *testing.T) {
	tests := []struct {
		name   string
		hay    string
		needle byte
		want   int
	}{
		{"empty haystack", "", 'x', -1},
		{"single byte match", "x", 'x', 0},
		{"single byte miss", "y", 'x', -1},
		{"short haystack under 8 bytes", "abcdefg", 'd', 3},
		{"exactly 8 bytes, match at last", "abcdefgh", 'h', 7},
		{"match at start of second chunk", strings.Repeat("a", 8) + "b", 'b', 8},
		{"not present, long", strings.Repeat("a", 100), 'z', -1},
		{"present at the wide-loop threshold", strings.Repeat("a", 32) + "z", 'z', 32},
		{"present across two 16-byte lanes", strings.Repeat("a", 40) + "z" + strings.Repeat("a", 10), 'z', 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Memchr([]byte(tt.hay), tt.needle); got != tt.want {
				t.Errorf("Memchr(%q, %q) = %d, want %d", tt.hay, tt.needle, got, tt.want)
			}
		})
	}
}

func TestMemchr2(t *testing.T) {
	tests := []struct {
		name   string
		hay    string
		n1, n2 byte
		want   int
	}{
		{"empty haystack", "", 'a', 'b', -1},
		{"short, first needle first", "xaybz", 'a', 'b', 1},
		{"short, second needle first", "xbyaz", 'a', 'b', 1},
		{"neither present, short", "xyz", 'a', 'b', -1},
		{"long, match past first 8-byte chunk", strings.Repeat("x", 10) + "a", 'a', 'b', 10},
		{"neither present, long", strings.Repeat("x", 40), 'a', 'b', -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Memchr2([]byte(tt.hay), tt.n1, tt.n2); got != tt.want {
				t.Errorf("Memchr2(%q, %q, %q) = %d, want %d", tt.hay, tt.n1, tt.n2, got, tt.want)
			}
		})
	}
}

func TestMemchr3(t *testing.T) {
	tests := []struct {
		name       string
		hay        string
		n1, n2, n3 byte
		want       int
	}{
		{"empty haystack", "", 'a', 'b', 'c', -1},
		{"short, third needle present", "xyzc", 'a', 'b', 'c', 3},
		{"none present, short", "xyz", 'a', 'b', 'c', -1},
		{"long, match past first 8-byte chunk", strings.Repeat("x", 12) + "c", 'a', 'b', 'c', 12},
		{"none present, long", strings.Repeat("x", 40), 'a', 'b', 'c', -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Memchr3([]byte(tt.hay), tt.n1, tt.n2, tt.n3); got != tt.want {
				t.Errorf("Memchr3(%q, %q, %q, %q) = %d, want %d", tt.hay, tt.n1, tt.n2, tt.n3, got, tt.want)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name   string
		hay    string
		needle string
		want   int
	}{
		{"empty needle matches at 0", "abc", "", 0},
		{"single-byte needle delegates to Memchr", "abc", "b", 1},
		{"multi-byte needle found", "xxabcxx", "abc", 2},
		{"multi-byte needle not found", "xxxxx", "abc", -1},
		{"needle longer than haystack", "ab", "abc", -1},
		{"needle with false-start candidate byte", "ababc", "abc", 2},
		{"needle at very end", "xxabc", "abc", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index([]byte(tt.hay), []byte(tt.needle)); got != tt.want {
				t.Errorf("Index(%q, %q) = %d, want %d", tt.hay, tt.needle, got, tt.want)
			}
		})
	}
}
