package predicate

import (
	"strings"
	"testing"

	"strgrad/pkg/heuristic"

	"github.com/stretchr/testify/assert"
)

// regionMatchesReference 不带启发式的参考实现
func regionMatchesReference(s string, toffset int, other string, ooffset int, length int, ignoreCase bool) bool {
	n := max(length, 0)
	if toffset < 0 || ooffset < 0 || toffset > len(s)-n || ooffset > len(other)-n {
		return false
	}
	a, b := s[toffset:toffset+n], other[ooffset:ooffset+n]
	if ignoreCase {
		return strings.ToLower(a) == strings.ToLower(b)
	}
	return a == b
}

// TestRegionMatches 测试区域比较
func TestRegionMatches(t *testing.T) {
	tests := []struct {
		name       string
		s          string
		toffset    int
		other      string
		ooffset    int
		length     int
		ignoreCase bool
		want       bool
		wantTrue   float64
	}{
		{"SameRegion", "hello world", 6, "world", 0, 5, false, true, 1},
		{"OneOff", "hello world", 6, "worle", 0, 5, false, false, 0.5},
		{"IgnoreCase", "Hello", 0, "HELLO", 0, 5, true, true, 1},
		{"CaseSensitive", "Hello", 0, "hello", 0, 1, false, false, 1.0 / 33.0},
		{"ZeroLength", "abc", 3, "", 0, 0, false, true, 1},
		{"NegativeLength", "abc", 1, "x", 1, -4, false, true, 1},
		{"NegativeLengthPastEnd", "abc", 4, "x", 0, -2, false, false, 1.0 / float64(1+heuristic.MaxCharDelta)},
		{"NegativeLengthAtEnd", "abc", 3, "x", 1, -2, false, true, 1},
		{"NegativeOffset", "abc", -1, "abc", 0, 2, false, false, 1.0 / float64(1+(1+2)*heuristic.MaxCharDelta)},
		{"Overrun", "abc", 2, "abc", 0, 2, false, false, 1.0 / float64(1+(1+2)*heuristic.MaxCharDelta)},
		{"BothOverrun", "ab", 0, "a", 0, 3, false, false, 1.0 / float64(1+(1+2+3)*heuristic.MaxCharDelta)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, th := RegionMatches(tt.s, tt.toffset, tt.other, tt.ooffset, tt.length, tt.ignoreCase)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, regionMatchesReference(tt.s, tt.toffset, tt.other, tt.ooffset, tt.length, tt.ignoreCase))
			assert.InDelta(t, tt.wantTrue, th.OfTrue, 1e-12)
			assert.NoError(t, th.Validate())
		})
	}
}

// TestRegionMatchesExhaustive 小范围内与参考实现逐一比对
func TestRegionMatchesExhaustive(t *testing.T) {
	words := []string{"", "a", "ab", "Ab", "abc"}
	for _, s := range words {
		for _, o := range words {
			for toff := -1; toff <= 4; toff++ {
				for ooff := -1; ooff <= 4; ooff++ {
					for n := -1; n <= 4; n++ {
						for _, ic := range []bool{false, true} {
							got, th := RegionMatches(s, toff, o, ooff, n, ic)
							want := regionMatchesReference(s, toff, o, ooff, n, ic)
							assert.Equal(t, want, got, "s=%q toff=%d o=%q ooff=%d n=%d ic=%v", s, toff, o, ooff, n, ic)
							assert.Equal(t, got, th.IsTrue())
						}
					}
				}
			}
		}
	}
}
