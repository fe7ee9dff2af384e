package predicate

import "strgrad/pkg/heuristic"

// RegionMatches 比较 s[toffset:toffset+length] 与 other[ooffset:ooffset+length]
// 任一偏移为负或区域越界时为false；length<=0 且偏移合法时为true。
// 负的 length 按0处理，偏移仍须落在 [0, len] 之内，超出字符串末尾的偏移一律为false，
// 与 s[toffset:toffset] 的切片语义一致。
// ignoreCase 为true时两段区域委托给 EqualsIgnoreCase。
func RegionMatches(s string, toffset int, other string, ooffset int, length int, ignoreCase bool) (bool, heuristic.Truthness) {
	n := max(length, 0)

	out := heuristic.SaturatingAdd(overrun(toffset, len(s), n), overrun(ooffset, len(other), n))
	if out > 0 {
		dist := heuristic.SaturatingMul(heuristic.SaturatingAdd(out, int64(n)), heuristic.MaxCharDelta)
		return false, heuristic.FromFalseDistance(dist)
	}

	a := s[toffset : toffset+n]
	b := other[ooffset : ooffset+n]
	if ignoreCase {
		return EqualsIgnoreCase(a, b)
	}
	return Equals(a, b)
}

// overrun 偏移超出合法区间 [0, size-n] 的距离，合法时为0
func overrun(offset, size, n int) int64 {
	if offset < 0 {
		return -int64(offset)
	}
	if limit := size - n; offset > limit {
		return int64(offset) - int64(limit)
	}
	return 0
}
