// Package predicate 字符串谓词的纯函数求值器
// 每个求值器返回真实布尔结果以及独立计算的Truthness，
// 前缀/后缀/包含等谓词通过显式委托归约到相等比较。
package predicate

import (
	"fmt"
	"strings"

	"strgrad/pkg/heuristic"
)

// Equals 相等比较
// other 必须是string才可能相等；非string或nil按最大距离处理
func Equals(s string, other any) (bool, heuristic.Truthness) {
	o, ok := other.(string)
	if !ok {
		return false, heuristic.FromFalseDistance(heuristic.MaxDivergence)
	}
	if s == o {
		return true, heuristic.FromTrueDistance(heuristic.FlipDivergence)
	}
	return false, heuristic.FromFalseDistance(heuristic.LeftAlignmentDistance(s, o))
}

// EqualsIgnoreCase 忽略大小写的相等比较，两边先 strings.ToLower 再委托给 Equals
func EqualsIgnoreCase(s string, other any) (bool, heuristic.Truthness) {
	if other == nil {
		return false, heuristic.FromFalseDistance(heuristic.MaxDivergence)
	}
	o, ok := other.(string)
	if !ok {
		return Equals(s, other)
	}
	return Equals(strings.ToLower(s), strings.ToLower(o))
}

// StartsWithOffset 判断 s 从 offset 开始是否以 prefix 开头（offset为字节下标）
func StartsWithOffset(s, prefix string, offset int) (bool, heuristic.Truthness) {
	pl := len(prefix)

	// 长度/偏移不匹配的罚分至少为pl，保证总比同长度的equals比较更差；
	// s比prefix短时再额外加罚
	penalty := int64(pl)
	if len(s) < pl {
		penalty += int64(pl - len(s))
	}

	if offset < 0 {
		dist := heuristic.SaturatingMul(heuristic.SaturatingAdd(-int64(offset), penalty), heuristic.MaxCharDelta)
		return false, heuristic.FromFalseDistance(dist)
	}
	if offset > len(s)-pl {
		dist := heuristic.SaturatingMul(heuristic.SaturatingAdd(int64(offset), penalty), heuristic.MaxCharDelta)
		return false, heuristic.FromFalseDistance(dist)
	}

	end := offset + min(pl, len(s)-offset)
	return Equals(s[offset:end], prefix)
}

// StartsWith 等价于 strings.HasPrefix
func StartsWith(s, prefix string) (bool, heuristic.Truthness) {
	return StartsWithOffset(s, prefix, 0)
}

// EndsWith 等价于 strings.HasSuffix
func EndsWith(s, suffix string) (bool, heuristic.Truthness) {
	return StartsWithOffset(s, suffix, len(s)-len(suffix))
}

// IsEmpty 空字符串判断，越短越接近空
func IsEmpty(s string) (bool, heuristic.Truthness) {
	if len(s) == 0 {
		return true, heuristic.FromTrueDistance(heuristic.FlipDivergence)
	}
	return false, heuristic.FromFalseDistance(int64(len(s)))
}

// ContentEquals 与任意文本类对象(strings.Builder、bytes.Buffer等)的内容比较
// cs 为nil时与未插桩代码一样在 cs.String() 处panic
func ContentEquals(s string, cs fmt.Stringer) (bool, heuristic.Truthness) {
	return Equals(s, cs.String())
}

// ContentEqualsBytes 与字节切片的内容比较
func ContentEqualsBytes(s string, b []byte) (bool, heuristic.Truthness) {
	return Equals(s, string(b))
}

// Contains 等价于 strings.Contains
// 未命中时在s中滑动len(sub)长度的窗口，取与sub距离最小的窗口作为适应度
func Contains(s, sub string) (bool, heuristic.Truthness) {
	if len(s) <= len(sub) {
		return Equals(s, sub)
	}

	if strings.Contains(s, sub) {
		return true, heuristic.FromTrueDistance(heuristic.FlipDivergence)
	}

	best := heuristic.MaxDivergence
	for i := 0; i <= len(s)-len(sub); i++ {
		if d := heuristic.LeftAlignmentDistance(s[i:i+len(sub)], sub); d < best {
			best = d
		}
	}
	return false, heuristic.FromFalseDistance(best)
}
