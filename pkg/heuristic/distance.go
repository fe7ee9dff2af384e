// Package heuristic 提供分支距离计算与Truthness适应度模型
package heuristic

import "math"

const (
	// MaxCharDelta 单个编码单元(byte)之间可能出现的最大差值
	// 长度每差一个单元就罚MaxCharDelta，保证长度不一致总是比同长度的任何字符差异更"远"
	MaxCharDelta int64 = math.MaxUint8

	// MaxDivergence 最大距离，用于无法比较的操作数（非字符串、nil等）
	MaxDivergence int64 = math.MaxInt64
)

// LeftAlignmentDistance 左对齐距离
// 两个字符串在下标0处对齐，逐字节累加 |a[i]-b[i]|，再对长度差按 MaxCharDelta 计罚。
// 返回0当且仅当 a == b。
//
// 注意：长度不同时该距离不保证对称（左对齐是有方向的），
// 调用方只把它当作相对排序信号使用，不要"修正"这种不对称。
func LeftAlignmentDistance(a, b string) int64 {
	n := min(len(a), len(b))

	var dist int64
	for i := 0; i < n; i++ {
		d := int64(a[i]) - int64(b[i])
		if d < 0 {
			d = -d
		}
		dist += d
	}

	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	return SaturatingAdd(dist, SaturatingMul(int64(diff), MaxCharDelta))
}

// SaturatingAdd 非负整数加法，溢出时截断到 MaxDivergence
func SaturatingAdd(a, b int64) int64 {
	if a < 0 || b < 0 {
		return MaxDivergence
	}
	if a > MaxDivergence-b {
		return MaxDivergence
	}
	return a + b
}

// SaturatingMul 非负整数乘法，溢出时截断到 MaxDivergence
func SaturatingMul(a, b int64) int64 {
	if a < 0 || b < 0 {
		return MaxDivergence
	}
	if a == 0 || b == 0 {
		return 0
	}
	if a > MaxDivergence/b {
		return MaxDivergence
	}
	return a * b
}
