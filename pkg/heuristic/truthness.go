package heuristic

import (
	"fmt"
	"math"
)

// FlipDivergence 已命中true分支时，距离"变为false"的最小代价：改动一个单元即可翻转
const FlipDivergence int64 = 1

// Truthness 布尔谓词的连续替代值
// OfTrue/OfFalse 都在 (0,1] 内；真实结果为true时 OfTrue == 1，反之 OfFalse == 1。
type Truthness struct {
	OfTrue  float64 `json:"of_true" yaml:"of_true"`
	OfFalse float64 `json:"of_false" yaml:"of_false"`
}

// FromTrue 真实结果为true，divergence 表示距离变为false有多远
func FromTrue(divergence float64) Truthness {
	return Truthness{
		OfTrue:  1,
		OfFalse: normalize(divergence),
	}
}

// FromFalse 真实结果为false，divergence 表示距离变为true有多远
func FromFalse(divergence float64) Truthness {
	return Truthness{
		OfTrue:  normalize(divergence),
		OfFalse: 1,
	}
}

// FromTrueDistance 整数距离版本
func FromTrueDistance(d int64) Truthness {
	return FromTrue(float64(d))
}

// FromFalseDistance 整数距离版本
func FromFalseDistance(d int64) Truthness {
	return FromFalse(float64(d))
}

// normalize 1/(1+d)，d越大越趋近0但永远不等于0
// 负数或NaN属于启发式计算错误，按最大距离处理而不是抛出
func normalize(d float64) float64 {
	if math.IsNaN(d) || d < 0 {
		d = float64(MaxDivergence)
	}
	if math.IsInf(d, 1) {
		d = float64(MaxDivergence)
	}
	return 1 / (1 + d)
}

// IsTrue 对应的真实布尔结果
func (t Truthness) IsTrue() bool {
	return t.OfTrue == 1
}

// Invert 交换两个分数，用于取反的分支
func (t Truthness) Invert() Truthness {
	return Truthness{OfTrue: t.OfFalse, OfFalse: t.OfTrue}
}

// Validate 检查两个分数是否满足模型约束
func (t Truthness) Validate() error {
	for _, v := range []float64{t.OfTrue, t.OfFalse} {
		if math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("truthness score out of (0,1]: %+v", t)
		}
	}
	if t.OfTrue != 1 && t.OfFalse != 1 {
		return fmt.Errorf("truthness has no satisfied branch: %+v", t)
	}
	return nil
}

func (t Truthness) String() string {
	return fmt.Sprintf("Truthness{ofTrue=%.6g, ofFalse=%.6g}", t.OfTrue, t.OfFalse)
}
