// Package replacement 插桩版字符串谓词
// 调用方传入与原操作相同的操作数和一个调用点标识，
// 得到不变的布尔结果，同时把Truthness上报给注入的Reporter。
package replacement

import (
	"fmt"

	"strgrad/pkg/heuristic"
)

// Location 调用点标识，由外部sink解释
type Location string

// ResultKind 上报值的类型
type ResultKind int

const (
	ResultBoolean ResultKind = iota // 布尔分支
)

// String 返回结果类型名称
func (k ResultKind) String() string {
	switch k {
	case ResultBoolean:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText JSON/YAML中以名称输出
func (k ResultKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 按名称解析
func (k *ResultKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "BOOLEAN":
		*k = ResultBoolean
	default:
		return fmt.Errorf("unknown result kind: %s", text)
	}
	return nil
}

// SpecializationKind 字符串特化类型
type SpecializationKind int

const (
	SpecializationConstant           SpecializationKind = iota // 必须等于某常量
	SpecializationConstantIgnoreCase                           // 忽略大小写等于某常量
)

// String 返回特化类型名称
func (k SpecializationKind) String() string {
	switch k {
	case SpecializationConstant:
		return "CONSTANT"
	case SpecializationConstantIgnoreCase:
		return "CONSTANT_IGNORE_CASE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText JSON/YAML中以名称输出，与文本报告一致
func (k SpecializationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 按名称解析
func (k *SpecializationKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "CONSTANT":
		*k = SpecializationConstant
	case "CONSTANT_IGNORE_CASE":
		*k = SpecializationConstantIgnoreCase
	default:
		return fmt.Errorf("unknown specialization kind: %s", text)
	}
	return nil
}

// Hint 特化提示：被跟踪的输入应当等于 Value
type Hint struct {
	Kind  SpecializationKind `json:"kind"`
	Value string             `json:"value"`
}

// Reporter 适应度上报接口（fire-and-forget，不得阻塞调用方）
type Reporter interface {
	Record(loc Location, kind ResultKind, t heuristic.Truthness)
}

// HintSink 特化提示接收接口
type HintSink interface {
	RecordHint(tracked string, hint Hint)
}

// TaintOracle 判断某个值是否正在被搜索过程变异
type TaintOracle interface {
	IsTracked(value string) bool
}

// NopReporter 丢弃所有上报
type NopReporter struct{}

func (NopReporter) Record(Location, ResultKind, heuristic.Truthness) {}

// NopHintSink 丢弃所有提示
type NopHintSink struct{}

func (NopHintSink) RecordHint(string, Hint) {}

// NeverTracked 没有任何值被跟踪
type NeverTracked struct{}

func (NeverTracked) IsTracked(string) bool { return false }

// ReporterFunc 函数适配器
type ReporterFunc func(loc Location, kind ResultKind, t heuristic.Truthness)

func (f ReporterFunc) Record(loc Location, kind ResultKind, t heuristic.Truthness) {
	f(loc, kind, t)
}

// HintSinkFunc 函数适配器
type HintSinkFunc func(tracked string, hint Hint)

func (f HintSinkFunc) RecordHint(tracked string, hint Hint) {
	f(tracked, hint)
}
