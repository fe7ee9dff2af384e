package tracer

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strgrad/pkg/heuristic"
	"strgrad/pkg/replacement"
	"strgrad/pkg/taint"
)

var (
	_ replacement.Reporter = (*ExecutionTracer)(nil)
	_ replacement.HintSink = (*ExecutionTracer)(nil)
	_ replacement.Reporter = (*MetricsReporter)(nil)
	_ replacement.HintSink = (*MetricsReporter)(nil)
	_ replacement.Reporter = MultiReporter(nil)
)

func newTracer(t *testing.T, maxTracked, maxHints int) *ExecutionTracer {
	t.Helper()
	et, err := NewExecutionTracer(maxTracked, maxHints)
	require.NoError(t, err)
	return et
}

// TestNewExecutionTracer 测试参数校验
func TestNewExecutionTracer(t *testing.T) {
	_, err := NewExecutionTracer(0, 4)
	assert.Error(t, err)

	_, err = NewExecutionTracer(4, 0)
	assert.Error(t, err)

	et := newTracer(t, 4, 4)
	assert.Empty(t, et.Snapshot())
}

// TestObjectiveAggregation 同一调用点保留两个分支各自见过的最好分数
func TestObjectiveAggregation(t *testing.T) {
	et := newTracer(t, 8, 4)
	r := replacement.NewStringReplacement(et, et, nil)

	r.Equals("login:42", "abc", "xyz")
	r.Equals("login:42", "abc", "abd")
	r.Equals("login:42", "abc", "abz")

	obj, ok := et.Objective("login:42")
	require.True(t, ok)
	assert.Equal(t, 3, obj.Hits)
	assert.Equal(t, 0.5, obj.Best.OfTrue)
	assert.Equal(t, 1.0, obj.Best.OfFalse)
	assert.False(t, obj.CoveredTrue())
	assert.True(t, obj.CoveredFalse())
	_, last := predicateEquals("abc", "abz")
	assert.Equal(t, last, obj.Last)

	r.Equals("login:42", "abc", "abc")
	obj, _ = et.Objective("login:42")
	assert.True(t, obj.CoveredTrue())

	_, ok = et.Objective("missing")
	assert.False(t, ok)
}

func predicateEquals(a, b string) (bool, heuristic.Truthness) {
	var got heuristic.Truthness
	rep := replacement.ReporterFunc(func(_ replacement.Location, _ replacement.ResultKind, t heuristic.Truthness) { got = t })
	ok := replacement.NewStringReplacement(rep, nil, nil).Equals("tmp", a, b)
	return ok, got
}

// TestSnapshot 快照按调用点排序且与内部状态隔离
func TestSnapshot(t *testing.T) {
	et := newTracer(t, 8, 4)
	r := replacement.NewStringReplacement(et, nil, nil)
	r.IsEmpty("b", "")
	r.Contains("a", "hello", "ell")

	snap := et.Snapshot()
	want := []Objective{
		{Location: "a", Kind: replacement.ResultBoolean, Hits: 1, Best: heuristic.FromTrue(1), Last: heuristic.FromTrue(1)},
		{Location: "b", Kind: replacement.ResultBoolean, Hits: 1, Best: heuristic.FromTrue(1), Last: heuristic.FromTrue(1)},
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	snap[0].Hits = 99
	obj, _ := et.Objective("a")
	assert.Equal(t, 1, obj.Hits)
}

// TestSpecializations 提示去重、单值上限与LRU淘汰
func TestSpecializations(t *testing.T) {
	et := newTracer(t, 2, 2)
	reg := taint.NewRegistry()
	first, second, third := reg.NewTaint(), reg.NewTaint(), reg.NewTaint()
	r := replacement.NewStringReplacement(nil, et, reg)

	r.Equals("l", first, "admin")
	r.Equals("l", first, "admin")
	r.EqualsIgnoreCase("l", "Root", first)
	r.Equals("l", first, "guest")

	want := []replacement.Hint{
		{Kind: replacement.SpecializationConstant, Value: "admin"},
		{Kind: replacement.SpecializationConstantIgnoreCase, Value: "Root"},
	}
	if diff := cmp.Diff(want, et.Specializations(first)); diff != "" {
		t.Errorf("hints mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, et.DroppedHints())

	r.Equals("l", second, "b")
	r.Equals("l", third, "c")
	assert.Equal(t, []string{second, third}, et.TrackedValues())
	assert.Nil(t, et.Specializations(first))

	et.Reset()
	assert.Empty(t, et.TrackedValues())
	assert.Empty(t, et.Snapshot())
	assert.Equal(t, 0, et.DroppedHints())
}

// TestTracerConcurrent 并发上报
func TestTracerConcurrent(t *testing.T) {
	et := newTracer(t, 64, 4)
	r := replacement.NewStringReplacement(et, et, taint.Oracle{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Equals("shared", taint.Name(i), "const")
			}
		}(i)
	}
	wg.Wait()

	obj, ok := et.Objective("shared")
	require.True(t, ok)
	assert.Equal(t, 1000, obj.Hits)
	assert.Len(t, et.TrackedValues(), 20)
}

// TestMetricsReporter 指标计数并转发给下游
func TestMetricsReporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	et := newTracer(t, 8, 4)
	m := NewMetricsReporter(reg, "strgrad", et, et)
	r := replacement.NewStringReplacement(MultiReporter{m}, m, taint.Oracle{})

	r.Equals("l1", "abc", "abc")
	r.Equals("l1", "abc", "abd")
	r.StartsWith("l2", "hello", "he")
	r.Equals("l3", taint.Name(0), "admin")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluations.WithLabelValues("BOOLEAN", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.evaluations.WithLabelValues("BOOLEAN", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hints.WithLabelValues("CONSTANT")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.oppositeScore))

	obj, ok := et.Objective("l1")
	require.True(t, ok)
	assert.Equal(t, 2, obj.Hits)
	assert.Len(t, et.Specializations(taint.Name(0)), 1)
}

// TestMultiReporter 测试扇出
func TestMultiReporter(t *testing.T) {
	a := newTracer(t, 4, 4)
	b := newTracer(t, 4, 4)
	multi := MultiReporter{a, nil, b}
	multi.Record("x", replacement.ResultBoolean, heuristic.FromFalse(3))

	_, okA := a.Objective("x")
	_, okB := b.Objective("x")
	assert.True(t, okA)
	assert.True(t, okB)
}

// TestMultiReporterPanic 某个Reporter panic时其余Reporter照常收到上报
func TestMultiReporterPanic(t *testing.T) {
	a := newTracer(t, 4, 4)
	b := newTracer(t, 4, 4)
	boom := replacement.ReporterFunc(func(replacement.Location, replacement.ResultKind, heuristic.Truthness) {
		panic("sink down")
	})
	multi := MultiReporter{a, boom, b}

	assert.NotPanics(t, func() {
		multi.Record("x", replacement.ResultBoolean, heuristic.FromFalse(3))
	})

	objA, okA := a.Objective("x")
	objB, okB := b.Objective("x")
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, 1, objA.Hits)
	assert.Equal(t, 1, objB.Hits)
}
