package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"strgrad/pkg/config"
	"strgrad/pkg/heuristic"
	"strgrad/pkg/replacement"
	"strgrad/pkg/taint"
	"strgrad/pkg/tracer"
)

var (
	evalOffset     int
	evalOOffset    int
	evalLength     int
	evalIgnoreCase bool
	evalTaint      bool
	evalLocation   string
)

var evalCmd = &cobra.Command{
	Use:   "eval <predicate> <s> [operand]",
	Short: "Evaluate a string predicate and print its Truthness",
	Long: `Evaluate one of the supported predicates:
  equals, equals-ignore-case, starts-with, ends-with, is-empty,
  content-equals, contains, region-matches

Example:
  strgrad eval equals abc abd
  strgrad eval starts-with hello lo --offset 3
  strgrad eval region-matches "hello world" WORLD --offset 6 --length 5 --ignore-case
  strgrad eval equals admin x --taint --format text`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().IntVar(&evalOffset, "offset", 0, "offset into s (starts-with, region-matches)")
	evalCmd.Flags().IntVar(&evalOOffset, "other-offset", 0, "offset into operand (region-matches)")
	evalCmd.Flags().IntVar(&evalLength, "length", -1, "region length (region-matches, default: len(operand)-other-offset)")
	evalCmd.Flags().BoolVar(&evalIgnoreCase, "ignore-case", false, "case-insensitive region comparison (region-matches)")
	evalCmd.Flags().BoolVar(&evalTaint, "taint", false, "replace s with a fresh tracked value before evaluating")
	evalCmd.Flags().StringVar(&evalLocation, "location", "cli", "location identifier reported to the tracer")
}

// session 一次命令行求值所需的全部组件
type session struct {
	cfg         *config.Config
	tracer      *tracer.ExecutionTracer
	registry    *taint.Registry
	promReg     *prometheus.Registry
	replacement *replacement.StringReplacement
}

func newSession(cfg *config.Config) (*session, error) {
	et, err := tracer.NewExecutionTracer(cfg.Tracer.MaxTrackedValues, cfg.Tracer.MaxHintsPerValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	s := &session{
		cfg:      cfg,
		tracer:   et,
		registry: taint.NewRegistry(),
	}

	var oracle replacement.TaintOracle = taint.Oracle{}
	if cfg.Taint.UseRegistry {
		oracle = s.registry
	}

	var reporter replacement.Reporter = et
	var hints replacement.HintSink = et
	if cfg.Metrics.Enabled {
		s.promReg = prometheus.NewRegistry()
		m := tracer.NewMetricsReporter(s.promReg, cfg.Metrics.Namespace, et, et)
		reporter, hints = m, m
	}

	s.replacement = replacement.NewStringReplacement(reporter, hints, oracle)
	return s, nil
}

// evalRequest 一次求值的输入
type evalRequest struct {
	Predicate   string
	S           string
	Operand     string
	HasOperand  bool
	Offset      int
	OtherOffset int
	Length      int
	IgnoreCase  bool
	Location    replacement.Location
}

// evalReport 求值结果
type evalReport struct {
	Predicate string                        `json:"predicate"`
	Operands  []string                      `json:"operands"`
	Result    bool                          `json:"result"`
	Truthness heuristic.Truthness           `json:"truthness"`
	Location  replacement.Location          `json:"location"`
	Hits      int                           `json:"hits"`
	Hints     map[string][]replacement.Hint `json:"hints,omitempty"`
}

var predicates = map[string]bool{
	"equals": true, "equals-ignore-case": true, "starts-with": true, "ends-with": true,
	"is-empty": false, "content-equals": true, "contains": true, "region-matches": true,
}

func (s *session) evaluate(req evalRequest) (*evalReport, error) {
	needsOperand, ok := predicates[req.Predicate]
	if !ok {
		return nil, fmt.Errorf("unsupported predicate: %s", req.Predicate)
	}
	if needsOperand != req.HasOperand {
		if needsOperand {
			return nil, fmt.Errorf("predicate %s requires an operand", req.Predicate)
		}
		return nil, fmt.Errorf("predicate %s takes no operand", req.Predicate)
	}

	r := s.replacement
	loc := req.Location
	var result bool
	switch req.Predicate {
	case "equals":
		result = r.Equals(loc, req.S, req.Operand)
	case "equals-ignore-case":
		result = r.EqualsIgnoreCase(loc, req.S, req.Operand)
	case "starts-with":
		result = r.StartsWithOffset(loc, req.S, req.Operand, req.Offset)
	case "ends-with":
		result = r.EndsWith(loc, req.S, req.Operand)
	case "is-empty":
		result = r.IsEmpty(loc, req.S)
	case "content-equals":
		var sb strings.Builder
		sb.WriteString(req.Operand)
		result = r.ContentEquals(loc, req.S, &sb)
	case "contains":
		result = r.Contains(loc, req.S, req.Operand)
	case "region-matches":
		length := req.Length
		if length < 0 {
			length = len(req.Operand) - req.OtherOffset
		}
		result = r.RegionMatches(loc, req.S, req.Offset, req.Operand, req.OtherOffset, length, req.IgnoreCase)
	}

	obj, ok := s.tracer.Objective(loc)
	if !ok {
		return nil, fmt.Errorf("no fitness recorded for %s", loc)
	}

	report := &evalReport{
		Predicate: req.Predicate,
		Operands:  []string{req.S},
		Result:    result,
		Truthness: obj.Last,
		Location:  loc,
		Hits:      obj.Hits,
	}
	if req.HasOperand {
		report.Operands = append(report.Operands, req.Operand)
	}
	for _, tracked := range s.tracer.TrackedValues() {
		if report.Hints == nil {
			report.Hints = make(map[string][]replacement.Hint)
		}
		report.Hints[tracked] = s.tracer.Specializations(tracked)
	}
	return report, nil
}

// writeMetrics 以Prometheus文本格式输出指标
func (s *session) writeMetrics(w io.Writer) error {
	if s.promReg == nil {
		return nil
	}
	families, err := s.promReg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := newSession(cfg)
	if err != nil {
		return err
	}

	req := evalRequest{
		Predicate:   args[0],
		S:           args[1],
		HasOperand:  len(args) == 3,
		Offset:      evalOffset,
		OtherOffset: evalOOffset,
		Length:      evalLength,
		IgnoreCase:  evalIgnoreCase,
		Location:    replacement.Location(evalLocation),
	}
	if req.HasOperand {
		req.Operand = args[2]
	}
	if req.Predicate == "ends-with" && cmd.Flags().Changed("offset") {
		return fmt.Errorf("--offset is not supported by ends-with")
	}
	if evalTaint {
		req.S = sess.registry.NewTaint()
	}

	report, err := sess.evaluate(req)
	if err != nil {
		return err
	}

	out, err := formatEvalReport(report, cfg.Output.Format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if verbose {
		return sess.writeMetrics(cmd.ErrOrStderr())
	}
	return nil
}
