package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"strgrad/pkg/heuristic"
	"strgrad/pkg/taint"
)

var distanceCmd = &cobra.Command{
	Use:   "distance <a> <b>",
	Short: "Print the left-alignment distance between two strings in both directions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		report := distanceReport{
			A:       args[0],
			B:       args[1],
			AtoB:    heuristic.LeftAlignmentDistance(args[0], args[1]),
			BtoA:    heuristic.LeftAlignmentDistance(args[1], args[0]),
			Penalty: heuristic.MaxCharDelta,
		}
		out, err := formatDistanceReport(&report, cfg.Output.Format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var taintCmd = &cobra.Command{
	Use:   "taint <id>",
	Short: "Print the tracked-value name for an id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 0 {
			return fmt.Errorf("invalid taint id: %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), taint.Name(id))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
	rootCmd.AddCommand(taintCmd)
}

// distanceReport 距离输出
type distanceReport struct {
	A       string `json:"a"`
	B       string `json:"b"`
	AtoB    int64  `json:"a_to_b"`
	BtoA    int64  `json:"b_to_a"`
	Penalty int64  `json:"length_penalty_per_unit"`
}

func formatDistanceReport(r *distanceReport, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "text":
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("distance(%q, %q) = %d\n", r.A, r.B, r.AtoB))
		sb.WriteString(fmt.Sprintf("distance(%q, %q) = %d\n", r.B, r.A, r.BtoA))
		sb.WriteString(fmt.Sprintf("length penalty per unit: %d\n", r.Penalty))
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatEvalReport(r *evalReport, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil

	case "text":
		var sb strings.Builder
		quoted := make([]string, len(r.Operands))
		for i, op := range r.Operands {
			quoted[i] = strconv.Quote(op)
		}
		sb.WriteString(fmt.Sprintf("%s(%s) = %t\n", r.Predicate, strings.Join(quoted, ", "), r.Result))
		sb.WriteString(fmt.Sprintf("  ofTrue:  %.6g\n", r.Truthness.OfTrue))
		sb.WriteString(fmt.Sprintf("  ofFalse: %.6g\n", r.Truthness.OfFalse))
		sb.WriteString(fmt.Sprintf("  location: %s (hits=%d)\n", r.Location, r.Hits))

		tracked := make([]string, 0, len(r.Hints))
		for k := range r.Hints {
			tracked = append(tracked, k)
		}
		sort.Strings(tracked)
		for _, k := range tracked {
			for _, h := range r.Hints[k] {
				sb.WriteString(fmt.Sprintf("  hint: %s %s %q\n", k, h.Kind, h.Value))
			}
		}
		return sb.String(), nil

	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}
