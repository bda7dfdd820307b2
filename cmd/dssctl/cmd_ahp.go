package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
)

func newAHPCommand() *cobra.Command {
	var (
		matrix     string
		pf, pa, fa float64
		format     string
	)
	cmd := &cobra.Command{
		Use:   "ahp",
		Short: "Solve a pairwise comparison matrix into criterion weights",
		Long: `Solve a 3x3 pairwise comparison matrix (physical, functional, age) and
report the priority weights and the consistency ratio.

Pass the full matrix with --matrix, rows separated by ';' and values by ','.
Fractions are accepted:

  dssctl ahp --matrix "1,3,5;1/3,1,3;1/5,1/3,1"

or only the three upper-triangle judgments:

  dssctl ahp --pf 3 --pa 5 --fa 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}
			var m [][]float64
			switch {
			case matrix != "":
				var err error
				if m, err = parseMatrix(matrix); err != nil {
					return err
				}
			case cmd.Flags().Changed("pf") || cmd.Flags().Changed("pa") || cmd.Flags().Changed("fa"):
				m = scoring.ReciprocalMatrix(pf, pa, fa)
			default:
				return fmt.Errorf("either --matrix or --pf/--pa/--fa is required")
			}

			res, err := scoring.SolveAHP(m)
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printAHPTable(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&matrix, "matrix", "", "Full matrix, rows separated by ';'")
	cmd.Flags().Float64Var(&pf, "pf", 1, "Physical vs functional judgment")
	cmd.Flags().Float64Var(&pa, "pa", 1, "Physical vs age judgment")
	cmd.Flags().Float64Var(&fa, "fa", 1, "Functional vs age judgment")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")

	return cmd
}

// parseMatrix reads "a,b,c;d,e,f;g,h,i". Entries may be decimals or simple
// fractions such as 1/3.
func parseMatrix(s string) ([][]float64, error) {
	var m [][]float64
	for i, row := range strings.Split(s, ";") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		var vals []float64
		for j, cell := range strings.Split(row, ",") {
			v, err := parseJudgment(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("matrix[%d][%d]: %w", i, j, err)
			}
			vals = append(vals, v)
		}
		m = append(m, vals)
	}
	return m, nil
}

func parseJudgment(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("zero denominator in %q", s)
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}

func printAHPTable(w io.Writer, res scoring.AHPResult) {
	fmt.Fprintf(w, "%-12s %8s\n", "CRITERION", "WEIGHT")
	fmt.Fprintf(w, "%-12s %8.4f\n", "physical", res.Weights.Physical)
	fmt.Fprintf(w, "%-12s %8.4f\n", "functional", res.Weights.Functional)
	fmt.Fprintf(w, "%-12s %8.4f\n", "age", res.Weights.Age)
	fmt.Fprintln(w)
	c := res.Consistency
	fmt.Fprintf(w, "lambda_max=%.4f CI=%.4f CR=%.4f grade=%s consistent=%t\n",
		c.LambdaMax, c.CI, c.CR, c.Grade, c.IsConsistent)
}
