package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

func newAssessCommand() *cobra.Command {
	var (
		catalogPath string
		modelID     int64
		answers     []string
		year        int
		strict      bool
		format      string
	)
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a device offline against a YAML catalog",
		Long: `Score a device without a running service. Answers are given as
condition=option pairs:

  dssctl assess --catalog catalog.yaml --model 1 --answer 10=101 --answer 20=201`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}
			cat, err := store.LoadCatalogFile(catalogPath)
			if err != nil {
				return err
			}
			parsed, err := parseAnswers(answers)
			if err != nil {
				return err
			}

			opts := []scoring.EngineOption{scoring.WithStrictReferences(strict)}
			if year > 0 {
				ref := time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
				opts = append(opts, scoring.WithClock(func() time.Time { return ref }))
			}
			engine := scoring.NewEngine(cat, cliLogger(), opts...)

			res, err := engine.Assess(context.Background(), scoring.AssessmentInput{ModelID: modelID, Answers: parsed})
			if err != nil {
				return err
			}
			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printAssessmentTable(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the YAML catalog")
	cmd.Flags().Int64Var(&modelID, "model", 0, "Device model ID")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "Answer as condition_id=answer_option_id (repeatable)")
	cmd.Flags().IntVar(&year, "year", 0, "Reference year for age scoring (default: current year)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on answers that reference unknown conditions or options")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func parseAnswers(pairs []string) ([]scoring.UserAnswer, error) {
	out := make([]scoring.UserAnswer, 0, len(pairs))
	for _, p := range pairs {
		cond, opt, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("answer %q: want condition_id=answer_option_id", p)
		}
		c, err := strconv.ParseInt(strings.TrimSpace(cond), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("answer %q: condition id: %w", p, err)
		}
		o, err := strconv.ParseInt(strings.TrimSpace(opt), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("answer %q: answer option id: %w", p, err)
		}
		out = append(out, scoring.UserAnswer{ConditionID: c, AnswerOptionID: o})
	}
	return out, nil
}

func printAssessmentTable(w io.Writer, res *scoring.AssessmentResult) {
	fmt.Fprintf(w, "age=%d physical=%.2f functional=%.2f (reference year %d)\n\n",
		res.AgeScore, res.PhysicalResult.Score, res.FunctionalResult.Score, res.ReferenceYear)
	fmt.Fprintf(w, "%-4s %-24s %8s\n", "RANK", "PATH", "TOTAL")
	for _, p := range res.PathResults {
		marker := ""
		if p.IsRecommended {
			marker = " *"
		}
		fmt.Fprintf(w, "%-4d %-24s %8.2f%s\n", p.Rank, p.PathName, p.TotalScore, marker)
	}
	if res.Reason != nil {
		fmt.Fprintf(w, "\nrecommended on %s factor, score band %s\n", res.Reason.DominantFactor, res.Reason.Band)
	}
}
