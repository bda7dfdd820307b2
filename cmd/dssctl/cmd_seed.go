package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Nakkasenp65/device-assessment-dss/internal/scoring"
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

// seedPath mirrors the body accepted by POST /api/v1/paths.
type seedPath struct {
	Name                string                  `json:"name"`
	DescriptionTemplate string                  `json:"description_template,omitempty"`
	Weights             scoring.PriorityWeights `json:"weights"`
}

func newSeedCommand() *cobra.Command {
	var (
		catalogPath string
		apiURL      string
		token       string
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the decision paths of a YAML catalog in a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(catalogPath)
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			var cf store.CatalogFile
			if err := yaml.Unmarshal(data, &cf); err != nil {
				return fmt.Errorf("parse catalog: %w", err)
			}
			if len(cf.DecisionPaths) == 0 {
				return fmt.Errorf("catalog %s has no decision paths", catalogPath)
			}

			out := cmd.OutOrStdout()
			client := &http.Client{Timeout: 10 * time.Second}
			for _, p := range cf.DecisionPaths {
				body := seedPath{
					Name:                p.Name,
					DescriptionTemplate: p.DescriptionTemplate,
					Weights:             scoring.WeightsOf(p),
				}
				if dryRun {
					fmt.Fprintf(out, "would create %q (%.2f/%.2f/%.2f)\n", p.Name, p.WeightPhysical, p.WeightFunctional, p.WeightAge)
					continue
				}
				id, err := postPath(cmd.Context(), client, apiURL, token, body)
				if err != nil {
					return fmt.Errorf("create %q: %w", p.Name, err)
				}
				fmt.Fprintf(out, "created %q as path %d\n", p.Name, id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to the YAML catalog")
	cmd.Flags().StringVar(&apiURL, "api", "http://localhost:8700", "Service base URL")
	cmd.Flags().StringVar(&token, "token", "", "Admin bearer token")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print paths without posting")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

func postPath(ctx context.Context, client *http.Client, apiURL, token string, body seedPath) (int64, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(apiURL, "/")+"/api/v1/paths", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode != http.StatusCreated {
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return created.ID, nil
}
