package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ftbench/internal/domain/query"
)

type queryStatsOutput struct {
	Count      int                    `json:"count"`
	MinTerms   int                    `json:"min_terms"`
	MaxTerms   int                    `json:"max_terms"`
	MeanTerms  float64                `json:"mean_terms"`
	ByTerms    map[int]int            `json:"by_terms"`
	ByCategory map[query.Category]int `json:"by_category"`
}

func newQueriesCmd() *cobra.Command {
	var withStats bool

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Print the benchmark query set as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			queries := query.Set()

			var v any = queries
			if withStats {
				st := query.Describe(queries)
				v = struct {
					Queries []string         `json:"queries"`
					Stats   queryStatsOutput `json:"stats"`
				}{
					Queries: queries,
					Stats: queryStatsOutput{
						Count:      st.Count,
						MinTerms:   st.MinTerms,
						MaxTerms:   st.MaxTerms,
						MeanTerms:  st.MeanTerms,
						ByTerms:    st.ByTerms,
						ByCategory: st.ByCategory,
					},
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("encode queries: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withStats, "stats", false,
		"Include term-count and category distribution")
	return cmd
}
