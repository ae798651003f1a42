package main

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/qdrant-connector/v1/qdrant"
)

func newSearchCommand(a *app) *cobra.Command {
	var (
		vector      string
		top         int
		threshold   float64
		tags        []string
		matches     []string
		withVectors bool
		distance    string
	)

	cmd := &cobra.Command{
		Use:   "search <collection>",
		Short: "Find the nearest points to a vector",
		Example: `  qdrantctl search memories --vector 0.1,0.2,0.3 --top 5
  qdrantctl search memories --vector 0.1,0.2,0.3 --threshold 0.75 --tag personal --match lang=en`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseVector(vector)
			if err != nil {
				return err
			}

			var filter *qdrant.Filter
			if len(matches) > 0 {
				filter = qdrant.NewFilter()
				for _, m := range matches {
					cond, err := parseMatch(m)
					if err != nil {
						return err
					}
					filter.Must(cond)
				}
			}

			if !cmd.Flags().Changed("threshold") {
				threshold = math.Inf(-1)
			}
			opts := qdrant.SearchOptions{
				Filter:       filter,
				Top:          top,
				WithVectors:  withVectors,
				RequiredTags: tags,
			}
			if distance != "" {
				d, err := qdrant.ParseDistance(distance)
				if err != nil {
					return err
				}
				opts.Distance = d
			}

			hits := make([]pointView, 0, top)
			for hit, err := range a.client.FindNearestInCollection(cmd.Context(), args[0], target, threshold, opts) {
				if err != nil {
					return err
				}
				v := viewOf(hit.Record)
				score := hit.Score
				v.Score = &score
				hits = append(hits, v)
			}
			return printJSON(cmd.OutOrStdout(), hits)
		},
	}
	cmd.Flags().StringVar(&vector, "vector", "", "Query vector, comma separated")
	cmd.Flags().IntVar(&top, "top", 10, "Maximum number of hits")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Minimum score, or maximum distance for euclid and manhattan; unset means no threshold")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Required tag (repeatable)")
	cmd.Flags().StringArrayVar(&matches, "match", nil, "Payload key=value that must match (repeatable)")
	cmd.Flags().BoolVar(&withVectors, "with-vectors", false, "Include embeddings")
	cmd.Flags().StringVar(&distance, "distance", "", "Collection metric if it differs from the configured one")
	_ = cmd.MarkFlagRequired("vector")
	return cmd
}
