package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cardpark/internal/tools/loadgen"
)

func newLoadgenCommand() *cobra.Command {
	var (
		baseURL     string
		profile     string
		duration    time.Duration
		rps         int
		concurrency int
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Generate synthetic resolve/claim traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadgen.Run(cmd.Context(), loadgen.Config{
				BaseURL:     baseURL,
				Profile:     profile,
				Duration:    duration,
				RPS:         rps,
				Concurrency: concurrency,
				Seed:        seed,
			})
			if err != nil {
				return err
			}
			fmt.Printf("total=%d failures=%d classes=%v\n", res.TotalRequests, res.Failures, res.StatusClasses)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "API base URL")
	cmd.Flags().StringVar(&profile, "profile", "mixed", "traffic profile: mixed, resolve or claim")
	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "how long to run")
	cmd.Flags().IntVar(&rps, "rps", 20, "requests per second")
	cmd.Flags().IntVar(&concurrency, "concurrency", 6, "max in-flight requests")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	return cmd
}
