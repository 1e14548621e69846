package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show learned and applied concept counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := resolveLearner(ctx, st)
		if err != nil {
			return err
		}
		sum, _, err := progress.Load(ctx, st.CatalogRepo(), st.LearnerRepo(), cfg.Skill, rec.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s · %s\n", rec.Name, cfg.Skill)
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-12s %s %d/%d\n", "Learned", bar(sum.LearnedRatio(), 24), sum.Learned, sum.Total)
		fmt.Printf("%-12s %s %d/%d\n", "Applied", bar(sum.AppliedRatio(), 24), sum.Applied, sum.Learned)
		fmt.Printf("Projects completed: %d\n", sum.ProjectsCompleted)

		if len(sum.ByCategory) > 0 {
			fmt.Println()
			for _, c := range sum.ByCategory {
				fmt.Printf("%-12s %s %d/%d\n", truncate(c.Category, 12), bar(c.Ratio(), 24), c.Learned, c.Total)
			}
		}
		return nil
	},
}

func bar(ratio float64, width int) string {
	filled := int(ratio*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
