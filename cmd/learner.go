package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/learner"
)

var learnerCmd = &cobra.Command{
	Use:   "learner",
	Short: "Manage learner records",
}

var learnerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("learner name must not be blank")
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec := &learner.Record{Name: name, Skill: cfg.Skill}
		if err := st.LearnerRepo().Create(cmd.Context(), rec); err != nil {
			return err
		}
		fmt.Printf("Created learner %s (%s)\n", rec.Name, rec.ID)
		return nil
	},
}

var learnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		all, err := st.LearnerRepo().List(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("No learners yet. Create one with `skillpath learner create <name>`.")
			return nil
		}
		fmt.Printf("%-36s  %-20s  %-10s  %s\n", "ID", "Name", "Skill", "Current project")
		fmt.Println(strings.Repeat("─", 90))
		for _, r := range all {
			current := r.CurrentProject
			if current == "" {
				current = "-"
			}
			fmt.Printf("%-36s  %-20s  %-10s  %s\n", r.ID, truncate(r.Name, 20), r.Skill, current)
		}
		return nil
	},
}

var learnerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the learner's concepts and completed projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := resolveLearner(cmd.Context(), st)
		if err != nil {
			return err
		}

		fmt.Printf("Name:      %s\n", rec.Name)
		fmt.Printf("ID:        %s\n", rec.ID)
		fmt.Printf("Skill:     %s\n", rec.Skill)
		if rec.CurrentProject != "" {
			fmt.Printf("Current:   %s\n", rec.CurrentProject)
		}

		fmt.Printf("\nConcepts learned (%d)\n", len(rec.Concepts))
		for _, c := range rec.Concepts {
			fmt.Printf("  %-28s %s\n", c.Concept, c.Category)
		}

		fmt.Printf("\nProjects completed (%d)\n", len(rec.Completed))
		for _, c := range rec.Completed {
			fmt.Printf("  %s  %-24s %s\n", c.CompletedAt.Local().Format("2006-01-02"), c.ProjectKey, c.ProjectTitle)
		}
		return nil
	},
}

var learnerLearnCmd = &cobra.Command{
	Use:   "learn <concept>",
	Short: "Mark a concept as learned",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
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
		c := learner.Concept{Concept: strings.TrimSpace(args[0]), Category: category}
		if c.Concept == "" {
			return fmt.Errorf("concept must not be blank")
		}
		if err := st.LearnerRepo().AddConcept(ctx, rec.ID, c); err != nil {
			return err
		}
		fmt.Printf("Learned %q.\n", c.Concept)
		return nil
	},
}

var learnerCompleteCmd = &cobra.Command{
	Use:   "complete <project-key>",
	Short: "Record a finished project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		concepts, _ := cmd.Flags().GetStringSlice("concepts")
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

		if title == "" || len(concepts) == 0 {
			// Fill from the catalog entry when it exists.
			if p, err := st.CatalogRepo().Get(ctx, cfg.Skill, args[0]); err == nil {
				if title == "" {
					title = p.Title
				}
				if len(concepts) == 0 {
					concepts = p.RequiredConcepts
				}
			}
		}

		done := learner.CompletedProject{
			ProjectKey:   args[0],
			ProjectTitle: title,
			ConceptUsed:  strings.Join(concepts, ", "),
		}
		if err := st.LearnerRepo().AddCompleted(ctx, rec.ID, done); err != nil {
			return err
		}
		fmt.Printf("Completed %s.\n", args[0])
		return nil
	},
}

func init() {
	learnerLearnCmd.Flags().StringP("category", "c", "basic", "Concept category")
	learnerCompleteCmd.Flags().String("title", "", "Project title (defaults to the catalog title)")
	learnerCompleteCmd.Flags().StringSlice("concepts", nil, "Concepts used (defaults to the project's required concepts)")

	learnerCmd.AddCommand(learnerCreateCmd)
	learnerCmd.AddCommand(learnerListCmd)
	learnerCmd.AddCommand(learnerShowCmd)
	learnerCmd.AddCommand(learnerLearnCmd)
	learnerCmd.AddCommand(learnerCompleteCmd)
}
