package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/catalog"
	"github.com/abhisek/skillpath/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Open the next-project screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next recommended projects",
	Long: "Starts a recommendation session and prints up to --count picks from the rotation.\n" +
		"Printing stops once every remaining project has been shown; with --generate a\n" +
		"new project is then generated (but not saved).",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		generate, _ := cmd.Flags().GetBool("generate")
		if count < 1 {
			return fmt.Errorf("--count must be at least 1, got %d", count)
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, err := resolveLearner(ctx, st)
		if err != nil {
			return err
		}
		engine := buildEngine(ctx, st)

		pick, err := engine.Start(ctx, rec.ID)
		for i := 0; ; i++ {
			if err != nil {
				return err
			}
			if pick.Done() {
				fmt.Fprintln(out, "All projects completed! Run `skillpath generate` for a new one.")
				return nil
			}
			if pick.Wrapped {
				break
			}
			printPick(out, i+1, pick)
			if i+1 == count {
				return nil
			}
			pick, err = engine.Next(ctx)
		}

		if !generate || !engine.CanGenerate() {
			fmt.Fprintln(out, "You've seen every project. Run `skillpath generate` for a new one.")
			return nil
		}
		fmt.Fprintln(out, "You've seen every project. Generating a new one...")
		p, err := engine.Generate(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printProject(out, p)
		fmt.Fprintln(out, "\nNot saved. Use `skillpath generate --accept` to generate and keep a project.")
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new project from the concepts you have learned",
	RunE: func(cmd *cobra.Command, args []string) error {
		accept, _ := cmd.Flags().GetBool("accept")
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
		engine := buildEngine(ctx, st)
		if !engine.CanGenerate() {
			return errors.New("project generation needs an LLM provider: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or SKILLPATH_LLM_PROVIDER")
		}
		if _, err := engine.Start(ctx, rec.ID); err != nil {
			return err
		}

		p, err := engine.Generate(ctx)
		if err != nil {
			return err
		}
		printProject(cmd.OutOrStdout(), p)

		if !accept {
			fmt.Println()
			fmt.Println("Not saved. Re-run with --accept to make it your current project.")
			return nil
		}
		if err := engine.Accept(ctx, p, rec.ID); err != nil {
			return err
		}
		fmt.Printf("\nSaved %s and set it as your current project.\n", p.ID)
		return nil
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <project-id>",
	Short: "Make a catalog project your current project",
	Args:  cobra.ExactArgs(1),
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

		p, err := st.CatalogRepo().Get(ctx, cfg.Skill, args[0])
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("project %q is not in the %s catalog", args[0], cfg.Skill)
		}
		if err != nil {
			return err
		}

		engine := buildEngine(ctx, st)
		if err := engine.Accept(ctx, p, rec.ID); err != nil {
			return err
		}
		fmt.Printf("Current project: %s (%s)\n", p.Title, p.ID)
		return nil
	},
}

func printPick(w io.Writer, n int, pick recommend.Pick) {
	p := pick.Project
	fmt.Fprintf(w, "%2d. %-24s %s\n", n, p.ID, p.Title)
	if len(p.RequiredConcepts) > 0 {
		fmt.Fprintf(w, "    concepts: %s\n", strings.Join(p.RequiredConcepts, ", "))
	}
}

func printProject(w io.Writer, p *catalog.Project) {
	fmt.Fprintf(w, "%s  %s\n", p.ID, p.Title)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	if len(p.RequiredConcepts) > 0 {
		fmt.Fprintf(w, "Concepts: %s\n", strings.Join(p.RequiredConcepts, ", "))
	}
	for i, t := range p.Tasks {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, t.Title)
		for _, s := range t.Subtasks {
			fmt.Fprintf(w, "   - %s\n", s)
		}
	}
}

func init() {
	nextCmd.Flags().IntP("count", "n", 1, "Number of picks to print")
	nextCmd.Flags().Bool("generate", false, "Generate a new project once every project has been shown")
	generateCmd.Flags().Bool("accept", false, "Save the generated project and make it current")
}
