package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage project catalogs",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import projects and concepts from a JSON bundle",
	Long: "Imports a catalog bundle. Entries whose id already exists are skipped,\n" +
		"so importing the same file twice is safe. The skill comes from the file's\n" +
		"\"skill\" field, falling back to --skill.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read bundle: %w", err)
		}
		bundle, err := catalog.ParseBundle(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		skill := bundle.Skill
		if skill == "" {
			skill = cfg.Skill
		}

		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		repo := st.CatalogRepo()

		if len(bundle.Concepts) > 0 {
			if err := repo.PutConcepts(ctx, skill, bundle.Concepts); err != nil {
				return err
			}
		}

		var added, skipped int
		for i := range bundle.Projects {
			err := repo.Put(ctx, skill, &bundle.Projects[i])
			switch {
			case errors.Is(err, catalog.ErrExists):
				skipped++
			case err != nil:
				return err
			default:
				added++
			}
		}

		fmt.Printf("Imported %d projects into %q (%d already present, %d concepts).\n",
			added, skill, skipped, len(bundle.Concepts.Names()))
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the projects in a skill's catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		projects, err := st.CatalogRepo().List(ctx, cfg.Skill)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Printf("No projects for %q. Import some with `skillpath catalog import <file>`.\n", cfg.Skill)
			return nil
		}

		fmt.Printf("%-24s  %-36s  %5s  %s\n", "ID", "Title", "Tasks", "Concepts")
		fmt.Println(strings.Repeat("─", 90))
		for _, p := range projects {
			fmt.Printf("%-24s  %-36s  %5d  %s\n",
				truncate(p.ID, 24), truncate(p.Title, 36), len(p.Tasks), strings.Join(p.RequiredConcepts, ", "))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show one project with its tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := st.CatalogRepo().Get(ctx, cfg.Skill, args[0])
		if errors.Is(err, catalog.ErrNotFound) {
			return fmt.Errorf("project %q is not in the %s catalog", args[0], cfg.Skill)
		}
		if err != nil {
			return err
		}
		printProject(cmd.OutOrStdout(), p)
		return nil
	},
}

var catalogSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List skills with a catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		skills, err := st.CatalogRepo().Skills(cmd.Context())
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			fmt.Println("No catalogs yet.")
			return nil
		}
		for _, s := range skills {
			mark := " "
			if s == cfg.Skill {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, s)
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogSkillsCmd)
}
