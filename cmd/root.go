package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/config"
	"github.com/abhisek/skillpath/internal/learner"
	"github.com/abhisek/skillpath/internal/llm"
	"github.com/abhisek/skillpath/internal/recommend"
	"github.com/abhisek/skillpath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillpath",
	Short: "Project recommendations for self-taught learners",
	Long: "skillpath tracks the concepts you have learned and the projects you have finished,\n" +
		"and suggests the next practice project, generating a new one when the catalog runs out.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// cfg is resolved once per invocation in PersistentPreRunE.
var cfg *config.Config

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SKILLPATH_DB)")
	pf.String("skill", "", "Skill catalog to use (overrides SKILLPATH_SKILL)")
	pf.String("learner", "", "Learner id (overrides SKILLPATH_LEARNER)")
	pf.String("config", "", "Path to a skillpath.yaml config file")
	pf.BoolP("verbose", "v", false, "Log recommendation events to stderr")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(learnerCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	c, err := config.Load(config.Options{ConfigFile: file})
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("skill"); v != "" {
		c.Skill = v
	}
	if v, _ := cmd.Flags().GetString("learner"); v != "" {
		c.Learner = v
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		c.LogCalls = true
	}
	cfg = c
	return nil
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then the configured db, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// resolveLearner picks the configured learner, or the only learner in
// the database when none is configured.
func resolveLearner(ctx context.Context, st *store.Store) (*learner.Record, error) {
	if cfg.Learner != "" {
		r, err := st.LearnerRepo().Get(ctx, cfg.Learner)
		if errors.Is(err, learner.ErrNotFound) {
			return nil, fmt.Errorf("learner %q not found (see `skillpath learner list`)", cfg.Learner)
		}
		return r, err
	}

	all, err := st.LearnerRepo().List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(all) {
	case 0:
		return nil, errors.New("no learner yet: create one with `skillpath learner create <name>`")
	case 1:
		return st.LearnerRepo().Get(ctx, all[0].ID)
	}
	return nil, errors.New("several learners exist: pass --learner or set SKILLPATH_LEARNER")
}

// buildEngine wires the recommendation engine. Generation is disabled
// when no provider is configured.
func buildEngine(ctx context.Context, st *store.Store) *recommend.Engine {
	opts := recommend.Options{
		Catalog:  st.CatalogRepo(),
		Learners: st.LearnerRepo(),
		Skill:    cfg.Skill,
	}
	if cfg.LogCalls {
		opts.Observer = recommend.NewLogObserver(os.Stderr)
	}

	if !cfg.HasLLM() {
		return recommend.NewEngine(opts)
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not available:", err)
		return recommend.NewEngine(opts)
	}
	opts.Generator = recommend.NewGenerator(provider, recommend.DefaultGeneratorConfig(), nil)
	return recommend.NewEngine(opts)
}
