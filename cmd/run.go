package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skillpath/internal/app"
	"github.com/abhisek/skillpath/internal/screens/home"
)

func runApp(cmd *cobra.Command, startOnRecommend bool) error {
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

	return app.Run(app.Options{
		Deps: home.Deps{
			Engine:    buildEngine(ctx, st),
			Catalog:   st.CatalogRepo(),
			Learners:  st.LearnerRepo(),
			LearnerID: rec.ID,
		},
		LearnerName:      rec.Name,
		StartOnRecommend: startOnRecommend,
	})
}
