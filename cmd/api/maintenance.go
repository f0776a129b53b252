package main

import (
	"strings"

	"github.com/spf13/cobra"

	"dailynotes/api/internal/search"
	"dailynotes/api/internal/store"
)

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context(), *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()
			rt.log.Info(cmd.Context(), "migrations applied")
			return nil
		},
	}
}

func newResetReadyCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-ready",
		Short: "Move every ready note back to draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := bootstrap(ctx, *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			n, err := store.NewPostgresStore(rt.db).ResetReadyNotes(ctx)
			if err != nil {
				return err
			}
			rt.log.Info(ctx, "reset ready notes", "count", n)
			cmd.Printf("moved %d notes back to draft\n", n)
			return nil
		},
	}
}

func newReindexCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push every note to Meilisearch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := bootstrap(ctx, *configFile)
			if err != nil {
				return err
			}
			defer rt.Close()

			if strings.TrimSpace(rt.cfg.MeiliURL) == "" {
				cmd.Println("MEILI_URL is not set, nothing to do")
				return nil
			}
			meili := search.NewMeili(rt.cfg.MeiliURL, rt.cfg.MeiliMasterKey, rt.log)
			defer meili.Close()

			n, err := search.NewService(meili, nil, rt.log).ReindexAll(ctx, store.NewPostgresStore(rt.db))
			if err != nil {
				return err
			}
			cmd.Printf("indexed %d notes\n", n)
			return nil
		},
	}
}
