package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/djantao/agentAI/internal/cli"
	"github.com/djantao/agentAI/internal/config"
	"github.com/djantao/agentAI/internal/database"
	"github.com/djantao/agentAI/internal/datasync"
	"github.com/djantao/agentAI/internal/mastery"
	"github.com/djantao/agentAI/internal/notion"
	"github.com/djantao/agentAI/internal/progress"
	"github.com/djantao/agentAI/internal/reconcile"
)

func newSyncCommand() *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize study data with external stores",
	}

	syncCmd.AddCommand(
		newSyncPullCommand(),
		newSyncExportCommand(),
		newSyncImportDBCommand(),
	)
	return syncCmd
}

func newSyncPullCommand() *cobra.Command {
	var days int
	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull recent study sessions from the Notion database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newNotionClient(cfg)
			if err != nil {
				return err
			}

			since, until := datasync.SyncWindow(time.Now(), days)
			rows, err := client.QuerySessions(cmd.Context(), since, until)
			if err != nil {
				return fmt.Errorf("client.QuerySessions > %w", err)
			}

			log, repository := loadSessionLog(cfg)
			result := datasync.MergeSessions(log, rows)
			if err := repository.Save(log.Sessions()); err != nil {
				return fmt.Errorf("repository.Save > %w", err)
			}

			fmt.Printf("同步完成：新增 %d 条记录，跳过 %d 条已有记录\n", result.Added, result.Skipped)
			return nil
		},
	}
	pullCmd.Flags().IntVar(&days, "days", 7, "how many days back to pull")
	return pullCmd
}

func newSyncExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export sessions and mastery state to YAML files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log, _ := loadSessionLog(cfg)
			sink := datasync.NewYAMLSessionSink(cfg.Storage.ExportDirectory)
			if err := sink.WriteSessions(log.Sessions()); err != nil {
				return err
			}

			var state mastery.State
			if remote, remoteErr := newRemoteStore(cfg); remoteErr == nil {
				state = newMasteryReconciler(cfg, remote).Load(cmd.Context())
			} else {
				// Export works offline from the local cache alone.
				cache := reconcile.NewCache(cfg.Storage.CacheDirectory)
				reconciler := reconcile.NewReconciler[mastery.State](
					localOnlyStore{}, cache, cli.MasteryStatePath(), "Update course progress", nil)
				state = reconciler.Load(cmd.Context())
			}
			if err := sink.WriteMastery(state); err != nil {
				return err
			}

			fmt.Printf("已导出到 %s\n", cfg.Storage.ExportDirectory)
			return nil
		},
	}
}

func newSyncImportDBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-db",
		Short: "Import the local session log into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			repository := progress.NewDBRepository(db)

			existing, err := repository.FindAll(ctx)
			if err != nil {
				return fmt.Errorf("repository.FindAll > %w", err)
			}
			known := make(map[int64]struct{}, len(existing))
			for _, session := range existing {
				known[session.ID] = struct{}{}
			}

			log, _ := loadSessionLog(cfg)
			imported, skipped := 0, 0
			for _, session := range log.Sessions() {
				if _, ok := known[session.ID]; ok {
					skipped++
					continue
				}
				if err := repository.Create(ctx, &session); err != nil {
					return fmt.Errorf("repository.Create > %w", err)
				}
				imported++
			}

			fmt.Printf("导入完成：新增 %d 条，跳过 %d 条已有记录\n", imported, skipped)
			return nil
		},
	}
}

func newNotionClient(cfg *config.Config) (*notion.Client, error) {
	if cfg.AI.ProxyURL != "" && cfg.Notion.DatabaseID != "" {
		return notion.NewProxyClient(cfg.AI.ProxyURL, cfg.Notion.DatabaseID), nil
	}
	if err := cfg.EnsureNotionCredentials(); err != nil {
		return nil, err
	}
	return notion.NewClient(cfg.Notion.APIKey, cfg.Notion.DatabaseID), nil
}

// localOnlyStore makes the reconciler read the local cache without remote
// credentials.
type localOnlyStore struct{}

func (localOnlyStore) GetContent(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (localOnlyStore) PutContent(context.Context, string, string, string) error {
	return nil
}

func (localOnlyStore) EnsureDirectory(context.Context, string) error {
	return nil
}
