package main

import (
	"fmt"

	"github.com/djantao/agentAI/internal/cli"
	"github.com/djantao/agentAI/internal/config"
	"github.com/djantao/agentAI/internal/github"
	"github.com/djantao/agentAI/internal/inference"
	"github.com/djantao/agentAI/internal/inference/qwen"
	"github.com/djantao/agentAI/internal/mastery"
	"github.com/djantao/agentAI/internal/progress"
	"github.com/djantao/agentAI/internal/reconcile"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func newRemoteStore(cfg *config.Config) (*reconcile.GitHubStore, error) {
	if err := cfg.EnsureGitHubCredentials(); err != nil {
		return nil, err
	}
	return reconcile.NewGitHubStore(
		github.NewClient(cfg.GitHub.Token, cfg.GitHub.RepoOwner, cfg.GitHub.RepoName)), nil
}

func newInferenceClient(cfg *config.Config) inference.Client {
	return qwen.NewClient(cfg.AI.ProxyURL, cfg.AI.APIKey, cfg.AI.Model)
}

func newMasteryReconciler(cfg *config.Config, remote reconcile.RemoteStore) *reconcile.Reconciler[mastery.State] {
	return reconcile.NewReconciler[mastery.State](
		remote,
		reconcile.NewCache(cfg.Storage.CacheDirectory),
		cli.MasteryStatePath(),
		"Update course progress",
		nil,
	)
}

func loadSessionLog(cfg *config.Config) (*progress.SessionLog, *progress.FileRepository) {
	repository := progress.NewFileRepository(cfg.Storage.CacheDirectory)
	return progress.NewSessionLog(repository.Load()), repository
}
