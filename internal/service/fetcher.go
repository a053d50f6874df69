package service

import (
	"context"

	"github.com/gitanalyzer/backend/config"
	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
)

// RepositoryFetcher 仓库数据拉取器
// 对编排层是黑盒：失败即作业失败，不在这一层重试
type RepositoryFetcher interface {
	Fetch(ctx context.Context, repositoryURL, token string) (*githubapi.RepositoryData, error)
}

type githubFetcher struct {
	cfg *config.Config
}

// NewGitHubFetcher 创建基于 GitHub API 的拉取器
func NewGitHubFetcher(cfg *config.Config) RepositoryFetcher {
	return &githubFetcher{cfg: cfg}
}

func (f *githubFetcher) Fetch(ctx context.Context, repositoryURL, token string) (*githubapi.RepositoryData, error) {
	owner, repo, err := githubapi.ParseRepositoryURL(repositoryURL)
	if err != nil {
		return nil, err
	}

	if token == "" {
		token = f.cfg.GitHub.Token
	}

	client := githubapi.NewClient(f.cfg.GitHub.APIURL, token)
	return client.FetchRepository(ctx, owner, repo)
}
