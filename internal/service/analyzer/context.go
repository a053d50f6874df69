package analyzer

import (
	"fmt"
	"strings"

	"github.com/gitanalyzer/backend/internal/pkg/githubapi"
	"github.com/gitanalyzer/backend/internal/utils"
)

// README 截断长度，避免撑爆上下文
const readmeLimit = 2000

// buildContext 把仓库数据压缩成所有分析器共享的上下文摘要
func buildContext(data *githubapi.RepositoryData) string {
	repo := data.Repository

	description := repo.Description
	if description == "" {
		description = "No description"
	}
	language := repo.Language
	if language == "" {
		language = "Unknown"
	}

	readme := data.Readme
	if readme == "" {
		readme = "No README available"
	}
	if len(readme) > readmeLimit {
		readme = readme[:readmeLimit]
	}

	var b strings.Builder
	b.WriteString("Repository Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", repo.Name)
	fmt.Fprintf(&b, "- Description: %s\n", description)
	fmt.Fprintf(&b, "- Language: %s\n", language)
	fmt.Fprintf(&b, "- Stars: %d\n", repo.StargazersCount)
	fmt.Fprintf(&b, "- Forks: %d\n", repo.ForksCount)
	b.WriteString("\nLanguages Used:\n")
	b.WriteString(utils.ToJSON(data.Languages))
	b.WriteString("\n\nFile Structure:\n")
	fmt.Fprintf(&b, "Total Files: %d\n", data.Statistics.TotalFiles)
	fmt.Fprintf(&b, "Total Directories: %d\n", data.Statistics.TotalDirs)
	b.WriteString("\nREADME Content:\n")
	b.WriteString(readme)
	b.WriteString("\n\nRecent Activity:\n")
	fmt.Fprintf(&b, "Total Commits: %d\n", data.Statistics.TotalCommits)
	fmt.Fprintf(&b, "Contributors: %d\n", data.Statistics.TotalContributors)

	return b.String()
}
