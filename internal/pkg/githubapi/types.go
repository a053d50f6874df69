package githubapi

// RepoInfo 仓库基础信息
type RepoInfo struct {
	Name            string `json:"name"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	Language        string `json:"language"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	OpenIssuesCount int    `json:"open_issues_count"`
	DefaultBranch   string `json:"default_branch"`
	HTMLURL         string `json:"html_url"`
}

// TreeEntry 文件树节点，Type 为 blob（文件）或 tree（目录）
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size,omitempty"`
}

// Commit 提交记录（扁平化后的必要字段）
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// Contributor 贡献者
type Contributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// Statistics 从原始数据派生的统计值
type Statistics struct {
	TotalFiles        int `json:"total_files"`
	TotalDirs         int `json:"total_dirs"`
	TotalCommits      int `json:"total_commits"`
	TotalContributors int `json:"total_contributors"`
	Stars             int `json:"stars"`
	Forks             int `json:"forks"`
	OpenIssues        int `json:"open_issues"`
}

// RepositoryData 一次分析作业消费的完整仓库上下文
// 拉取完成后只读，所有分析器共享同一份
type RepositoryData struct {
	Repository   RepoInfo         `json:"repository"`
	FileTree     []TreeEntry      `json:"file_tree"`
	Languages    map[string]int64 `json:"languages"`
	Readme       string           `json:"readme"`
	Commits      []Commit         `json:"commits"`
	Contributors []Contributor    `json:"contributors"`
	Statistics   Statistics       `json:"statistics"`
}
