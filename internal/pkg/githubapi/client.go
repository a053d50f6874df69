package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"k8s.io/klog/v2"
)

// Client GitHub REST API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建 GitHub API 客户端
// token 经 oauth2 TokenSource 注入到每个请求的 Authorization 头
func NewClient(baseURL, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// get 发送 GET 请求并解码 JSON 响应
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("github api 404: %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// GetRepositoryInfo 获取仓库基础信息
func (c *Client) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	var info RepoInfo
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), nil, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}
	return &info, nil
}

type refResponse struct {
	Object struct {
		SHA string `json:"sha"`
	} `json:"object"`
}

type treeResponse struct {
	Tree []TreeEntry `json:"tree"`
}

// GetRepositoryTree 获取仓库文件树（递归）
// branch 为空时先尝试 main，不存在则回退 master
func (c *Client) GetRepositoryTree(ctx context.Context, owner, repo, branch string) ([]TreeEntry, error) {
	branches := []string{branch}
	if branch == "" {
		branches = []string{"main", "master"}
	}

	var ref refResponse
	var refErr error
	for _, b := range branches {
		refErr = c.get(ctx, fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s", owner, repo, b), nil, &ref)
		if refErr == nil {
			break
		}
	}
	if refErr != nil {
		return nil, fmt.Errorf("failed to resolve branch head: %w", refErr)
	}

	var tree treeResponse
	query := url.Values{"recursive": {"1"}}
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/git/trees/%s", owner, repo, ref.Object.SHA), query, &tree); err != nil {
		return nil, fmt.Errorf("failed to fetch repository tree: %w", err)
	}
	return tree.Tree, nil
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFileContent 获取仓库内文件内容（base64 解码后）
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path string) (string, error) {
	var content contentResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contents/%s", owner, repo, path), nil, &content); err != nil {
		return "", fmt.Errorf("failed to fetch file content: %w", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode file content: %w", err)
	}
	return string(decoded), nil
}

// GetReadme 获取 README，不存在时返回空串
func (c *Client) GetReadme(ctx context.Context, owner, repo string) string {
	candidates := []string{"README.md", "readme.md", "README", "README.txt"}
	for _, name := range candidates {
		content, err := c.GetFileContent(ctx, owner, repo, name)
		if err == nil {
			return content
		}
	}
	return ""
}

// GetLanguages 获取仓库语言字节数统计
func (c *Client) GetLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	languages := make(map[string]int64)
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/languages", owner, repo), nil, &languages); err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", err)
	}
	return languages, nil
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// GetCommits 获取最近提交，limit 控制窗口大小
func (c *Client) GetCommits(ctx context.Context, owner, repo string, limit int) ([]Commit, error) {
	var raw []commitResponse
	query := url.Values{"per_page": {fmt.Sprintf("%d", limit)}}
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/commits", owner, repo), query, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch commits: %w", err)
	}

	commits := make([]Commit, 0, len(raw))
	for _, r := range raw {
		commits = append(commits, Commit{
			SHA:     r.SHA,
			Message: r.Commit.Message,
			Author:  r.Commit.Author.Name,
			Date:    r.Commit.Author.Date,
		})
	}
	return commits, nil
}

// GetContributors 获取贡献者列表
func (c *Client) GetContributors(ctx context.Context, owner, repo string) ([]Contributor, error) {
	var contributors []Contributor
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/%s/contributors", owner, repo), nil, &contributors); err != nil {
		return nil, fmt.Errorf("failed to fetch contributors: %w", err)
	}
	return contributors, nil
}

// FetchRepository 拉取完整的仓库上下文数据
// 任一必要环节失败即整体失败，由编排层决定作业命运
func (c *Client) FetchRepository(ctx context.Context, owner, repo string) (*RepositoryData, error) {
	klog.V(6).Infof("开始拉取仓库数据: %s/%s", owner, repo)

	info, err := c.GetRepositoryInfo(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	tree, err := c.GetRepositoryTree(ctx, owner, repo, "")
	if err != nil {
		return nil, err
	}

	languages, err := c.GetLanguages(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	readme := c.GetReadme(ctx, owner, repo)

	commits, err := c.GetCommits(ctx, owner, repo, 50)
	if err != nil {
		return nil, err
	}

	contributors, err := c.GetContributors(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	totalFiles := 0
	totalDirs := 0
	for _, entry := range tree {
		switch entry.Type {
		case "blob":
			totalFiles++
		case "tree":
			totalDirs++
		}
	}

	recentCommits := commits
	if len(recentCommits) > 10 {
		recentCommits = recentCommits[:10]
	}

	data := &RepositoryData{
		Repository:   *info,
		FileTree:     tree,
		Languages:    languages,
		Readme:       readme,
		Commits:      recentCommits,
		Contributors: contributors,
		Statistics: Statistics{
			TotalFiles:        totalFiles,
			TotalDirs:         totalDirs,
			TotalCommits:      len(commits),
			TotalContributors: len(contributors),
			Stars:             info.StargazersCount,
			Forks:             info.ForksCount,
			OpenIssues:        info.OpenIssuesCount,
		},
	}

	klog.V(6).Infof("仓库数据拉取完成: %s/%s, files=%d, commits=%d, contributors=%d",
		owner, repo, totalFiles, len(commits), len(contributors))
	return data, nil
}

// ParseRepositoryURL 从仓库 URL 解析 owner 与 repo
func ParseRepositoryURL(rawURL string) (string, string, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid repository url: %s", rawURL)
	}

	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository url: %s", rawURL)
	}
	return owner, repo, nil
}
