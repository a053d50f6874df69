package githubapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseRepositoryURL(t *testing.T) {
	cases := []struct {
		in    string
		owner string
		repo  string
		ok    bool
	}{
		{"https://github.com/octocat/demo", "octocat", "demo", true},
		{"https://github.com/octocat/demo/", "octocat", "demo", true},
		{"https://github.com/octocat/demo.git", "octocat", "demo", true},
		{"git@github.com:octocat/demo.git", "", "", true}, // ssh 形式按路径段解析
		{"nonsense", "", "", false},
		{"https://github.com//", "", "", false},
	}

	for _, tc := range cases {
		owner, repo, err := ParseRepositoryURL(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if !tc.ok {
			if err == nil {
				t.Fatalf("%s: expected error", tc.in)
			}
			continue
		}
		if tc.owner != "" && (owner != tc.owner || repo != tc.repo) {
			t.Fatalf("%s: got %s/%s", tc.in, owner, repo)
		}
	}
}

// fakeGitHub 模拟所需的 GitHub REST 端点
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	readme := base64.StdEncoding.EncodeToString([]byte("# Demo readme"))

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/demo", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"name":             "demo",
			"full_name":        "octocat/demo",
			"description":      "demo repository",
			"language":         "Go",
			"stargazers_count": 12,
			"forks_count":      3,
			"default_branch":   "master",
		})
	})
	// main 分支不存在，触发 master 回退
	mux.HandleFunc("/repos/octocat/demo/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/repos/octocat/demo/git/ref/heads/master", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"object": map[string]any{"sha": "abc123"},
		})
	})
	mux.HandleFunc("/repos/octocat/demo/git/trees/abc123", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("recursive") != "1" {
			t.Errorf("expected recursive=1, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tree": []map[string]any{
				{"path": "main.go", "type": "blob", "size": 100},
				{"path": "internal", "type": "tree"},
				{"path": "internal/app.go", "type": "blob", "size": 200},
			},
		})
	})
	mux.HandleFunc("/repos/octocat/demo/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content":  readme,
			"encoding": "base64",
		})
	})
	mux.HandleFunc("/repos/octocat/demo/contents/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/repos/octocat/demo/languages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int64{"Go": 5000})
	})
	mux.HandleFunc("/repos/octocat/demo/commits", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("per_page") != "50" {
			t.Errorf("expected per_page=50, got %q", r.URL.RawQuery)
		}
		var commits []map[string]any
		for i := 0; i < 15; i++ {
			commits = append(commits, map[string]any{
				"sha": "sha",
				"commit": map[string]any{
					"message": "commit message",
					"author":  map[string]any{"name": "octocat", "date": "2024-01-01T00:00:00Z"},
				},
			})
		}
		json.NewEncoder(w).Encode(commits)
	})
	mux.HandleFunc("/repos/octocat/demo/contributors", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"login": "octocat", "contributions": 42},
		})
	})

	return httptest.NewServer(mux)
}

func TestFetchRepository(t *testing.T) {
	server := fakeGitHub(t)
	defer server.Close()

	client := NewClient(server.URL, "test-token")
	data, err := client.FetchRepository(context.Background(), "octocat", "demo")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if data.Repository.FullName != "octocat/demo" {
		t.Fatalf("unexpected repo info: %+v", data.Repository)
	}
	if data.Readme != "# Demo readme" {
		t.Fatalf("unexpected readme: %q", data.Readme)
	}
	if data.Languages["Go"] != 5000 {
		t.Fatalf("unexpected languages: %v", data.Languages)
	}
	if data.Statistics.TotalFiles != 2 || data.Statistics.TotalDirs != 1 {
		t.Fatalf("unexpected statistics: %+v", data.Statistics)
	}
	if data.Statistics.TotalCommits != 15 {
		t.Fatalf("expected 15 commits counted, got %d", data.Statistics.TotalCommits)
	}
	// 结果中最多保留最近 10 条提交
	if len(data.Commits) != 10 {
		t.Fatalf("expected 10 recent commits, got %d", len(data.Commits))
	}
	if data.Commits[0].Author != "octocat" {
		t.Fatalf("unexpected commit author: %+v", data.Commits[0])
	}
	if len(data.Contributors) != 1 || data.Contributors[0].Login != "octocat" {
		t.Fatalf("unexpected contributors: %+v", data.Contributors)
	}
}

func TestGetRepositoryInfoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.GetRepositoryInfo(context.Background(), "octocat", "gone"); err == nil {
		t.Fatal("expected error for missing repository")
	}
}

func TestGetReadmeMissingReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	if got := client.GetReadme(context.Background(), "octocat", "demo"); got != "" {
		t.Fatalf("expected empty readme, got %q", got)
	}
}

func TestClientSendsAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"name": "demo"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	if _, err := client.GetRepositoryInfo(context.Background(), "octocat", "demo"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}
