package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gitanalyzer/backend/internal/model"
	"k8s.io/klog/v2"
)

// resultFileStore 结果包文件存储
// 目录下每个已完成作业一个 <analysisID>.json
type resultFileStore struct {
	dir string
}

func NewResultFileStore(dir string) (ResultStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &resultFileStore{dir: dir}, nil
}

func (s *resultFileStore) path(analysisID string) string {
	return filepath.Join(s.dir, analysisID+".json")
}

func (s *resultFileStore) Save(results *model.AnalysisResults) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	path := s.path(results.AnalysisID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	klog.V(6).Infof("结果包已落盘: %s", path)
	return nil
}

func (s *resultFileStore) Load(analysisID string) (*model.AnalysisResults, error) {
	data, err := os.ReadFile(s.path(analysisID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var results model.AnalysisResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results file: %w", err)
	}
	return &results, nil
}

func (s *resultFileStore) Exists(analysisID string) bool {
	_, err := os.Stat(s.path(analysisID))
	return err == nil
}
