package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gitanalyzer/backend/internal/model"
)

func TestResultFileStoreRoundTrip(t *testing.T) {
	store, err := NewResultFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	results := &model.AnalysisResults{
		AnalysisID:    "r-1",
		RepositoryURL: "https://github.com/octocat/demo",
		AnalyzedAt:    time.Now().UTC().Truncate(time.Second),
		ScopeDocument: &model.ScopeDocument{
			ProjectOverview: "overview",
			Objectives:      []string{"o1"},
		},
	}

	if err := store.Save(results); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !store.Exists("r-1") {
		t.Fatal("saved results should exist")
	}

	loaded, err := store.Load("r-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.RepositoryURL != results.RepositoryURL {
		t.Fatalf("unexpected repository url: %s", loaded.RepositoryURL)
	}
	if loaded.ScopeDocument == nil || loaded.ScopeDocument.ProjectOverview != "overview" {
		t.Fatalf("unexpected scope document: %+v", loaded.ScopeDocument)
	}
	if loaded.UMLDiagrams != nil {
		t.Fatal("absent documents should stay nil")
	}
}

func TestResultFileStoreLoadMissing(t *testing.T) {
	store, err := NewResultFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	if _, err := store.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.Exists("missing") {
		t.Fatal("missing results should not exist")
	}
}

func TestResultFileStoreOneFilePerAnalysis(t *testing.T) {
	dir := t.TempDir()
	store, err := NewResultFileStore(dir)
	if err != nil {
		t.Fatalf("new store failed: %v", err)
	}

	for _, id := range []string{"a", "b"} {
		if err := store.Save(&model.AnalysisResults{AnalysisID: id}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 files, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json")); err != nil {
		t.Fatalf("expected a.json: %v", err)
	}
}
