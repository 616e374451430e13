package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"paretoseg/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	diagnostics map[string][]model.GenerationDiagnostics
	fronts      map[string][]model.FrontRecord
	skylines    map[string][]model.CandidateRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.diagnostics = make(map[string][]model.GenerationDiagnostics)
	s.fronts = make(map[string][]model.FrontRecord)
	s.skylines = make(map[string][]model.CandidateRecord)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) SaveGenerationDiagnostics(_ context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.diagnostics[runID] = slices.Clone(diagnostics)
	return nil
}

func (s *MemoryStore) GetGenerationDiagnostics(_ context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.diagnostics[runID]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(diagnostics), true, nil
}

func (s *MemoryStore) SaveFronts(_ context.Context, runID string, fronts []model.FrontRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	out := make([]model.FrontRecord, len(fronts))
	for i, f := range fronts {
		out[i] = model.FrontRecord{Rank: f.Rank, Members: slices.Clone(f.Members)}
	}
	s.fronts[runID] = out
	return nil
}

func (s *MemoryStore) GetFronts(_ context.Context, runID string) ([]model.FrontRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fronts, ok := s.fronts[runID]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(fronts), true, nil
}

func (s *MemoryStore) SaveSkyline(_ context.Context, runID string, skyline []model.CandidateRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.skylines[runID] = slices.Clone(skyline)
	return nil
}

func (s *MemoryStore) GetSkyline(_ context.Context, runID string) ([]model.CandidateRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skyline, ok := s.skylines[runID]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(skyline), true, nil
}
