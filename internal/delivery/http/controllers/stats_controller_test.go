package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"blitzweek/internal/domain"
)

type mockStatsService struct {
	overview *domain.StatsOverview
	live     *domain.LiveCount
	event    *domain.EventStats
	err      error
}

func (m *mockStatsService) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.overview, nil
}

func (m *mockStatsService) LiveCount(ctx context.Context) (*domain.LiveCount, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.live, nil
}

func (m *mockStatsService) EventStats(ctx context.Context, eventName string) (*domain.EventStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.event, nil
}

func TestStatsController_LiveCount(t *testing.T) {
	svc := &mockStatsService{live: &domain.LiveCount{Total: 12, Blitz: 6, Ignite: 4, Both: 2}}
	ctrl := NewStatsController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/live-count", nil)
	w := httptest.NewRecorder()

	ctrl.LiveCount(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp struct {
		Success bool             `json:"success"`
		Data    domain.LiveCount `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Success || resp.Data.Total != 12 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestStatsController_EventStats_UnknownEvent(t *testing.T) {
	svc := &mockStatsService{err: domain.ErrInvalidEvent}
	ctrl := NewStatsController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/event/Hackathon", nil)
	req.SetPathValue("eventName", "Hackathon")
	w := httptest.NewRecorder()

	ctrl.EventStats(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestStatsController_Overview(t *testing.T) {
	svc := &mockStatsService{overview: &domain.StatsOverview{Total: 3}}
	ctrl := NewStatsController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	ctrl.Overview(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
