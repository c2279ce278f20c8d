// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"net/http"
	"time"

	"github.com/MajorAbdullah/ai-research-platform/internal/portfolio"
)

// Dashboard analytics are computed on demand from the results cache.
// The cache is warmed from storage at startup, so overview numbers
// cover completed research from earlier runs too.

func (s *Server) handleDashboardOverview(w http.ResponseWriter, r *http.Request) {
	ideas := portfolio.Ideas(s.results.List())
	s.writeJSON(w, http.StatusOK, portfolio.ComputeOverview(ideas, time.Now().UTC()))
}

func (s *Server) handleDashboardIdeas(w http.ResponseWriter, r *http.Request) {
	ideas := portfolio.Ideas(s.results.List())
	s.writeJSON(w, http.StatusOK, map[string]any{"ideas": ideas})
}
