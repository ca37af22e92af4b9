package http

import (
	"net/http"

	applog "giftguardian/internal/log"
)

// handleDashboard renders the upcoming birthdays and occasions together with
// the most recently added gifts.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard.Load(r.Context(), s.now())
	if err != nil {
		s.fail(w, r, err, applog.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard_page", "Dashboard", "dashboard", d)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	year := ParseStatsYear(r.URL.Query())
	report, err := s.stats.Spending(r.Context(), year, s.now())
	if err != nil {
		s.fail(w, r, err, applog.OpRead)
		return
	}
	s.render(w, r, http.StatusOK, "stats_page", "Spending", "stats", report)
}
