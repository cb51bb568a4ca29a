package server

import "net/http"

// handleCompanies serves GET /api/companies: all companies sorted by name.
func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	companies, err := s.fleet.Companies(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("list companies failed")
		http.Error(w, "failed to list companies", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, companies)
}
