package http

import (
	"bytes"
	"fmt"
	"net/http"

	"dompet/internal/export"
	"dompet/internal/filter"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"transactions":        s.svc.State().Ledger.Len(),
		"suspicious_requests": s.detector.Suspicious(),
	})
}

func (s *Server) criteria(w http.ResponseWriter, r *http.Request) (filter.Criteria, bool) {
	c, err := parseCriteria(r.URL.Query(), s.svc.State().View())
	if err != nil {
		writeError(w, r, err)
		return filter.Criteria{}, false
	}
	return c, true
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := parseTransactionInput(NewRequestBodyParser(w, r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	records, err := s.svc.Record(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"transactions": records})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"criteria":     c,
		"transactions": s.svc.History(c),
	})
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"balances": s.svc.Balances().Ordered()})
}

func (s *Server) handlePockets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Pockets())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Dashboard(c))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.svc.Categories()})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	list, err := s.svc.RegisterCategory(r.Context(), p.Get("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"categories": list})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"years": s.svc.Years()})
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.State().View())
}

// handleSetView stores the selection used when a request omits month, year or mode.
func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	view := s.svc.State().View()
	c, err := filter.Parse(orDefault(p.Get("month"), monthValue(view.Month)),
		orDefault(p.Get("year"), yearValue(view.Year)),
		orDefault(p.Get("mode"), string(view.Mode)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.svc.State().SetView(c)
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := s.svc.ExportCSV(&buf)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Report(c))
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	c, ok := s.criteria(w, r)
	if !ok {
		return
	}
	report := s.svc.Report(c)

	var buf bytes.Buffer
	if err := export.WriteReportXLSX(&buf, report); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ReportXLSXFilename(report)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func monthValue(m int) string {
	if m == 0 {
		return filter.All
	}
	return fmt.Sprint(m)
}

func yearValue(y int) string {
	if y == 0 {
		return filter.All
	}
	return fmt.Sprint(y)
}
