package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/hoitkn/processqa/internal/logging"
	"github.com/hoitkn/processqa/internal/queue"
	"github.com/hoitkn/processqa/internal/refdata"
	"github.com/hoitkn/processqa/internal/remote"
	"github.com/hoitkn/processqa/internal/submission"
	"github.com/hoitkn/processqa/internal/syncer"
	"github.com/hoitkn/processqa/internal/translate"
)

// rangeResponse is a permitted [min, max] interval; null bounds mean the
// sheet left the cell blank.
type rangeResponse struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type employeeResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Site        string   `json:"site"`
	Group       string   `json:"group"`
	Role        string   `json:"role"`
	Active      bool     `json:"active"`
	Permissions []string `json:"permissions"`
}

// conditionResponse carries one noodle process condition in the shape the
// entry form consumes.
type conditionResponse struct {
	ProcessCode string `json:"maDKSX"`
	UnifiedName string `json:"unifiedName"`
	ProductName string `json:"productName"`
	Brand       string `json:"brand"`
	Site        string `json:"site"`
	Line        string `json:"line"`

	TempHead rangeResponse `json:"tempHead"`
	TempMid1 rangeResponse `json:"tempMid1"`
	TempMid2 rangeResponse `json:"tempMid2"`
	TempMid3 rangeResponse `json:"tempMid3"`
	TempTail rangeResponse `json:"tempTail"`

	Thickness     rangeResponse `json:"thicknessRange"`
	BrixKansui    rangeResponse `json:"brixKansui"`
	TempKansui    rangeResponse `json:"tempKansui"`
	BrixSeasoning rangeResponse `json:"brixSea"`
}

type riceConditionResponse struct {
	ProcessCode string `json:"maDKSX"`
	UnifiedName string `json:"unifiedName"`
	ProductName string `json:"productName"`
	Brand       string `json:"brand"`
	Site        string `json:"site"`
	Line        string `json:"line"`

	BaumeKansui         rangeResponse `json:"baumeKansui"`
	BaumeClearSolution  rangeResponse `json:"baumeDungDichTrong"`
	ThicknessAfterSteam rangeResponse `json:"doDaySauHap"`
	MoistureMax         *float64      `json:"doAmMax"`
}

func toRange(r refdata.Range) rangeResponse {
	return rangeResponse{Min: r.Min, Max: r.Max}
}

func toEmployee(e refdata.Employee) employeeResponse {
	return employeeResponse{
		ID:          e.EmployeeID,
		Name:        e.Name,
		Site:        e.Site,
		Group:       e.Group,
		Role:        e.Role,
		Active:      e.Active,
		Permissions: e.Permissions,
	}
}

func toCondition(c refdata.NoodleCondition) conditionResponse {
	return conditionResponse{
		ProcessCode: c.ProcessCode,
		UnifiedName: c.UnifiedName,
		ProductName: c.ProductName,
		Brand:       c.Brand,
		Site:        c.Site,
		Line:        c.Line,

		TempHead: toRange(c.TempHead),
		TempMid1: toRange(c.TempMid1),
		TempMid2: toRange(c.TempMid2),
		TempMid3: toRange(c.TempMid3),
		TempTail: toRange(c.TempTail),

		Thickness:     toRange(c.Thickness),
		BrixKansui:    toRange(c.BrixKansui),
		TempKansui:    toRange(c.TempKansui),
		BrixSeasoning: toRange(c.BrixSeasoning),
	}
}

func toRiceCondition(c refdata.RiceNoodleCondition) riceConditionResponse {
	return riceConditionResponse{
		ProcessCode: c.ProcessCode,
		UnifiedName: c.UnifiedName,
		ProductName: c.ProductName,
		Brand:       c.Brand,
		Site:        c.Site,
		Line:        c.Line,

		BaumeKansui:         toRange(c.BaumeKansui),
		BaumeClearSolution:  toRange(c.BaumeClearSolution),
		ThicknessAfterSteam: toRange(c.ThicknessAfterSteam),
		MoistureMax:         c.MoistureMax,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.store.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"generation": c.Generation(),
		"online":     s.engine.Online(),
	})
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sites": s.store.Current().Sites(),
	})
}

func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	employees := s.store.Current().EmployeesBySite(site)
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployee(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": out})
}

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	writeJSON(w, http.StatusOK, map[string]any{
		"lines": s.store.Current().LinesBySite(site),
	})
}

// handleConditions lists noodle conditions for ?site=, optionally narrowed
// by ?line=. No line means every line of the site.
func (s *Server) handleConditions(w http.ResponseWriter, r *http.Request) {
	site := r.URL.Query().Get("site")
	if site == "" {
		writeError(w, r, http.StatusBadRequest, "site query parameter is required")
		return
	}
	line := r.URL.Query().Get("line")

	conditions := s.store.Current().ConditionsByLineAndSite(site, line)
	out := make([]conditionResponse, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, toCondition(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"conditions": out})
}

// handleCondition resolves one process code to its permitted ranges. The
// noodle sheet is checked first, then the rice-noodle sheet.
func (s *Server) handleCondition(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	c := s.store.Current()

	if cond := c.ConditionByProcessCode(code); cond != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"type":      "noodle",
			"condition": toCondition(*cond),
		})
		return
	}
	if cond := c.RiceConditionByProcessCode(code); cond != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"type":      "riceNoodle",
			"condition": toRiceCondition(*cond),
		})
		return
	}
	writeError(w, r, http.StatusNotFound, "unknown process code")
}

// handleParameters lists every noodle condition in the parameter list's
// external shape, for consumers that mirror the catalog into the list
// service.
func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	c := s.store.Current()
	conditions := c.Conditions()
	if site := r.URL.Query().Get("site"); site != "" {
		conditions = c.ConditionsByLineAndSite(site, "")
	}
	out := make([]map[string]any, 0, len(conditions))
	for _, c := range conditions {
		out = append(out, map[string]any{
			"id":     translate.ParameterID(c),
			"fields": translate.ParameterFields(c),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"parameters": out})
}

// submitResponse reports what happened to a submission: committed remotely
// or saved to the offline queue.
type submitResponse struct {
	Status    syncer.Status `json:"status"`
	RemoteID  string        `json:"remoteId,omitempty"`
	ClientRef string        `json:"clientRef"`
	Message   string        `json:"message"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub submission.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid submission body")
		return
	}

	res, err := s.engine.Submit(r.Context(), sub)
	if err != nil {
		var verr *submission.ValidationError
		var rej *remote.RejectionError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "missing required fields",
				"missing": verr.Missing,
			})
		case errors.Is(err, remote.ErrNotAuthenticated):
			writeError(w, r, http.StatusUnauthorized, "not signed in to the remote store")
		case errors.Is(err, queue.ErrFull):
			writeError(w, r, http.StatusServiceUnavailable, "offline queue is full")
		case errors.As(err, &rej):
			writeError(w, r, http.StatusBadGateway, "remote store rejected the record: "+rej.Msg)
		default:
			writeError(w, r, http.StatusInternalServerError, "submission failed")
		}
		return
	}

	out := submitResponse{
		Status:    res.Status,
		RemoteID:  res.RemoteID,
		ClientRef: res.ClientRef,
	}
	status := http.StatusCreated
	switch res.Status {
	case syncer.StatusCommitted:
		out.Message = "record saved"
	case syncer.StatusQueued:
		out.Message = "saved offline, will sync when connection returns"
		status = http.StatusAccepted
	}
	writeJSON(w, status, out)
}

// handleSync triggers an immediate drain of the offline queue.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.Drain(r.Context())
	body := map[string]any{
		"sent":      res.Sent,
		"remaining": res.Remaining,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	n, err := s.queue.Len()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "queue unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": n,
		"online":  s.engine.Online(),
	})
}

func (s *Server) handleRecentRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 20
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	var records []remote.Record
	var err error
	filter := remote.RecentFilter{
		Site:     q.Get("site"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
		Limit:    limit,
	}
	switch {
	case filter.Site == "" && filter.DateFrom == "" && filter.DateTo == "":
		records, err = s.writer.FetchRecent(r.Context(), limit)
	default:
		filterer, ok := s.writer.(remote.RecentFilterer)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "this backend does not support filtered listings")
			return
		}
		records, err = filterer.FetchRecentFiltered(r.Context(), filter)
	}
	if err != nil {
		if remote.IsConnectivity(err) {
			writeError(w, r, http.StatusServiceUnavailable, "remote store unreachable")
			return
		}
		if errors.Is(err, remote.ErrNotAuthenticated) {
			writeError(w, r, http.StatusUnauthorized, "not signed in to the remote store")
			return
		}
		writeError(w, r, http.StatusBadGateway, "remote store error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// writeError writes a JSON error response. The message is also logged with
// the request ID so the entry correlates with the access log line.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.FromContext(r.Context()).Warn("request failed", "status", status, "error", message)
	writeJSON(w, status, map[string]string{"error": message})
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}
