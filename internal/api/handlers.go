package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/internal/validation"
)

// maxImportSize caps uploaded import files at 20 MiB.
const maxImportSize = 20 << 20

// --- Leads ---

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req model.NewLead
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		respondError(w, http.StatusBadRequest, "company_name is required")
		return
	}
	if strings.TrimSpace(req.ContactEmail) == "" {
		respondError(w, http.StatusBadRequest, "contact_email is required")
		return
	}

	lead, err := s.store.CreateLead(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	filter := store.LeadFilter{
		Status:   model.LeadStatus(r.URL.Query().Get("status")),
		Industry: r.URL.Query().Get("industry"),
		Limit:    queryInt(r, "limit", 0),
		Offset:   queryInt(r, "offset", 0),
	}
	if filter.Status != "" && !model.ValidLeadStatus(filter.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	leads, err := s.store.ListLeads(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	respondJSON(w, http.StatusOK, leads)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.store.GetLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			respondError(w, http.StatusNotFound, "lead not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteLead(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			respondError(w, http.StatusNotFound, "lead not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.LeadStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidLeadStatus(req.Status) {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	err := s.store.UpdateLeadStatus(r.Context(), chi.URLParam(r, "leadID"), req.Status)
	if err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			respondError(w, http.StatusNotFound, "lead not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(req.Status)})
}

func (s *Server) handleLeadInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.store.ListLeadInteractions(r.Context(), chi.URLParam(r, "leadID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if interactions == nil {
		interactions = []model.Interaction{}
	}
	respondJSON(w, http.StatusOK, interactions)
}

func (s *Server) handleQualify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Variant string `json:"variant"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	interaction, err := s.qualifier.Qualify(r.Context(), chi.URLParam(r, "leadID"), req.Variant)
	if err != nil {
		if errors.Is(err, store.ErrLeadNotFound) {
			respondError(w, http.StatusNotFound, "lead not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, interaction)
}

// handleImport accepts either a multipart upload (field "file"; .xlsx is
// parsed as a workbook, anything else as CSV) or a JSON body naming an
// ftp:// source.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var req struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			respondError(w, http.StatusBadRequest, "url is required")
			return
		}
		result, err := s.importer.ImportFTP(r.Context(), req.URL)
		if err != nil {
			respondError(w, http.StatusBadGateway, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, result)
		return
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, http.StatusBadRequest, "expected multipart upload or json body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close() //nolint:errcheck

	if strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
		if err != nil {
			respondError(w, http.StatusBadRequest, "could not read upload")
			return
		}
		result, err := s.importer.ImportXLSX(r.Context(), data)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, result)
		return
	}

	result, err := s.importer.ImportCSV(r.Context(), file)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// --- Campaigns ---

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name"`
		PromptVariant string `json:"prompt_variant"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PromptVariant == "" {
		req.PromptVariant = "A"
	}

	campaign, err := s.store.CreateCampaign(r.Context(), req.Name, req.PromptVariant)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, campaign)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.store.ListCampaigns(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	respondJSON(w, http.StatusOK, campaigns)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := s.store.GetCampaign(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		if errors.Is(err, store.ErrCampaignNotFound) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, campaign)
}

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.CampaignStats(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRunCampaign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadIDs []string `json:"lead_ids"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	report, err := s.runner.Run(r.Context(), chi.URLParam(r, "campaignID"), req.LeadIDs)
	if err != nil {
		if errors.Is(err, store.ErrCampaignNotFound) {
			respondError(w, http.StatusNotFound, "campaign not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// --- Interactions / validation ---

func (s *Server) handleRecentInteractions(w http.ResponseWriter, r *http.Request) {
	interactions, err := s.store.ListRecentInteractions(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if interactions == nil {
		interactions = []model.InteractionSummary{}
	}
	respondJSON(w, http.StatusOK, interactions)
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	leads, err := s.store.ListLeads(r.Context(), store.LeadFilter{Limit: 10000})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, validation.Run(leads))
}

// --- Analytics ---

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.DashboardMetrics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleDailyPerformance(w http.ResponseWriter, r *http.Request) {
	days, err := s.store.DailyPerformance(r.Context(), queryInt(r, "days", 30))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if days == nil {
		days = []model.DailyPerformance{}
	}
	respondJSON(w, http.StatusOK, days)
}

func (s *Server) handleVariantComparison(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.VariantComparison(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats == nil {
		stats = []model.VariantStats{}
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := s.store.Funnel(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, funnel)
}

func (s *Server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	var (
		rows []model.CohortRow
		err  error
	)
	switch by := r.URL.Query().Get("by"); by {
	case "", "industry":
		rows, err = s.store.CohortsByIndustry(r.Context())
	case "size":
		rows, err = s.store.CohortsBySize(r.Context())
	default:
		respondError(w, http.StatusBadRequest, "by must be industry or size")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []model.CohortRow{}
	}
	respondJSON(w, http.StatusOK, rows)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
