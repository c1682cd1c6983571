// Package httpapi exposes the comparison pipeline and its supporting stores
// over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Zenyi1/ContractLens/internal/compare"
	"github.com/Zenyi1/ContractLens/internal/render"
	"github.com/Zenyi1/ContractLens/internal/store"
)

// maxUploadBytes bounds the combined size of the two uploaded PDFs.
const maxUploadBytes = 32 << 20

type ComparePipeline interface {
	Compare(ctx context.Context, req compare.Request) (compare.Result, error)
}

type ReportRenderer interface {
	Render(ctx context.Context, report render.Report) ([]byte, error)
}

type Server struct {
	pipeline ComparePipeline
	store    *store.SQLiteStore
	renderer ReportRenderer
}

func NewServer(pipeline ComparePipeline, st *store.SQLiteStore, renderer ReportRenderer) http.Handler {
	s := &Server{pipeline: pipeline, store: st, renderer: renderer}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/compare", s.handleCompare)
	mux.HandleFunc("/v1/analyses", s.handleListAnalyses)
	mux.HandleFunc("/v1/analyses/", s.handleAnalysis)
	mux.HandleFunc("/v1/companies", s.handleCompanies)
	mux.HandleFunc("/v1/companies/", s.handleCompany)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, 400, "invalid multipart form")
		return
	}

	sellerPDF, sellerName, err := readUpload(r, "seller_tc")
	if err != nil {
		writeError(w, 400, "seller_tc file is required")
		return
	}
	buyerPDF, buyerName, err := readUpload(r, "buyer_tc")
	if err != nil {
		writeError(w, 400, "buyer_tc file is required")
		return
	}

	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	companyID := strings.TrimSpace(r.FormValue("company_id"))

	// A missing or unknown company degrades to a priority-free run; the
	// comparison itself does not depend on profile data.
	var companyName string
	var priorities []compare.CompanyPriority
	if companyID != "" {
		company, err := s.store.GetCompany(r.Context(), companyID)
		if err != nil {
			log.Printf("compare: company %s lookup failed: %v", companyID, err)
		} else {
			companyName = company.Name
			stored, err := s.store.ListPriorities(r.Context(), companyID)
			if err != nil {
				log.Printf("compare: priorities for %s: %v", companyID, err)
			}
			for _, p := range stored {
				priorities = append(priorities, compare.CompanyPriority{Name: p.Name, Description: p.Description})
			}
		}
	}

	result, err := s.pipeline.Compare(r.Context(), compare.Request{
		SellerPDF:      sellerPDF,
		BuyerPDF:       buyerPDF,
		SellerFilename: sellerName,
		BuyerFilename:  buyerName,
		CompanyName:    companyName,
		Priorities:     priorities,
	})
	if err != nil {
		status, msg := compareErrorStatus(err)
		log.Printf("compare failed stage=%s: %v", compare.StageNameFromError(err), err)
		writeError(w, status, msg)
		return
	}

	analysis, err := s.store.CreateAnalysis(r.Context(), store.Analysis{
		UserID:         userID,
		CompanyName:    companyName,
		SellerFilename: sellerName,
		BuyerFilename:  buyerName,
		Summary:        result.Summary,
		DroppedChunks:  result.DroppedBuyerChunks + result.DroppedSellerChunks,
	})
	if err != nil {
		// History is best effort; the caller still gets their summary.
		log.Printf("compare: persist analysis: %v", err)
	}

	writeJSON(w, 200, map[string]any{
		"analysis_id":           analysis.AnalysisID,
		"summary":               result.Summary,
		"diff":                  result.Diff,
		"dropped_buyer_chunks":  result.DroppedBuyerChunks,
		"dropped_seller_chunks": result.DroppedSellerChunks,
		"llm_calls":             result.TotalLLMCalls,
	})
}

func compareErrorStatus(err error) (int, string) {
	var ee *compare.ExtractionError
	var te *compare.TransformationError
	switch {
	case errors.As(err, &ee):
		return 422, fmt.Sprintf("could not extract text from %s", ee.Filename)
	case errors.As(err, &te):
		return 502, "clause analysis failed after retries"
	case errors.Is(err, context.DeadlineExceeded):
		return 504, "comparison timed out"
	default:
		return 500, "comparison failed"
	}
}

func readUpload(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		writeError(w, 400, "X-User-ID header is required")
		return
	}
	analyses, err := s.store.ListAnalysesByUser(r.Context(), userID, 0)
	if err != nil {
		log.Printf("list analyses: %v", err)
		writeError(w, 500, "failed to list analyses")
		return
	}
	if analyses == nil {
		analyses = []store.Analysis{}
	}
	writeJSON(w, 200, map[string]any{"analyses": analyses})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// Path: /v1/analyses/{id} or /v1/analyses/{id}/pdf
	path := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	id, rest, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, 400, "analysis id is required")
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, 404, "analysis not found")
		return
	}
	if err != nil {
		log.Printf("get analysis %s: %v", id, err)
		writeError(w, 500, "failed to load analysis")
		return
	}

	switch rest {
	case "":
		writeJSON(w, 200, analysis)
	case "pdf":
		s.serveAnalysisPDF(w, r, analysis)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) serveAnalysisPDF(w http.ResponseWriter, r *http.Request, analysis store.Analysis) {
	if s.renderer == nil {
		writeError(w, 503, "pdf renderer unavailable")
		return
	}
	pdf, err := s.renderer.Render(r.Context(), render.Report{
		CompanyName:    analysis.CompanyName,
		SellerFilename: analysis.SellerFilename,
		BuyerFilename:  analysis.BuyerFilename,
		Summary:        analysis.Summary,
		CreatedAt:      analysis.CreatedAt,
	})
	if err != nil {
		log.Printf("render analysis pdf %s: %v", analysis.AnalysisID, err)
		writeError(w, 500, "failed to render pdf")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analysis-"+analysis.AnalysisID+".pdf"))
	w.WriteHeader(200)
	_, _ = w.Write(pdf)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		companies, err := s.store.ListCompanies(r.Context())
		if err != nil {
			log.Printf("list companies: %v", err)
			writeError(w, 500, "failed to list companies")
			return
		}
		if companies == nil {
			companies = []store.CompanyProfile{}
		}
		writeJSON(w, 200, map[string]any{"companies": companies})
	case http.MethodPost:
		var c store.CompanyProfile
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, 400, "invalid request body")
			return
		}
		c.ID = ""
		created, err := s.store.CreateCompany(r.Context(), c)
		if err != nil {
			writeError(w, 400, err.Error())
			return
		}
		writeJSON(w, 201, created)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	// Path: /v1/companies/{id} or /v1/companies/{id}/priorities
	path := strings.TrimPrefix(r.URL.Path, "/v1/companies/")
	id, rest, _ := strings.Cut(path, "/")
	if id == "" {
		writeError(w, 400, "company id is required")
		return
	}
	if rest == "priorities" {
		s.handleCompanyPriorities(w, r, id)
		return
	}
	if rest != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		c, err := s.store.GetCompany(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, 404, "company not found")
			return
		}
		if err != nil {
			log.Printf("get company %s: %v", id, err)
			writeError(w, 500, "failed to load company")
			return
		}
		writeJSON(w, 200, c)
	case http.MethodPut:
		var c store.CompanyProfile
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeError(w, 400, "invalid request body")
			return
		}
		c.ID = id
		updated, err := s.store.UpdateCompany(r.Context(), c)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, 404, "company not found")
			return
		}
		if err != nil {
			log.Printf("update company %s: %v", id, err)
			writeError(w, 500, "failed to update company")
			return
		}
		writeJSON(w, 200, updated)
	case http.MethodDelete:
		err := s.store.DeleteCompany(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, 404, "company not found")
			return
		}
		if err != nil {
			log.Printf("delete company %s: %v", id, err)
			writeError(w, 500, "failed to delete company")
			return
		}
		writeJSON(w, 200, map[string]any{"deleted": id})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCompanyPriorities(w http.ResponseWriter, r *http.Request, companyID string) {
	switch r.Method {
	case http.MethodGet:
		priorities, err := s.store.ListPriorities(r.Context(), companyID)
		if err != nil {
			log.Printf("list priorities %s: %v", companyID, err)
			writeError(w, 500, "failed to list priorities")
			return
		}
		if priorities == nil {
			priorities = []store.CompanyPriority{}
		}
		writeJSON(w, 200, map[string]any{"priorities": priorities})
	case http.MethodPut:
		var body struct {
			Priorities []store.CompanyPriority `json:"priorities"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, 400, "invalid request body")
			return
		}
		err := s.store.ReplacePriorities(r.Context(), companyID, body.Priorities)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, 404, "company not found")
			return
		}
		if err != nil {
			log.Printf("replace priorities %s: %v", companyID, err)
			writeError(w, 500, "failed to replace priorities")
			return
		}
		writeJSON(w, 200, map[string]any{"priorities": body.Priorities})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
