package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpatel9/examforge/internal/gitstore"
	"github.com/rpatel9/examforge/internal/quiz"
	"github.com/rpatel9/examforge/internal/report"
)

// handleListPapers lists all stored papers.
func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	files, err := s.orchestrator.Store().List(r.Context())
	if err != nil {
		jsonError(w, "failed to list papers: "+err.Error(), http.StatusInternalServerError)
		return
	}

	papers := make([]map[string]any, 0, len(files))
	for _, f := range files {
		papers = append(papers, map[string]any{
			"paper_id": strings.TrimSuffix(f.Name, ".json"),
			"size":     f.Size,
			"revision": f.SHA,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"papers": papers})
}

// handleGetPaper returns one stored paper as JSON.
func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	if !validPaperID(paperID) {
		jsonError(w, "invalid paper id", http.StatusBadRequest)
		return
	}

	paper, revision, err := s.loadPaper(r, paperID)
	if err != nil {
		s.paperError(w, paperID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"paper_id":  paperID,
		"revision":  revision,
		"questions": paper.Questions,
		"metadata":  paper.Metadata,
	})
}

// handleDeletePaper removes a paper from the store.
func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	if !validPaperID(paperID) {
		jsonError(w, "invalid paper id", http.StatusBadRequest)
		return
	}

	name := paperID + ".json"
	message := fmt.Sprintf("Delete paper %s", paperID)
	if err := s.orchestrator.Store().Delete(r.Context(), name, message); err != nil {
		s.paperError(w, paperID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"paper_id": paperID, "deleted": true})
}

type scoreRequest struct {
	Selections   map[string]string `json:"selections"`
	WrongPenalty *float64          `json:"wrong_penalty,omitempty"`
}

// handleScorePaper scores a set of selected options against a paper.
func (s *Server) handleScorePaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	if !validPaperID(paperID) {
		jsonError(w, "invalid paper id", http.StatusBadRequest)
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	selections := make(map[int]string, len(req.Selections))
	for k, v := range req.Selections {
		id, err := strconv.Atoi(k)
		if err != nil || id < 1 {
			jsonError(w, fmt.Sprintf("invalid question id %q", k), http.StatusBadRequest)
			return
		}
		selections[id] = v
	}

	paper, _, err := s.loadPaper(r, paperID)
	if err != nil {
		s.paperError(w, paperID, err)
		return
	}

	penalty := s.cfg.WrongPenalty
	if req.WrongPenalty != nil && *req.WrongPenalty >= 0 {
		penalty = *req.WrongPenalty
	}

	result := quiz.ScorePaper(paper, selections, quiz.ScoreConfig{WrongPenalty: penalty})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"paper_id": paperID,
		"score":    result,
	})
}

// handleExportPaper streams the paper as an Excel workbook.
func (s *Server) handleExportPaper(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	if !validPaperID(paperID) {
		jsonError(w, "invalid paper id", http.StatusBadRequest)
		return
	}

	paper, _, err := s.loadPaper(r, paperID)
	if err != nil {
		s.paperError(w, paperID, err)
		return
	}

	data, err := report.PaperExcel(paper)
	if err != nil {
		jsonError(w, "failed to build workbook: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", paperID+".xlsx"))
	w.Write(data)
}

// loadPaper fetches and decodes one paper, returning its store revision.
func (s *Server) loadPaper(r *http.Request, paperID string) (*quiz.Paper, string, error) {
	f, err := s.orchestrator.Store().Get(r.Context(), paperID+".json")
	if err != nil {
		return nil, "", err
	}
	paper, err := quiz.DecodePaper(f.Content)
	if err != nil {
		return nil, "", fmt.Errorf("decode paper %s: %w", paperID, err)
	}
	return paper, f.SHA, nil
}

func (s *Server) paperError(w http.ResponseWriter, paperID string, err error) {
	if errors.Is(err, gitstore.ErrNotFound) {
		jsonError(w, fmt.Sprintf("paper %s not found", paperID), http.StatusNotFound)
		return
	}
	jsonError(w, err.Error(), http.StatusInternalServerError)
}

// validPaperID rejects ids that could escape the store directory.
func validPaperID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
