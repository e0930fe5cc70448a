package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"spendy/internal/core"
	"spendy/internal/ingest"
	"spendy/internal/session"
	"spendy/internal/storage"
)

// personaView joins the persona category with its display metadata.
type personaView struct {
	Category core.Category `json:"category"`
	core.Persona
}

type resultResponse struct {
	HasPersona   bool                    `json:"hasPersona"`
	Persona      *personaView            `json:"persona,omitempty"`
	Totals       map[core.Category]int64 `json:"totals"`
	Transactions []core.Transaction      `json:"transactions"`
}

type ingestResponse struct {
	Added int `json:"added"`
	resultResponse
}

func toResultResponse(result session.Result) resultResponse {
	resp := resultResponse{
		HasPersona:   result.HasPersona(),
		Totals:       result.Totals,
		Transactions: result.Transactions,
	}
	if resp.Transactions == nil {
		resp.Transactions = []core.Transaction{}
	}
	if result.HasPersona() {
		resp.Persona = &personaView{
			Category: result.Persona,
			Persona:  core.MetadataFor(result.Persona),
		}
	}
	return resp
}

var errUnsupportedFormat = errors.New("unsupported file format: expected .csv, .txt, .ofx or .qfx")

func parseUpload(file multipart.File, filename string) ([]core.Transaction, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ingest.ReadCSV(file)
	case ".txt":
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		return ingest.ParseText(string(raw)), nil
	case ".ofx", ".qfx":
		return ingest.ReadOFX(file)
	default:
		return nil, errUnsupportedFormat
	}
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	txs, err := parseUpload(file, header.Filename)
	if err != nil {
		if errors.Is(err, errUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.WarnContext(r.Context(), "Failed to parse uploaded file",
			"filename", header.Filename,
			"error", err)
		writeError(w, http.StatusUnprocessableEntity, "file could not be parsed")
		return
	}

	added := s.session.Append(r.Context(), txs)
	writeJSON(w, http.StatusOK, ingestResponse{
		Added:          added,
		resultResponse: toResultResponse(s.session.Result()),
	})
}

func (s *Server) handleUploadText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUploadBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is empty")
		return
	}

	added := s.session.Append(r.Context(), ingest.ParseText(req.Text))
	writeJSON(w, http.StatusOK, ingestResponse{
		Added:          added,
		resultResponse: toResultResponse(s.session.Result()),
	})
}

func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	if s.vision == nil {
		writeError(w, http.StatusServiceUnavailable, "image analysis is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "missing images field")
		return
	}

	images := make([]ingest.Image, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable image upload")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable image upload")
			return
		}
		mimeType := h.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/png"
		}
		images = append(images, ingest.Image{Data: data, MimeType: mimeType})
	}

	txs, err := ingest.AnalyzeImages(r.Context(), s.vision, images)
	if err != nil {
		if errors.Is(err, ingest.ErrNotFinancial) {
			s.session.MarkInvalid(r.Context())
			writeJSON(w, http.StatusOK, struct {
				Valid bool `json:"valid"`
				resultResponse
			}{Valid: false, resultResponse: toResultResponse(s.session.Result())})
			return
		}
		slog.ErrorContext(r.Context(), "Image analysis failed", "error", err)
		writeError(w, http.StatusBadGateway, "image analysis failed")
		return
	}

	added := s.session.Append(r.Context(), txs)
	writeJSON(w, http.StatusOK, struct {
		Valid bool `json:"valid"`
		ingestResponse
	}{
		Valid: true,
		ingestResponse: ingestResponse{
			Added:          added,
			resultResponse: toResultResponse(s.session.Result()),
		},
	})
}

func (s *Server) handleUploadSheet(w http.ResponseWriter, r *http.Request) {
	if s.sheet == nil {
		writeError(w, http.StatusServiceUnavailable, "spreadsheet ingestion is not configured")
		return
	}

	txs, err := s.sheet.Fetch(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Spreadsheet fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "spreadsheet fetch failed")
		return
	}

	added := s.session.Append(r.Context(), txs)
	writeJSON(w, http.StatusOK, ingestResponse{
		Added:          added,
		resultResponse: toResultResponse(s.session.Result()),
	})
}

func (s *Server) handleResult(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toResultResponse(s.session.Result()))
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Finish(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrEmpty) {
			writeError(w, http.StatusConflict, "session has no data to archive")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to archive session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to archive session")
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.store.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list versions")
		return
	}
	if snaps == nil {
		snaps = []storage.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "version not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load version")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "version not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete version")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
