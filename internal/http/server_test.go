package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"spendy/internal/core"
	"spendy/internal/genai"
	"spendy/internal/session"
	"spendy/internal/storage"
)

type stubVision struct {
	analysis genai.VisionAnalysis
	err      error
}

func (v *stubVision) AnalyzeTransactionImage(_ context.Context, _ []byte, _ string) (genai.VisionAnalysis, error) {
	if v.err != nil {
		return genai.VisionAnalysis{}, v.err
	}
	return v.analysis, nil
}

func (v *stubVision) GenerateIcon(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	store := storage.NewMemoryStore()
	sess := session.New(store, nil)
	srv := NewServer(":0", sess, store, opts)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func multipartFile(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadCSVFile(t *testing.T) {
	srv := newTestServer(t, Options{})

	csv := "Item,Category,Total Spent\n" +
		"스타벅스 아메리카노,알 수 없음,4500\n" +
		"CGV 영화,알 수 없음,15000\n"
	body, contentType := multipartFile(t, "file", "records.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[ingestResponse](t, rec)
	if resp.Added != 2 {
		t.Errorf("added = %d, want 2", resp.Added)
	}
	if !resp.HasPersona || resp.Persona == nil {
		t.Fatalf("expected persona in response: %+v", resp)
	}
	if resp.Persona.Category != core.CategoryCulture {
		t.Errorf("persona = %v, want %v", resp.Persona.Category, core.CategoryCulture)
	}
	if resp.Persona.Name == "" {
		t.Error("persona metadata should carry a display name")
	}
	if resp.Totals[core.CategoryFood] != 4500 {
		t.Errorf("food total = %d, want 4500", resp.Totals[core.CategoryFood])
	}
}

func TestUploadFileUnsupportedExtension(t *testing.T) {
	srv := newTestServer(t, Options{})

	body, contentType := multipartFile(t, "file", "records.xlsx", "not really a spreadsheet")
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadFileMissingField(t *testing.T) {
	srv := newTestServer(t, Options{})

	body, contentType := multipartFile(t, "other", "records.csv", "Item,Category,Total Spent\n")
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadText(t *testing.T) {
	srv := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/text",
		strings.NewReader(`{"text": "스타벅스 아메리카노 4500\n월세 500000"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := doRequest(srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[ingestResponse](t, rec)
	if resp.Added != 2 {
		t.Errorf("added = %d, want 2", resp.Added)
	}
	if resp.Persona == nil || resp.Persona.Category != core.CategoryHousing {
		t.Errorf("persona = %+v, want %v", resp.Persona, core.CategoryHousing)
	}
}

func TestUploadTextEmptyBody(t *testing.T) {
	srv := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/text",
		strings.NewReader(`{"text": "  "}`))
	rec := doRequest(srv, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestResultEmptySession(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/result", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	resp := decodeBody[resultResponse](t, rec)
	if resp.HasPersona {
		t.Error("empty session should have no persona")
	}
	if resp.Persona != nil {
		t.Errorf("persona = %+v, want nil", resp.Persona)
	}
	if len(resp.Transactions) != 0 {
		t.Errorf("transactions = %+v, want empty", resp.Transactions)
	}
}

func TestFinishAndVersionLifecycle(t *testing.T) {
	srv := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/transactions/text",
		strings.NewReader(`{"text": "점심 9000"}`))
	if rec := doRequest(srv, req); rec.Code != http.StatusOK {
		t.Fatalf("seed upload status = %d", rec.Code)
	}

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/session/finish", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("finish status = %d, body %s", rec.Code, rec.Body.String())
	}
	snap := decodeBody[storage.Snapshot](t, rec)
	if snap.ID == "" {
		t.Fatal("snapshot id should be set")
	}
	if snap.Persona != core.CategoryFood {
		t.Errorf("snapshot persona = %v, want %v", snap.Persona, core.CategoryFood)
	}

	// Session resets after finishing
	resultRec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/result", nil))
	if resp := decodeBody[resultResponse](t, resultRec); resp.HasPersona {
		t.Error("session should be reset after finish")
	}

	listRec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/versions", nil))
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status = %d", listRec.Code)
	}
	snaps := decodeBody[[]storage.Snapshot](t, listRec)
	if len(snaps) != 1 || snaps[0].ID != snap.ID {
		t.Fatalf("versions = %+v, want one with id %s", snaps, snap.ID)
	}

	getRec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/versions/"+snap.ID, nil))
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status = %d", getRec.Code)
	}

	delRec := doRequest(srv, httptest.NewRequest(http.MethodDelete, "/api/versions/"+snap.ID, nil))
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", delRec.Code)
	}

	missingRec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/versions/"+snap.ID, nil))
	if missingRec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", missingRec.Code)
	}
}

func TestFinishEmptySession(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/session/finish", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestDeleteUnknownVersion(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodDelete, "/api/versions/12345", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func multipartImage(t *testing.T, data []byte, mimeType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="images"; filename="receipt.png"`)
	header.Set("Content-Type", mimeType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadImages(t *testing.T) {
	vision := &stubVision{analysis: genai.VisionAnalysis{
		IsFinancial: true,
		Transactions: []genai.ExtractedTransaction{
			{Item: "스타벅스 라떼", Amount: 5500, Category: "식비"},
		},
	}}
	srv := newTestServer(t, Options{Vision: vision})

	body, contentType := multipartImage(t, []byte("fake-png"), "image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[struct {
		Valid bool `json:"valid"`
		ingestResponse
	}](t, rec)
	if !resp.Valid {
		t.Error("valid = false, want true")
	}
	if resp.Added != 1 {
		t.Errorf("added = %d, want 1", resp.Added)
	}
	if resp.Persona == nil || resp.Persona.Category != core.CategoryFood {
		t.Errorf("persona = %+v, want %v", resp.Persona, core.CategoryFood)
	}
}

func TestUploadImagesNonFinancial(t *testing.T) {
	vision := &stubVision{analysis: genai.VisionAnalysis{IsFinancial: false}}
	srv := newTestServer(t, Options{Vision: vision})

	body, contentType := multipartImage(t, []byte("cat-photo"), "image/jpeg")
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[struct {
		Valid bool `json:"valid"`
		resultResponse
	}](t, rec)
	if resp.Valid {
		t.Error("valid = true, want false")
	}
	if resp.Persona == nil || resp.Persona.Category != core.CategoryInvalid {
		t.Errorf("persona = %+v, want invalid sentinel", resp.Persona)
	}
	if resp.Totals[core.CategoryUnknown] != 1 {
		t.Errorf("totals = %+v, want single placeholder under unknown", resp.Totals)
	}
}

func TestUploadImagesNotConfigured(t *testing.T) {
	srv := newTestServer(t, Options{})

	body, contentType := multipartImage(t, []byte("x"), "image/png")
	req := httptest.NewRequest(http.MethodPost, "/api/transactions/images", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(srv, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

type stubSheet struct {
	txs []core.Transaction
	err error
}

func (s *stubSheet) Fetch(_ context.Context) ([]core.Transaction, error) {
	return s.txs, s.err
}

func TestUploadSheet(t *testing.T) {
	sheet := &stubSheet{txs: []core.Transaction{
		{Description: "버스 요금", Amount: 1500, Hint: string(core.CategoryUnknown)},
	}}
	srv := newTestServer(t, Options{Sheet: sheet})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/transactions/sheet", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeBody[ingestResponse](t, rec)
	if resp.Added != 1 {
		t.Errorf("added = %d, want 1", resp.Added)
	}
	if resp.Persona == nil || resp.Persona.Category != core.CategoryTransport {
		t.Errorf("persona = %+v, want %v", resp.Persona, core.CategoryTransport)
	}
}

func TestUploadSheetNotConfigured(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/transactions/sheet", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}
