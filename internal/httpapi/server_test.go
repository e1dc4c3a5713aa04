package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityasingh03rajput/dermy-buddy/knowledge"
	"github.com/adityasingh03rajput/dermy-buddy/triage"
)

type stubDetector struct{}

func (stubDetector) Detect(context.Context, image.Image) ([]triage.Detection, error) {
	return []triage.Detection{{Label: "arm", Confidence: 0.9}}, nil
}

type stubClassifier struct{}

func (stubClassifier) Classify(context.Context, image.Image) triage.Classification {
	return triage.Classification{Label: "Eczema", Confidence: 88.5}
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, image.Image) ([]float32, error) {
	return []float32{1, 0}, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := knowledge.NewStore(knowledge.DefaultDocument())
	require.NoError(t, err)
	engine := knowledge.NewEngine(store, nil, nil)

	index := triage.NewReferenceIndex([]triage.ReferenceEntry{
		{ID: "ref-1", Vector: []float32{1, 0}},
	}, 0.9)
	pipeline, err := triage.NewPipeline(stubDetector{}, stubClassifier{}, stubEmbedder{}, index, nil, engine, nil)
	require.NoError(t, err)

	return NewServer(pipeline, engine, nil).Router()
}

func TestHealthz(t *testing.T) {
	router := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDiagnoseEndpoint(t *testing.T) {
	router := testRouter(t)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 90, A: 255})
		}
	}
	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	part, err := writer.CreateFormFile("image", "skin.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", &payload)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result triage.DiagnosisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "arm", result.BodyPart)
	assert.Equal(t, "Eczema", result.Classification.Label)
	assert.Equal(t, triage.TierRoutine, result.Tier)
	assert.True(t, result.Similarity.Matched)
	assert.NotEmpty(t, result.ConditionInfo)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestDiagnoseEndpointRejectsMissingFile(t *testing.T) {
	router := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiagnoseEndpointRejectsGarbageImage(t *testing.T) {
	router := testRouter(t)

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	part, err := writer.CreateFormFile("image", "junk.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte("not an image at all"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", &payload)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	router := testRouter(t)
	w := httptest.NewRecorder()
	body := strings.NewReader(`{"message": "tell me about eczema"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["reply"], "**Eczema**")
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	router := testRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConditionEndpoint(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conditions/psoriasis", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Psoriasis")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/conditions/unknown-thing", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
