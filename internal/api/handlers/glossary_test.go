package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glossaryRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewGlossaryHandler()
	router.GET("/glossary", handler.GetGlossary)
	router.GET("/glossary/:term", handler.GetGlossaryTerm)
	return router
}

func getGlossary(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	glossaryRouter().ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// TestGetGlossary tests the full listing and the category filter
func TestGetGlossary(t *testing.T) {
	w, response := getGlossary(t, "/glossary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, response["success"].(bool))
	assert.Len(t, response["data"].([]interface{}), len(glossaryTerms))

	w, response = getGlossary(t, "/glossary?category=strategy")
	require.Equal(t, http.StatusOK, w.Code)
	for _, raw := range response["data"].([]interface{}) {
		term := raw.(map[string]interface{})
		assert.Equal(t, "strategy", term["category"])
	}

	w, _ = getGlossary(t, "/glossary?category=trivia")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetGlossaryTerm tests case-insensitive term lookup
func TestGetGlossaryTerm(t *testing.T) {
	w, response := getGlossary(t, "/glossary/vorp")
	require.Equal(t, http.StatusOK, w.Code)

	term := response["data"].(map[string]interface{})
	assert.Equal(t, "VORP", term["term"])
	assert.Equal(t, "scoring", term["category"])

	w, _ = getGlossary(t, "/glossary/quantum")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
