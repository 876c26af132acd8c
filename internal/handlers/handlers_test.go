package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUserID int64 = 1

// newTestHandlers builds a Handlers over a mocked database.
func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Handlers{DB: db}, mock
}

// asUser stubs the auth middleware: every request runs as testUserID.
func asUser(handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", testUserID)
		c.Set("userRole", "client")
		handler(c)
	}
}

// doJSON drives one request through a throwaway router and decodes the
// response envelope.
func doJSON(t *testing.T, method, path string, body interface{}, register func(*gin.Engine)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	router := gin.New()
	register(router)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func dataField(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "data field missing or not an object")
	return data
}

func TestRespondEnvelopeShape(t *testing.T) {
	w, envelope := doJSON(t, http.MethodGet, "/ok", nil, func(r *gin.Engine) {
		r.GET("/ok", func(c *gin.Context) {
			respondOK(c, http.StatusOK, "fine", gin.H{"x": 1})
		})
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, envelope["success"])
	require.Equal(t, "fine", envelope["message"])

	w, envelope = doJSON(t, http.MethodGet, "/bad", nil, func(r *gin.Engine) {
		r.GET("/bad", func(c *gin.Context) {
			respondError(c, http.StatusBadRequest, "nope")
		})
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, false, envelope["success"])
	require.Equal(t, "nope", envelope["error"])
}
