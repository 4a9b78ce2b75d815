package httpx

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/ok", func(c *gin.Context) { OK(c, gin.H{"x": 1}, "") })
	r.GET("/boom", func(c *gin.Context) { Fail(c, http.StatusTeapot, "no coffee") })
	return r
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	newRouter().ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "rid-42" {
		t.Errorf("X-Request-ID=%q", got)
	}
}

func TestRequestID_MintsWhenAbsent(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("no X-Request-ID minted")
	}
}

func TestFail_CarriesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	newRouter().ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Fatalf("status=%d", w.Code)
	}
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("json: %v", err)
	}
	if env.Success || env.Error != "no coffee" || env.RequestID != "rid-42" {
		t.Fatalf("envelope=%+v", env)
	}
}

func TestOK_OmitsRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !env.Success || env.RequestID != "" {
		t.Fatalf("envelope=%+v", env)
	}
}
