package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLivezURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5000/livez", livezURL(""))
	assert.Equal(t, "http://localhost:8080/livez", livezURL("8080"))
}

func TestProbe(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	assert.Equal(t, 0, probe(healthy.URL+"/livez"))

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()
	assert.Equal(t, 1, probe(failing.URL+"/livez"))

	assert.Equal(t, 1, probe("http://127.0.0.1:1/livez"))
}
