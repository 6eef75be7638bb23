package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteTable(t *testing.T) {
	e := newServer()

	registered := map[string]bool{}
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		http.MethodPost + " /signup",
		http.MethodPost + " /login",
		http.MethodPost + " /auth/password/request",
		http.MethodPost + " /auth/password/reset",
		http.MethodGet + " /services",
		http.MethodPost + " /hire-requests",
		http.MethodPost + " /hire-requests/:id/accept",
		http.MethodPatch + " /orders/:id/status",
		http.MethodPost + " /orders/:id/pay",
		http.MethodGet + " /contracts",
		http.MethodGet + " /transactions",
		http.MethodPost + " /verification/id-card",
		http.MethodPost + " /orders/:id/review",
		http.MethodGet + " /threads",
		http.MethodGet + " /notifications",
		http.MethodPost + " /admin/contracts/:id/release",
		http.MethodPatch + " /admin/services/:id/top_selection",
		http.MethodGet + " /admin/verification/pending",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}

	// renamed/retired paths must not creep back in
	assert.False(t, registered[http.MethodPost+" /auth/password/request_reset"])
	assert.False(t, registered[http.MethodPost+" /admin/services/:id/top_selection"])
}
