package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/safar/go-marketplace/internal/catalog"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", catalog.NotFound("Product not found."), http.StatusNotFound},
		{"forbidden", catalog.Forbidden("Moderation capability required."), http.StatusForbidden},
		{"invalid transition", catalog.InvalidTransition("frozen"), http.StatusConflict},
		{"validation failed", catalog.ValidationFailed([]string{catalog.MsgImageRequired}), http.StatusBadRequest},
		{"bad input", catalog.BadInput("Rejection reason is required."), http.StatusBadRequest},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		respondError(c, tc.err)
		if recorder.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, recorder.Code, tc.status)
		}
	}
}

func TestRespondError_ValidationPayloadIsOrderedList(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, catalog.ValidationFailed([]string{
		catalog.MsgImageRequired,
		catalog.MsgPriceNotPositive,
	}))

	var body struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Errors) != 2 || body.Errors[0] != catalog.MsgImageRequired || body.Errors[1] != catalog.MsgPriceNotPositive {
		t.Fatalf("unexpected errors payload: %v", body.Errors)
	}
}

func TestRespondError_UnclassifiedIsNotLeaked(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, errors.New("pq: password authentication failed"))

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "Internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}
