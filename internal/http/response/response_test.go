package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelane/internal/common"
)

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code common.Code
		want int
	}{
		{common.CodeNotFound, http.StatusNotFound},
		{common.CodeValidation, http.StatusBadRequest},
		{common.CodeInvalidState, http.StatusUnprocessableEntity},
		{common.CodeUnauthorized, http.StatusUnauthorized},
		{common.CodeForbidden, http.StatusForbidden},
		{common.CodeConflict, http.StatusConflict},
		{common.CodeRateLimited, http.StatusTooManyRequests},
		{common.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, common.NewError(tc.code, "m", nil))
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(common.CodeInternal), body.Error.Code)
	assert.Equal(t, "internal error", body.Error.Message)
}

func TestJSONWritesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"1"}`, rec.Body.String())
}
