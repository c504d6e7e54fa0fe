package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "deliverypulse/internal/errors"
	"deliverypulse/internal/shared/testutil"
	api "deliverypulse/pkg/contracts/api/v1"
	"deliverypulse/pkg/contracts/domain"
)

func TestValidator_ViewQuery(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewValidator(logger)

	tests := []struct {
		name       string
		query      interface{}
		wantFields []string
	}{
		{name: "empty", query: api.ViewQuery{}},
		{name: "valid", query: api.ViewQuery{MaxDate: "13-02-2022", Traffic: []string{"Low", "Jam"}}},
		{name: "bad date", query: api.ViewQuery{MaxDate: "2022-02-13"}, wantFields: []string{"max_date"}},
		{name: "bad traffic", query: api.ViewQuery{Traffic: []string{"Low", "Gridlock"}}, wantFields: []string{"traffic"}},
		{name: "interaction without view", query: api.InteractionRequest{}, wantFields: []string{"view"}},
		{name: "interaction unknown view", query: api.InteractionRequest{View: "drivers"}, wantFields: []string{"view"}},
		{name: "interaction valid", query: api.InteractionRequest{View: domain.ViewAgents, ViewQuery: api.ViewQuery{Traffic: []string{"High"}}}},
		{name: "domain filter", query: domain.FilterOptions{Traffic: []string{"NaN"}}, wantFields: []string{"traffic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.query)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			fields := make([]string, 0, len(details.Errors))
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
				assert.NotEmpty(t, fe.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestQueryParamValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))
	allowed := []string{"orders_per_day", "traffic_share"}

	w := httptest.NewRecorder()
	got, ok := v.ValidateEnum(w, httptest.NewRequest(http.MethodGet, "/x?aggregate=traffic_share", nil), "aggregate", allowed, "")
	assert.True(t, ok)
	assert.Equal(t, "traffic_share", got)

	got, ok = v.ValidateEnum(w, httptest.NewRequest(http.MethodGet, "/x", nil), "aggregate", allowed, "orders_per_day")
	assert.True(t, ok)
	assert.Equal(t, "orders_per_day", got)

	w = httptest.NewRecorder()
	_, ok = v.ValidateEnum(w, httptest.NewRequest(http.MethodGet, "/x?aggregate=bogus", nil), "aggregate", allowed, "")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	b, ok := v.ValidateBool(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x?bom=true", nil), "bom", false)
	assert.True(t, ok)
	assert.True(t, b)

	w = httptest.NewRecorder()
	_, ok = v.ValidateBool(w, httptest.NewRequest(http.MethodGet, "/x?bom=maybe", nil), "bom", false)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
