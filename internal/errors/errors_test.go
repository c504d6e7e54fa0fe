package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := stderrors.New("line 4: field Order_Date")

	tests := []struct {
		name    string
		err     *AppError
		want    string
		errType ErrorType
	}{
		{"parsing with cause", NewParsingError("clean extract", cause), "[PARSING] clean extract: line 4: field Order_Date", ErrTypeParsing},
		{"validation", NewAppValidationError("bad traffic"), "[VALIDATION] bad traffic", ErrTypeValidation},
		{"not found", NewNotFoundError("view"), "[NOT_FOUND] view not found", ErrTypeNotFound},
		{"config", NewConfigError("bad port", nil), "[CONFIG] bad port", ErrTypeConfig},
		{"unavailable", NewUnavailableError("dataset not loaded"), "[UNAVAILABLE] dataset not loaded", ErrTypeUnavailable},
		{"storage", NewStorageError("write csv", cause), "[STORAGE] write csv: line 4: field Order_Date", ErrTypeStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.errType, tt.err.Type)
		})
	}

	wrapped := NewParsingError("clean extract", cause)
	assert.True(t, stderrors.Is(wrapped, cause))

	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
}

func TestAppError_WithContext(t *testing.T) {
	err := (&AppError{Type: ErrTypeParsing, Message: "m"}).WithContext("line", 7).WithContext("field", "Time_taken(min)")
	assert.Equal(t, 7, err.Context["line"])
	assert.Equal(t, "Time_taken(min)", err.Context["field"])

	agg := NewAggregationError("top_agents", nil)
	assert.Equal(t, "top_agents", agg.Context["aggregate"])
}

func TestAPIError_Render(t *testing.T) {
	assert.Equal(t, "Dataset has not been loaded", ErrDatasetNotLoaded.Error())

	v := ErrValidation("max_date", "must be DD-MM-YYYY")
	assert.Equal(t, http.StatusBadRequest, v.StatusCode)
	assert.Equal(t, ValidationError{Field: "max_date", Message: "must be DD-MM-YYYY"}, v.Details)

	multi := NewValidationErrors([]ValidationError{{Field: "traffic", Message: "unknown"}})
	assert.Equal(t, "VALIDATION_FAILED", multi.ErrorCode)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrTableNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "TABLE_NOT_FOUND", resp.Error.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "bad", "/api/views/company").
		WithExtension("trace_id", "abc")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeValidation, got["type"])
	assert.Equal(t, "abc", got["trace_id"])
	assert.Equal(t, "bad", got["detail"])

	bare := &ProblemDetails{Status: 500}
	bare.WithExtension("k", "v")
	assert.Equal(t, "v", bare.Extensions["k"])
}
