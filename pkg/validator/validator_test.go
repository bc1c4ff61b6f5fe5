package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	Name     string `json:"name" validate:"required"`
	Link     string `json:"link" validate:"required,url"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
	Priority string `json:"priority" validate:"oneof=High Medium Low"`
	Note     string `validate:"max=5"`
}

func validRequest() itemRequest {
	return itemRequest{Name: "Chair", Link: "https://example.com/chair", Priority: "High"}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validRequest()))
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	req := validRequest()
	req.Name = ""
	req.ImageURL = "not a url"

	fields := fieldsOf(t, Validate(req))
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "must be a valid URL", fields["image_url"])
	assert.NotContains(t, fields, "Name")
}

func TestValidate_FallsBackToGoFieldName(t *testing.T) {
	req := validRequest()
	req.Note = "far too long"

	fields := fieldsOf(t, Validate(req))
	assert.Contains(t, fields["Note"], "at most 5")
}

func TestValidate_OneOf(t *testing.T) {
	req := validRequest()
	req.Priority = "Urgent"

	fields := fieldsOf(t, Validate(req))
	assert.Contains(t, fields["priority"], "one of")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(itemRequest{Priority: "Low"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'name'")
	assert.Contains(t, err.Error(), "is required")
}

type evenStruct struct {
	Count int `json:"count" validate:"even_test"`
}

func TestRegister_CustomTagAndMessage(t *testing.T) {
	err := Register("even_test", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}, "must be even")
	require.NoError(t, err)

	assert.NoError(t, Validate(evenStruct{Count: 4}))

	fields := fieldsOf(t, Validate(evenStruct{Count: 3}))
	assert.Equal(t, "must be even", fields["count"])
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"name":"Chair","link":"https://example.com","priority":"Medium"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s itemRequest
	require.NoError(t, DecodeAndValidate(req, &s))
	assert.Equal(t, "Chair", s.Name)
	assert.Equal(t, "Medium", s.Priority)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s itemRequest
	err := DecodeAndValidate(req, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"name":"","link":"nope","priority":"High"}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))

	var s itemRequest
	err := DecodeAndValidate(req, &s)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
