package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResponseNilSchema(t *testing.T) {
	err := validateResponse(nil, json.RawMessage(`anything goes`))
	assert.NoError(t, err)
}

func TestValidateResponseValid(t *testing.T) {
	raw := json.RawMessage(`{
		"overall": 7.0,
		"correct": 11,
		"total": 13,
		"explanations": ["q4: the heading refers to paragraph C"]
	}`)
	assert.NoError(t, validateResponse(readingFeedbackSchema, raw))
}

func TestValidateResponseRejectsInvalidJSON(t *testing.T) {
	err := validateResponse(readingFeedbackSchema, json.RawMessage(`{broken`))
	require.Error(t, err)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, json.RawMessage(`{broken`), malformed.Content)
}

func TestValidateResponseRejectsMissingRequired(t *testing.T) {
	// overall is missing
	raw := json.RawMessage(`{"correct": 11, "total": 13, "explanations": []}`)
	err := validateResponse(readingFeedbackSchema, raw)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestValidateResponseRejectsOutOfRangeBand(t *testing.T) {
	raw := json.RawMessage(`{"overall": 9.5, "correct": 13, "total": 13, "explanations": []}`)
	err := validateResponse(readingFeedbackSchema, raw)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestValidateResponseRejectsExtraFields(t *testing.T) {
	raw := json.RawMessage(`{
		"suggestions": ["tighten the second paragraph"],
		"essayRewrite": "full rewrite here"
	}`)
	err := validateResponse(suggestionsSchema, raw)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestSchemaCacheReuse(t *testing.T) {
	raw := json.RawMessage(`{"suggestions": []}`)
	require.NoError(t, validateResponse(suggestionsSchema, raw))

	// Second validation hits the cached compiled schema.
	cached, ok := schemaCache.Load(suggestionsSchema.Name)
	require.True(t, ok)
	assert.NotNil(t, cached)
	assert.NoError(t, validateResponse(suggestionsSchema, raw))
}
