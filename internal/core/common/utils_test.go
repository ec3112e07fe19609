package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestParseJSON(t *testing.T) {
	result, err := ParseJSON[payload](`{"name": "algebra", "score": 0.9}`)

	assert.NoError(t, err)
	assert.Equal(t, "algebra", result.Name)
	assert.Equal(t, 0.9, result.Score)
}

func TestParseJSON_SurroundingChatter(t *testing.T) {
	response := "Sure, here is the JSON:\n```json\n{\"name\": \"algebra\", \"score\": 0.9}\n```\nLet me know if you need anything else."

	result, err := ParseJSON[payload](response)

	assert.NoError(t, err)
	assert.Equal(t, "algebra", result.Name)
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[payload]("no json here")

	assert.Error(t, err)
}

func TestParseJSON_MalformedObject(t *testing.T) {
	_, err := ParseJSON[payload](`{"name": "algebra",`)

	assert.Error(t, err)
}
