package insight

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/farm-insight/internal/apperr"
)

func TestExtractObjectIgnoresSurroundingProse(t *testing.T) {
	text := `Sure! Here is the data: {"alerts":[],"guidanceItems":[],"generalAdvice":"ok"} Thanks!`

	raw, err := ExtractObject(text)
	require.NoError(t, err)
	assert.Equal(t, `{"alerts":[],"guidanceItems":[],"generalAdvice":"ok"}`, raw)

	var out WeatherInsight
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	assert.Equal(t, "ok", out.GeneralAdvice)
	assert.Empty(t, out.Alerts)
}

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"nested", `x {"a":{"b":{"c":1}}} y`, `{"a":{"b":{"c":1}}}`},
		{"first of two", `{"a":1} and {"b":2}`, `{"a":1}`},
		{"brace in string", `{"msg":"use } carefully {"} tail }`, `{"msg":"use } carefully {"}`},
		{"escaped quote", `{"msg":"say \"}\" now"}`, `{"msg":"say \"}\" now"}`},
		{"fenced", "```json\n{\"a\":[1,2]}\n```", `{"a":[1,2]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractObject(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractObjectFailures(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"a": {"b": 1}`, `} {"open": "}`} {
		_, err := ExtractObject(in)
		assert.ErrorIs(t, err, apperr.ErrExtraction, in)
	}
}

func TestDecodeObjectRejectsInvalidJSON(t *testing.T) {
	var out MarketInsight
	err := decodeObject(`here: {news: [1,]}`, &out)
	assert.ErrorIs(t, err, apperr.ErrExtraction)
}
