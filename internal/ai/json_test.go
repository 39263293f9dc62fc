package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "raw object",
			input:  `{"key": "value"}`,
			want:   `{"key": "value"}`,
			wantOK: true,
		},
		{
			name:   "raw array",
			input:  `[1, 2, 3]`,
			want:   `[1, 2, 3]`,
			wantOK: true,
		},
		{
			name:   "code fence with language",
			input:  "Here you go:\n```json\n{\"key\": \"value\"}\n```\nDone.",
			want:   `{"key": "value"}`,
			wantOK: true,
		},
		{
			name:   "code fence without language",
			input:  "```\n{\"key\": \"value\"}\n```",
			want:   `{"key": "value"}`,
			wantOK: true,
		},
		{
			name:   "object embedded in prose",
			input:  `The results are {"count": 2} as requested.`,
			want:   `{"count": 2}`,
			wantOK: true,
		},
		{
			name:   "no json at all",
			input:  "I could not find any contributors.",
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "whitespace only",
			input:  "   \n\t  ",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	input := "Found these:\n```json\n{\"results\": [{\"author\": \"pg\"}]}\n```"
	got, ok := ExtractJSONObject(input, "results")
	require.True(t, ok)
	assert.Contains(t, got, `"results"`)

	_, ok = ExtractJSONObject(`{"other": true}`, "results")
	assert.False(t, ok)

	_, ok = ExtractJSONObject("no json here", "results")
	assert.False(t, ok)
}
