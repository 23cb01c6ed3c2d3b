package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/atlas-engine/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		body      string
		wantErr   string
		wantError int // problems with error severity
	}{
		{
			name:     "clean catalog",
			filename: "north_reach.json",
			body: `{
				"entries": [{"id": "tide-glass", "title": "Tide Glass", "category": "Curio", "location": {"x": 10, "y": 10}}],
				"npcs": [{"id": "jansa", "name": "Jansa", "location": {"x": 20, "y": 20},
					"dialogues": [{"id": "hello", "fallback": true, "lines": ["Hi."]}]}]
			}`,
		},
		{
			name:     "bad filename",
			filename: "North-Reach.json",
			body:     `{"entries": [], "npcs": []}`,
			wantErr:  "lowercase snake_case",
		},
		{
			name:     "unknown field",
			filename: "atlas.json",
			body:     `{"entries": [], "npcs": [], "monsters": []}`,
			wantErr:  "strict JSON",
		},
		{
			name:     "schema violation",
			filename: "atlas.json",
			body:     `{"entries": [{"id": "a", "title": "A"}], "npcs": []}`,
			wantErr:  "schema validation failed",
		},
		{
			name:     "dangling requirement",
			filename: "atlas.json",
			body: `{
				"entries": [{"id": "tide-glass", "title": "Tide Glass", "category": "Curio", "location": {"x": 10, "y": 10}}],
				"npcs": [{"id": "jansa", "name": "Jansa", "location": {"x": 20, "y": 20},
					"dialogues": [
						{"id": "hello", "fallback": true, "lines": ["Hi."]},
						{"id": "glass", "requires": ["tide-glas"], "lines": ["Nice glass."]}
					]}]
			}`,
			wantError: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems, err := validateFile(writeCatalog(t, tt.filename, tt.body))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			errs := 0
			for _, p := range problems {
				if p.Severity == catalog.SeverityError {
					errs++
				}
			}
			assert.Equal(t, tt.wantError, errs, "problems: %v", problems)
		})
	}
}

func TestValidateFile_SuggestsClosestEntry(t *testing.T) {
	path := writeCatalog(t, "atlas.json", `{
		"entries": [{"id": "tide-glass", "title": "Tide Glass", "category": "Curio", "location": {"x": 10, "y": 10}}],
		"npcs": [{"id": "jansa", "name": "Jansa", "location": {"x": 20, "y": 20},
			"dialogues": [{"id": "glass", "fallback": true, "requires": ["tide-glas"], "lines": ["Nice glass."]}]}]
	}`)

	problems, err := validateFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems[0].Message, `did you mean "tide-glass"?`)
}

func TestValidateShippedCatalog(t *testing.T) {
	problems, err := validateFile(filepath.Join("..", "..", "data", "catalog.json"))
	require.NoError(t, err)
	for _, p := range problems {
		assert.NotEqual(t, catalog.SeverityError, p.Severity, p.String())
	}
}
