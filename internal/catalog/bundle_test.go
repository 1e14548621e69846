package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBundle_Structured(t *testing.T) {
	raw := `{
		"skill": "pandas",
		"AllConcepts": {"basic": ["DataFrame", "Series"], "advanced": ["pivot"]},
		"projects": {
			"zeta": {"title": "Sales Report", "tasks": {"t1": {"title": "Load", "subtasks": ["read"]}}},
			"alpha": {"id": "alpha-v2", "title": "Weather", "tasks": {}}
		}
	}`

	b, err := ParseBundle([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "pandas", b.Skill)
	assert.Equal(t, []string{"DataFrame", "Series", "pivot"}, b.Concepts.Names())
	require.Len(t, b.Projects, 2)
	assert.Equal(t, "zeta", b.Projects[0].ID)
	assert.Equal(t, "alpha-v2", b.Projects[1].ID)
	assert.Equal(t, "Weather", b.Projects[1].Title)
}

func TestParseBundle_FlatSkipsConceptDocument(t *testing.T) {
	raw := `{
		"p2": {"title": "Second"},
		"AllConcepts": {"basic": ["loops"]},
		"p1": {"title": "First"}
	}`

	b, err := ParseBundle([]byte(raw))
	require.NoError(t, err)

	assert.Empty(t, b.Skill)
	require.Len(t, b.Projects, 2)
	assert.Equal(t, "p2", b.Projects[0].ID)
	assert.Equal(t, "p1", b.Projects[1].ID)
	assert.Equal(t, CategoryMap{"basic": {"loops"}}, b.Concepts)
}

func TestParseBundle_Errors(t *testing.T) {
	tests := map[string]string{
		"invalid json":      `{"p1": `,
		"not an object":     `["p1"]`,
		"project not obj":   `{"p1": "nope"}`,
		"projects is array": `{"projects": []}`,
		"empty":             `{}`,
		"bad concepts":      `{"AllConcepts": ["loops"], "p1": {"title": "x"}}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseBundle([]byte(raw))
			assert.Error(t, err)
		})
	}
}
