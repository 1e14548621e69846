package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_DecodesOrderedTaskObject(t *testing.T) {
	raw := `{
		"id": "P1",
		"title": "Sales Dashboard",
		"requiredConcepts": "DataFrame, groupby ,  merge",
		"tasks": {
			"task3": {"title": "Load", "subtasks": ["read csv", "inspect"]},
			"task1": {"title": "Clean", "subtasks": ["drop nulls"]},
			"task2": {"title": "Plot", "subtasks": []}
		},
		"validationRules": {"task3": {"keywords": ["read_csv"]}}
	}`

	var p Project
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, ConceptList{"DataFrame", "groupby", "merge"}, p.RequiredConcepts)
	require.Len(t, p.Tasks, 3)
	assert.Equal(t, "task3", p.Tasks[0].ID)
	assert.Equal(t, "task1", p.Tasks[1].ID)
	assert.Equal(t, "task2", p.Tasks[2].ID)
	assert.Equal(t, []string{"read csv", "inspect"}, p.Tasks[0].Subtasks)
	assert.Equal(t, 3, p.SubtaskCount())
	assert.JSONEq(t, `{"task3": {"keywords": ["read_csv"]}}`, string(p.ValidationRules))
}

func TestProject_DecodesTaskArray(t *testing.T) {
	raw := `{"title": "X", "requiredConcepts": ["a", "b"], "tasks": [
		{"title": "First", "subtasks": ["s1"]},
		{"id": "custom", "title": "Second", "subtasks": ["s2", " "]}
	]}`

	var p Project
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, ConceptList{"a", "b"}, p.RequiredConcepts)
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "task1", p.Tasks[0].ID)
	assert.Equal(t, "custom", p.Tasks[1].ID)
	assert.Equal(t, []string{"s2"}, p.Tasks[1].Subtasks)
}

func TestTasks_MarshalKeepsOrder(t *testing.T) {
	ts := Tasks{
		{ID: "b", Title: "B", Subtasks: []string{"x"}},
		{ID: "a", Title: "A", Subtasks: []string{"y"}},
	}
	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"title":"B","subtasks":["x"]},"a":{"title":"A","subtasks":["y"]}}`, string(out))
}

func TestTasks_RejectsScalar(t *testing.T) {
	var ts Tasks
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestCategoryMap_NamesIsUnion(t *testing.T) {
	m := CategoryMap{
		"basic":    {"a", "b"},
		"advanced": {"c", "a"},
	}
	assert.Equal(t, []string{"a", "b", "c"}, m.Names())
	assert.Equal(t, []string{"advanced", "basic"}, m.Categories())
}

func TestSplitConcepts(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, SplitConcepts(" a ,, b c ,"))
	assert.Nil(t, SplitConcepts(""))
}
