package recommend

import (
	"fmt"
	"strings"

	"github.com/abhisek/skillpath/internal/llm"
)

const projectSystemPrompt = `You design small hands-on practice projects for self-taught programmers and analysts. Projects must be finishable in one or two sittings and exercise only the concepts listed.`

func buildProjectPrompt(skill string, concepts []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Skill: %s\n", skill)
	b.WriteString("Concepts the learner knows:\n")
	if len(concepts) == 0 {
		b.WriteString("- (none recorded yet, keep it introductory)\n")
	}
	for _, c := range concepts {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString(`
Instructions:
Create one new project that combines the concepts above. Reply with a single JSON object and nothing else, using exactly these keys:
{
  "title": "short project name",
  "description": "two or three sentences on what the learner builds",
  "requiredConcepts": ["concept", "..."],
  "tasks": {
    "task1": {"title": "task name", "subtasks": ["step", "step", "step"]}
  },
  "validationRules": {"task1": ["what a correct solution must contain"]},
  "terminalChecks": ["keyword expected in program output"]
}
Rules:
1. Include 3 to 5 tasks, keyed task1, task2, ... in the order they should be done.
2. Each task has 3 to 5 concrete subtasks.
3. requiredConcepts must only use concepts from the list above.
4. Do not wrap the JSON in markdown and do not add comments.`)

	return b.String()
}

// generatedProjectSchema is the minimum a generated project must satisfy
// before it is decoded.
var generatedProjectSchema = &llm.Schema{
	Name:        "generated-project",
	Description: "A practice project definition",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"requiredConcepts": map[string]any{
				"type":  []any{"array", "string"},
				"items": map[string]any{"type": "string"},
			},
			"tasks": map[string]any{
				"type":          []any{"object", "array"},
				"minProperties": 1,
				"minItems":      1,
			},
		},
		"required": []any{"title", "tasks"},
	},
}
