package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ConceptsKey is the catalog key of the per-skill concept document. It
// lives alongside project entries in the source data but is never a
// project.
const ConceptsKey = "AllConcepts"

// ExcludedKeys lists catalog keys that are metadata, not projects.
var ExcludedKeys = map[string]bool{
	ConceptsKey: true,
}

// Project is a single project definition in a skill's catalog.
type Project struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	RequiredConcepts ConceptList `json:"requiredConcepts"`
	Tasks            Tasks       `json:"tasks"`

	// Opaque metadata consumed by the project workspace. Stored and
	// returned byte-for-byte.
	ValidationRules json.RawMessage `json:"validationRules,omitempty"`
	TerminalChecks  json.RawMessage `json:"terminalChecks,omitempty"`
	AIPrompts       json.RawMessage `json:"aiPrompts,omitempty"`
}

// Task is one step of a project with its ordered subtasks.
type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtasks []string `json:"subtasks"`
}

// SubtaskCount returns the total number of subtasks across all tasks.
func (p *Project) SubtaskCount() int {
	n := 0
	for _, t := range p.Tasks {
		n += len(t.Subtasks)
	}
	return n
}

// ConceptList is an ordered list of concept names. It decodes from either
// a JSON array or a comma-separated string.
type ConceptList []string

// UnmarshalJSON accepts `["a","b"]` and `"a, b"`.
func (c *ConceptList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = SplitConcepts(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return fmt.Errorf("concept list: %w", err)
	}
	*c = list
	return nil
}

// SplitConcepts splits a comma-separated concept string, trimming
// whitespace and dropping empty entries.
func SplitConcepts(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Tasks is the ordered task list of a project. On the wire it is an
// object keyed by task id whose key order is the task order.
type Tasks []Task

type taskBody struct {
	Title    string   `json:"title"`
	Subtasks []string `json:"subtasks"`
}

// MarshalJSON writes tasks as an ordered object.
func (ts Tasks) MarshalJSON() ([]byte, error) {
	if ts == nil {
		return []byte("{}"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, t := range ts {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(t.ID)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(taskBody{Title: t.Title, Subtasks: t.Subtasks})
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(body)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads tasks from an ordered object or from an array of
// {id, title, subtasks}. Array entries without an id get "task<N>".
func (ts *Tasks) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("tasks: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	var out Tasks

	switch {
	case res.Type == gjson.Null:
		*ts = nil
		return nil
	case res.IsObject():
		res.ForEach(func(key, value gjson.Result) bool {
			out = append(out, decodeTask(key.String(), value))
			return true
		})
	case res.IsArray():
		i := 0
		res.ForEach(func(_, value gjson.Result) bool {
			i++
			id := value.Get("id").String()
			if id == "" {
				id = fmt.Sprintf("task%d", i)
			}
			out = append(out, decodeTask(id, value))
			return true
		})
	default:
		return fmt.Errorf("tasks: expected object or array, got %s", res.Type)
	}

	*ts = out
	return nil
}

func decodeTask(id string, v gjson.Result) Task {
	t := Task{ID: id, Title: v.Get("title").String()}
	subtasks := v.Get("subtasks")
	if subtasks.IsArray() {
		for _, s := range subtasks.Array() {
			if str := strings.TrimSpace(s.String()); str != "" {
				t.Subtasks = append(t.Subtasks, str)
			}
		}
	}
	return t
}
