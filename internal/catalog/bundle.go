package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Bundle is a skill's catalog as exchanged in files: the concept
// document plus the projects in file order.
type Bundle struct {
	Skill    string
	Concepts CategoryMap
	Projects []Project
}

// ErrEmptyBundle is returned when a file has no projects and no concepts.
var ErrEmptyBundle = errors.New("catalog file has no projects or concepts")

// ParseBundle reads a catalog file. Two layouts are accepted:
//
//	{"skill": "python", "AllConcepts": {...}, "projects": {"p1": {...}}}
//	{"AllConcepts": {...}, "p1": {...}, "p2": {...}}
//
// In both, project ids default to their object key and keep file order.
// Keys listed in ExcludedKeys are never read as projects.
func ParseBundle(data []byte) (*Bundle, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("catalog file: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("catalog file: expected an object, got %s", root.Type)
	}

	b := &Bundle{Skill: strings.TrimSpace(root.Get("skill").String())}

	if c := root.Get(ConceptsKey); c.Exists() {
		if err := json.Unmarshal([]byte(c.Raw), &b.Concepts); err != nil {
			return nil, fmt.Errorf("catalog file: %s: %w", ConceptsKey, err)
		}
	}

	projects := root
	if p := root.Get("projects"); p.Exists() {
		if !p.IsObject() {
			return nil, fmt.Errorf("catalog file: projects must be an object keyed by id")
		}
		projects = p
	}

	var err error
	projects.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if ExcludedKeys[k] || (projects.Raw == root.Raw && (k == "skill" || k == "projects")) {
			return true
		}
		if !value.IsObject() {
			err = fmt.Errorf("catalog file: project %q is not an object", k)
			return false
		}
		var p Project
		if err = json.Unmarshal([]byte(value.Raw), &p); err != nil {
			err = fmt.Errorf("catalog file: project %q: %w", k, err)
			return false
		}
		if p.ID == "" {
			p.ID = k
		}
		b.Projects = append(b.Projects, p)
		return true
	})
	if err != nil {
		return nil, err
	}

	if len(b.Projects) == 0 && len(b.Concepts) == 0 {
		return nil, ErrEmptyBundle
	}
	return b, nil
}
