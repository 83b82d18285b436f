package services

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Taxonomy is the externally supplied catalog of recognized skill phrases.
// The file is read once on first use and the flattened list is immutable
// for the process lifetime.
type Taxonomy struct {
	path string

	once   sync.Once
	skills []string
	err    error
}

func NewTaxonomy(path string) *Taxonomy {
	return &Taxonomy{path: path}
}

// Skills returns the flattened, lowercased, deduplicated phrase list.
func (t *Taxonomy) Skills() ([]string, error) {
	t.once.Do(func() {
		t.skills, t.err = loadSkillsFile(t.path)
	})
	return t.skills, t.err
}

// loadSkillsFile accepts either a category -> phrases mapping or a flat
// phrase list. A missing file yields an empty taxonomy, not an error.
func loadSkillsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read skills taxonomy: %w", err)
	}

	var phrases []string

	var byCategory map[string][]string
	if err := yaml.Unmarshal(data, &byCategory); err == nil && len(byCategory) > 0 {
		for _, categorySkills := range byCategory {
			phrases = append(phrases, categorySkills...)
		}
	} else {
		var flat []string
		if err := yaml.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("failed to parse skills taxonomy: %w", err)
		}
		phrases = flat
	}

	seen := make(map[string]struct{}, len(phrases))
	skills := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		normalized := strings.ToLower(strings.TrimSpace(phrase))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		skills = append(skills, normalized)
	}
	sort.Strings(skills)
	return skills, nil
}
