package nlp

import (
	"sort"
	"strings"

	"showfinder/internal/domain"
)

// LabelPerson is the NER label for people.
const LabelPerson = "PERSON"

// EntityExtractor pulls person names out of a query.
type EntityExtractor struct {
	toolkit domain.Toolkit
}

// NewEntityExtractor creates an extractor over the given toolkit.
func NewEntityExtractor(toolkit domain.Toolkit) *EntityExtractor {
	return &EntityExtractor{toolkit: toolkit}
}

// Extract returns the distinct lower-cased person names in text, sorted.
// A multi-word name stays a single string.
func (x *EntityExtractor) Extract(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	ents, err := x.toolkit.Entities(text)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(ents))
	var names []string
	for _, e := range ents {
		if e.Label != LabelPerson {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(e.Text))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
