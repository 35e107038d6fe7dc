package extract

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var defaultDictionary []byte

// Category is a named group of skills.
type Category struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
	// Pattern marks categories whose skills are also searched as whole words.
	Pattern bool `yaml:"pattern"`
}

// Dictionary is the vocabulary the extractor works from.
type Dictionary struct {
	Categories []Category `yaml:"categories"`
	Roles      []string   `yaml:"roles"`
	Countries  []string   `yaml:"countries"`
}

// ParseDictionary decodes a YAML dictionary document.
func ParseDictionary(data []byte) (*Dictionary, error) {
	var dict Dictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	if len(dict.Categories) == 0 {
		return nil, errors.New("dictionary has no skill categories")
	}
	for i, category := range dict.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return nil, fmt.Errorf("dictionary category %d has no name", i)
		}
	}
	return &dict, nil
}

func (d *Dictionary) skillPatterns() []*regexp.Regexp {
	var patterns []*regexp.Regexp
	for _, category := range d.Categories {
		if !category.Pattern || len(category.Skills) == 0 {
			continue
		}
		quoted := make([]string, 0, len(category.Skills))
		for _, skill := range category.Skills {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(skill)))
		}
		patterns = append(patterns, regexp.MustCompile(`\b(?:`+strings.Join(quoted, "|")+`)\b`))
	}
	return patterns
}

func (d *Dictionary) countryPattern() *regexp.Regexp {
	if len(d.Countries) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(d.Countries))
	for _, country := range d.Countries {
		quoted = append(quoted, regexp.QuoteMeta(country))
	}
	return regexp.MustCompile(`\b([A-Za-z\s]+,\s*(?:` + strings.Join(quoted, "|") + `))\b`)
}
