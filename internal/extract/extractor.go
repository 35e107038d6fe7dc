// Package extract pulls skills, years of experience, location and role out of
// plain resume or job posting text.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/spigell/resume-matcher/internal/matching"
)

// RoleNotSpecified is reported when no role can be found.
const RoleNotSpecified = "Not Specified"

var (
	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`),
		regexp.MustCompile(`(\d+)\+\s*(?:years?|yrs?)`),
		regexp.MustCompile(`(?:experience|exp).*?(\d+)\s*(?:years?|yrs?)`),
	}

	locationLabelRegex = regexp.MustCompile(`(?:location|based in|located in):\s*([^,\n]+)`)
	cityStateRegex     = regexp.MustCompile(`([A-Za-z\s]+,\s*[A-Z]{2})`)

	rolePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:role|position|title):\s*([^\n,]+)`),
		regexp.MustCompile(`seeking\s+(?:a\s+)?([^\n,]+?)\s+(?:position|role)`),
	}
)

// Fields is what the extractor finds in a single document.
type Fields struct {
	Skills          matching.SkillSet `json:"skills"`
	ExperienceYears int               `json:"experience_years"`
	Location        string            `json:"location"`
	Role            string            `json:"role"`
}

// JobOverrides carries values declared alongside a posting. Declared values
// replace the extracted ones.
type JobOverrides struct {
	RequiredSkills     []string
	ExperienceRequired int
}

// Extractor is safe for concurrent use.
type Extractor struct {
	dict          *Dictionary
	skillPatterns []*regexp.Regexp
	countryRegex  *regexp.Regexp
}

// New creates an extractor over the built-in dictionary.
func New() *Extractor {
	dict, err := ParseDictionary(defaultDictionary)
	if err != nil {
		panic("extract: built-in dictionary: " + err.Error())
	}
	return NewWithDictionary(dict)
}

// NewWithDictionary creates an extractor over a custom dictionary.
func NewWithDictionary(dict *Dictionary) *Extractor {
	return &Extractor{
		dict:          dict,
		skillPatterns: dict.skillPatterns(),
		countryRegex:  dict.countryPattern(),
	}
}

// Extract never fails; missing fields are left at their zero value, except
// Role which falls back to RoleNotSpecified.
func (e *Extractor) Extract(text string) Fields {
	text = sanitize(text)
	return Fields{
		Skills:          e.Skills(text),
		ExperienceYears: ExperienceYears(text),
		Location:        e.Location(text),
		Role:            e.Role(text),
	}
}

// ResumeFacts builds the engine input for a resume.
func (e *Extractor) ResumeFacts(text string) matching.ResumeFacts {
	text = sanitize(text)
	return matching.ResumeFacts{
		Content:         text,
		Skills:          e.Skills(text),
		ExperienceYears: ExperienceYears(text),
	}
}

// JobFacts builds the engine input for a job posting.
func (e *Extractor) JobFacts(text string, overrides JobOverrides) matching.JobFacts {
	text = sanitize(text)

	skills := e.Skills(text)
	if len(overrides.RequiredSkills) > 0 {
		skills = matching.NewSkillSet(overrides.RequiredSkills...)
	}

	required := ExperienceYears(text)
	if overrides.ExperienceRequired > 0 {
		required = overrides.ExperienceRequired
	}

	return matching.JobFacts{
		Content:            text,
		RequiredSkills:     skills,
		ExperienceRequired: required,
	}
}

// Skills returns dictionary skills found by substring containment, followed
// by whole-word pattern hits. Casing comes from the dictionary.
func (e *Extractor) Skills(text string) matching.SkillSet {
	lower := strings.ToLower(text)

	var found []string
	for _, category := range e.dict.Categories {
		for _, skill := range category.Skills {
			if strings.Contains(lower, strings.ToLower(skill)) {
				found = append(found, skill)
			}
		}
	}

	for _, pattern := range e.skillPatterns {
		found = append(found, pattern.FindAllString(lower, -1)...)
	}

	return matching.NewSkillSet(found...)
}

// ExperienceYears returns the largest year count matched by the first
// experience pattern that matches at all.
func ExperienceYears(text string) int {
	lower := strings.ToLower(text)
	for _, pattern := range experiencePatterns {
		matches := pattern.FindAllStringSubmatch(lower, -1)
		if len(matches) == 0 {
			continue
		}

		best := 0
		for _, match := range matches {
			n, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if n > best {
				best = n
			}
		}
		return best
	}
	return 0
}

// Location returns the first labelled location, "City, ST" or "City, Country"
// found in text.
func (e *Extractor) Location(text string) string {
	patterns := []*regexp.Regexp{locationLabelRegex, cityStateRegex}
	if e.countryRegex != nil {
		patterns = append(patterns, e.countryRegex)
	}

	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(text); len(match) == 2 {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

// Role returns the first known title contained in text, or a labelled role.
func (e *Extractor) Role(text string) string {
	lower := strings.ToLower(text)
	caser := cases.Title(language.English)

	for _, role := range e.dict.Roles {
		if strings.Contains(lower, strings.ToLower(role)) {
			return caser.String(role)
		}
	}

	for _, pattern := range rolePatterns {
		if match := pattern.FindStringSubmatch(lower); len(match) == 2 {
			return caser.String(strings.TrimSpace(match[1]))
		}
	}

	return RoleNotSpecified
}

func sanitize(text string) string {
	return norm.NFC.String(strings.ToValidUTF8(text, "�"))
}
