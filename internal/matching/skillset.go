package matching

import (
	"encoding/json"
	"strings"
)

// SkillSet is an ordered, deduplicated list of skills. Two skills are the same
// when their trimmed lower-cased forms are equal; the first casing seen wins.
// A SkillSet is immutable once built, so copies may be shared freely.
type SkillSet struct {
	items []string
	keys  map[string]struct{}
}

// NewSkillSet builds a SkillSet preserving the order of first appearance.
// Blank entries are ignored.
func NewSkillSet(skills ...string) SkillSet {
	set := SkillSet{
		items: make([]string, 0, len(skills)),
		keys:  make(map[string]struct{}, len(skills)),
	}

	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}

		key := skillKey(skill)
		if _, ok := set.keys[key]; ok {
			continue
		}

		set.keys[key] = struct{}{}
		set.items = append(set.items, skill)
	}

	return set
}

func skillKey(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func (s SkillSet) Len() int {
	return len(s.items)
}

// Items returns a copy of the skills in insertion order.
func (s SkillSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether the skill is present, ignoring case.
func (s SkillSet) Contains(skill string) bool {
	if s.keys == nil {
		return false
	}
	_, ok := s.keys[skillKey(skill)]
	return ok
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var skills []string
	if err := json.Unmarshal(data, &skills); err != nil {
		return err
	}
	*s = NewSkillSet(skills...)
	return nil
}
