package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSkillSetDeduplicates(t *testing.T) {
	t.Parallel()

	set := NewSkillSet("Python", " python ", "", "SQL", "sql", "Go")

	assert.Equal(t, []string{"Python", "SQL", "Go"}, set.Items())
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("PYTHON"))
	assert.False(t, set.Contains("rust"))
}

func TestSkillSetZeroValue(t *testing.T) {
	t.Parallel()

	var set SkillSet

	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Items())
	assert.False(t, set.Contains("go"))
}

func TestSkillSetItemsReturnsCopy(t *testing.T) {
	t.Parallel()

	set := NewSkillSet("Go")
	items := set.Items()
	items[0] = "Rust"

	assert.Equal(t, []string{"Go"}, set.Items())
}

func TestSkillSetJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewSkillSet("Go", "go", "AWS"))
	require.NoError(t, err)
	assert.JSONEq(t, `["Go","AWS"]`, string(data))

	var decoded SkillSet
	require.NoError(t, json.Unmarshal([]byte(`["SQL","sql","Docker"]`), &decoded))
	assert.Equal(t, []string{"SQL", "Docker"}, decoded.Items())

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &decoded))
}
