package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIdentity(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedName   string
		expectedEmail  string
		expectedSkills []string
	}{
		{
			name:           "Plain name and email",
			text:           "Jane Public\njane@x.com\nSoftware Engineer",
			expectedName:   "Jane Public",
			expectedEmail:  "jane@x.com",
			expectedSkills: nil,
		},
		{
			name:          "Middle initial not matched, later plain name wins",
			text:          "Jane Q. Public\nContact: jane@x.com\nSigned, Jane Public",
			expectedName:  "Jane Public",
			expectedEmail: "jane@x.com",
		},
		{
			name:           "Skills in vocabulary order regardless of text order",
			text:           "Built dashboards in SQL and frontends in React.",
			expectedSkills: []string{"React", "SQL"},
		},
		{
			name:           "Case-insensitive skill match",
			text:           "experience with PYTHON and typescript",
			expectedSkills: []string{"TypeScript", "Python"},
		},
		{
			name:           "Word boundaries respected",
			text:           "Javascripting is not a skill, but JavaScript is.",
			expectedSkills: []string{"JavaScript"},
		},
		{
			name: "Nothing matched stays empty",
			text: "lowercase only, no contact info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ExtractIdentity(tt.text)
			assert.Equal(t, tt.expectedName, id.Name)
			assert.Equal(t, tt.expectedEmail, id.Email)
			assert.Equal(t, tt.expectedSkills, id.Skills)
		})
	}
}

func TestSafetyNetDefaults(t *testing.T) {
	raw := SafetyNet(ExtractIdentity("no identity here at all"))

	assert.Equal(t, "Professional Candidate", raw["name"])
	assert.Equal(t, "Software Professional", raw["role"])
	assert.Equal(t, "hello@example.com", raw["email"])
	assert.Equal(t, []any{"React", "TypeScript", "Node.js", "Tailwind", "Git"}, raw["skills"])
	assert.Equal(t, float64(75), raw["score"])

	projects, ok := raw["projects"].([]any)
	assert.True(t, ok)
	assert.Len(t, projects, 2)
}
