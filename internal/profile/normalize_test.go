package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected int
	}{
		{"Integer in range", float64(87), 87},
		{"Numeric string", "87", 87},
		{"String with surrounding text", "score: 92/100", 92},
		{"String without digits", "abc", 75},
		{"Missing value", nil, 75},
		{"Zero stays zero", float64(0), 0},
		{"Ten-point scale rescaled", float64(9), 90},
		{"Ten-point scale string rescaled", "8", 80},
		{"Boundary ten rescaled", float64(10), 100},
		{"Eleven not rescaled", float64(11), 11},
		{"Above hundred clamped", float64(150), 100},
		{"Negative clamped", float64(-5), 0},
		{"Fraction rounded", 82.6, 83},
		{"Mistyped value", map[string]any{"value": 80}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeScore(tt.raw))
		})
	}
}

func TestNormalizeArrayGuarantees(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"Empty object", map[string]any{}},
		{"Null arrays", map[string]any{"suggestions": nil, "projects": nil, "skills": nil, "experience": nil}},
		{"Mistyped arrays", map[string]any{"suggestions": "none", "projects": 3, "skills": map[string]any{}, "experience": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.raw, Identity{})
			assert.NotNil(t, p.Suggestions)
			assert.NotNil(t, p.Projects)
			assert.NotNil(t, p.Skills)
			assert.NotNil(t, p.Experience)
		})
	}
}

func TestNormalizePassThrough(t *testing.T) {
	raw := map[string]any{
		"name":   "Jane Public",
		"role":   "Backend Engineer",
		"email":  "jane@x.com",
		"bio":    "Builds APIs.",
		"github": "https://github.com/jane",
		"skills": []any{"Go", "SQL"},
		"score":  "9",
		"experience": []any{
			map[string]any{"role": "Engineer", "company": "Acme", "duration": "2020-2023", "description": "Built services."},
		},
		"projects": []any{
			map[string]any{"title": "Alpha", "description": "A system.", "technologies": []any{"Go"}},
		},
		"suggestions": []any{
			map[string]any{"area": "Impact", "issue": "metrics", "advice": "Add numbers."},
		},
	}

	p := Normalize(raw, Identity{})

	assert.Equal(t, "Jane Public", p.Name)
	assert.Equal(t, "Backend Engineer", p.Role)
	assert.Equal(t, "jane@x.com", p.Email)
	assert.Equal(t, "https://github.com/jane", p.GitHub)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	assert.Equal(t, 90, p.Score)
	assert.Equal(t, 90, p.ATSScore)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Acme", p.Experience[0].Company)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, []string{"Go"}, p.Projects[0].Technologies)
	require.Len(t, p.Suggestions, 1)
	assert.Equal(t, "Impact", p.Suggestions[0].Area)
}

func TestNormalizeScalarFallbacks(t *testing.T) {
	tests := []struct {
		name          string
		raw           map[string]any
		hints         Identity
		expectedName  string
		expectedEmail string
	}{
		{
			name:          "Hints preferred over static defaults",
			raw:           map[string]any{},
			hints:         Identity{Name: "Jane Public", Email: "jane@x.com"},
			expectedName:  "Jane Public",
			expectedEmail: "jane@x.com",
		},
		{
			name:          "Static defaults when no hints",
			raw:           map[string]any{},
			hints:         Identity{},
			expectedName:  DefaultName,
			expectedEmail: DefaultEmail,
		},
		{
			name:          "Model output wins over hints",
			raw:           map[string]any{"name": "Model Name", "email": "model@x.com"},
			hints:         Identity{Name: "Hint Name", Email: "hint@x.com"},
			expectedName:  "Model Name",
			expectedEmail: "model@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.raw, tt.hints)
			assert.Equal(t, tt.expectedName, p.Name)
			assert.Equal(t, tt.expectedEmail, p.Email)
			assert.NotEmpty(t, p.Role)
			assert.NotEmpty(t, p.Bio)
		})
	}
}

func TestNormalizeSkillHints(t *testing.T) {
	p := Normalize(map[string]any{}, Identity{Skills: []string{"React", "SQL"}})
	assert.Equal(t, []string{"React", "SQL"}, p.Skills)

	// Model-provided skills win over hints.
	p = Normalize(map[string]any{"skills": []any{"Go"}}, Identity{Skills: []string{"React"}})
	assert.Equal(t, []string{"Go"}, p.Skills)
}

func TestNormalizeDropsMalformedEntries(t *testing.T) {
	raw := map[string]any{
		"experience": []any{
			map[string]any{"role": "Engineer", "company": "Acme", "description": "ok"},
			"not an object",
		},
	}
	p := Normalize(raw, Identity{})
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Engineer", p.Experience[0].Role)
}

func TestCheckSchema(t *testing.T) {
	valid := map[string]any{
		"name": "Jane", "role": "Engineer", "score": float64(80),
		"skills":      []any{"Go"},
		"experience":  []any{},
		"projects":    []any{},
		"suggestions": []any{},
	}
	assert.NoError(t, CheckSchema(valid))

	invalid := map[string]any{"name": "Jane"}
	err := CheckSchema(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violations")
}
