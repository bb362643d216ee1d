// Package profile defines the canonical extracted-profile shape and the
// normalization step that enforces it on untrusted model output.
package profile

// Experience is one work-history entry. Role, company and description are
// required by the extraction schema; duration may be empty.
type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Project is one portfolio project entry.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link,omitempty"`
}

// Suggestion is one resume-improvement suggestion produced by the model.
type Suggestion struct {
	Area   string `json:"area"`
	Issue  string `json:"issue"`
	Advice string `json:"advice"`
}

// Profile is the canonical analysis result stored per resume and rendered by
// the portfolio templates. After Normalize, the slice fields are never nil,
// the scalar identity fields are never empty, and the score is in [0,100].
type Profile struct {
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Email       string       `json:"email"`
	Bio         string       `json:"bio"`
	GitHub      string       `json:"github,omitempty"`
	LinkedIn    string       `json:"linkedin,omitempty"`
	Skills      []string     `json:"skills"`
	Experience  []Experience `json:"experience"`
	Projects    []Project    `json:"projects"`
	Score       int          `json:"score"`
	ATSScore    int          `json:"ats_score"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Identity carries locally extracted identity hints used to backfill scalar
// fields the model omitted. Empty fields mean "no hint".
type Identity struct {
	Name   string
	Email  string
	Skills []string
}
