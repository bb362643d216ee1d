package profile

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

// DefaultScore is used when no numeric score can be recovered from the model
// output.
const DefaultScore = 75

// Static fallbacks for scalar fields the model (and the local identity scan)
// failed to produce. Matches the safety-net profile so a fully degraded run
// and a partially degraded run read the same.
const (
	DefaultName  = "Professional Candidate"
	DefaultRole  = "Software Professional"
	DefaultEmail = "hello@example.com"
	DefaultBio   = "Experienced developer focused on building scalable, user-centric digital solutions with modern technologies."
)

var digitRun = regexp.MustCompile(`\d+`)

// NormalizeScore coerces an arbitrary raw score value into an integer in
// [0,100]. Numbers pass through, numeric strings have their first digit run
// parsed, anything else falls back to DefaultScore. Values in (0,10] are
// treated as a 1-10 scale answer and rescaled by 10.
func NormalizeScore(raw any) int {
	n := float64(DefaultScore)

	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			n = f
		}
	case string:
		if m := digitRun.FindString(v); m != "" {
			if parsed, err := strconv.Atoi(m); err == nil {
				n = float64(parsed)
			}
		}
	}

	// Models occasionally answer on a 1-10 scale.
	if n > 0 && n <= 10 {
		n *= 10
	}

	score := int(math.Round(n))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Normalize coerces the raw JSON object produced by the extraction tiers into
// a canonical Profile. The raw shape is not trusted: the score may be a string
// or missing, array fields may be absent or mistyped, and scalar identity
// fields may be empty. hints supplies locally extracted values preferred over
// the static defaults.
func Normalize(raw map[string]any, hints Identity) *Profile {
	p := &Profile{
		Name:     firstNonEmpty(stringField(raw, "name"), hints.Name, DefaultName),
		Role:     firstNonEmpty(stringField(raw, "role"), DefaultRole),
		Email:    firstNonEmpty(stringField(raw, "email"), hints.Email, DefaultEmail),
		Bio:      firstNonEmpty(stringField(raw, "bio"), DefaultBio),
		GitHub:   stringField(raw, "github"),
		LinkedIn: stringField(raw, "linkedin"),
	}

	p.Skills = stringSlice(raw["skills"])
	if len(p.Skills) == 0 && len(hints.Skills) > 0 {
		p.Skills = append(p.Skills, hints.Skills...)
	}
	decodeSlice(raw["experience"], &p.Experience)
	decodeSlice(raw["projects"], &p.Projects)
	decodeSlice(raw["suggestions"], &p.Suggestions)

	for i := range p.Projects {
		if p.Projects[i].Technologies == nil {
			p.Projects[i].Technologies = []string{}
		}
	}

	score := NormalizeScore(raw["score"])
	p.Score = score
	p.ATSScore = score

	return p
}

// stringField reads a scalar string field from the raw object, returning ""
// for missing or mistyped values.
func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// stringSlice coerces a raw value into a non-nil []string, keeping only
// string elements.
func stringSlice(raw any) []string {
	out := []string{}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// decodeSlice coerces a raw value into a typed slice via a JSON round trip.
// Missing or mistyped values yield an empty, non-nil slice; elements that fail
// to decode are dropped rather than failing the whole profile.
func decodeSlice[T any](raw any, dst *[]T) {
	*dst = []T{}
	items, ok := raw.([]any)
	if !ok {
		return
	}
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			continue
		}
		*dst = append(*dst, v)
	}
}
