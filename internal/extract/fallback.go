package extract

import (
	"regexp"

	"github.com/linklift/linklift/internal/profile"
)

// Last-resort identity extraction over raw resume text. Deliberately crude:
// it only needs to personalize the safety-net profile, not to be correct.
var (
	nameRe  = regexp.MustCompile(`[A-Z][a-z]+ [A-Z][a-z]+`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9._-]+`)
)

// skillVocabulary is the fixed set of technologies scanned for by the local
// fallback. Matches are reported in vocabulary order.
var skillVocabulary = []string{
	"React", "JavaScript", "TypeScript", "Node", "Tailwind", "Python", "Java", "Next", "SQL",
}

var skillPatterns = buildSkillPatterns()

func buildSkillPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(skillVocabulary))
	for i, skill := range skillVocabulary {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(skill) + `\b`)
	}
	return patterns
}

// ExtractIdentity scans resume text for a candidate name (capitalized
// two-word sequence), email address and known technology keywords. Fields
// with no match stay empty. This never fails.
func ExtractIdentity(text string) profile.Identity {
	id := profile.Identity{
		Name:  nameRe.FindString(text),
		Email: emailRe.FindString(text),
	}
	for i, pattern := range skillPatterns {
		if pattern.MatchString(text) {
			id.Skills = append(id.Skills, skillVocabulary[i])
		}
	}
	return id
}
