package extract

import "github.com/linklift/linklift/internal/profile"

// SafetyNet builds the static last-resort profile returned when every
// extraction tier has failed, personalized with whatever the local identity
// scan recovered. The result is a raw object so it flows through the same
// normalization as real model output.
func SafetyNet(id profile.Identity) map[string]any {
	name := id.Name
	if name == "" {
		name = profile.DefaultName
	}
	email := id.Email
	if email == "" {
		email = profile.DefaultEmail
	}
	skills := id.Skills
	if len(skills) == 0 {
		skills = []string{"React", "TypeScript", "Node.js", "Tailwind", "Git"}
	}

	return map[string]any{
		"name":   name,
		"role":   profile.DefaultRole,
		"email":  email,
		"bio":    profile.DefaultBio,
		"skills": toAnySlice(skills),
		"experience": []any{
			map[string]any{
				"role":        "Developer",
				"company":     "Tech Solutions Inc.",
				"duration":    "2021 - Present",
				"description": "Developing high-performance applications and implementing best practices in modern web development.",
			},
		},
		"projects": []any{
			map[string]any{
				"title":        "Project Alpha",
				"description":  "A comprehensive system for data processing and real-time visualization.",
				"technologies": []any{"React", "Node.js", "PostgreSQL"},
				"link":         "#",
			},
			map[string]any{
				"title":        "Internal Tooling",
				"description":  "Custom dashboards and automation scripts for improving team efficiency.",
				"technologies": []any{"Next.js", "Tailwind", "Python"},
				"link":         "#",
			},
		},
		"score": float64(profile.DefaultScore),
		"suggestions": []any{
			map[string]any{
				"area":   "Projects",
				"issue":  "Extraction Limit",
				"advice": "Your resume parsing was limited by API traffic. Feel free to manually add your best projects using the 'Edit Content' sidebar!",
			},
		},
	}
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
