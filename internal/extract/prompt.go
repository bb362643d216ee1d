package extract

import (
	"fmt"
	"strings"

	"github.com/linklift/linklift/internal/profile"
)

// DesperationTextLimit bounds the resume text in the degraded retry prompt.
const DesperationTextLimit = 4000

// GroqTextLimit bounds the resume text sent to the secondary provider.
const GroqTextLimit = 8000

// buildPrompt constructs the full extraction prompt: scoring rubric,
// suggestion constraints, target JSON shape, resume text and few-shot
// examples.
func buildPrompt(resumeText string) string {
	var sb strings.Builder

	sb.WriteString("Analyze this resume and return strictly valid JSON.\n\n")

	sb.WriteString("### SCORING RUBRIC:\n")
	sb.WriteString("- 90-100: Exceptional. Quantifiable metrics, clear projects, modern stack.\n")
	sb.WriteString("- 75-89: Strong. Good skills but lacks specific metrics or links.\n")
	sb.WriteString("- 50-74: Growing. Needs more projects or clearer role focus.\n\n")

	sb.WriteString("### INSIGHTS REQUIREMENTS:\n")
	sb.WriteString("- Provide 3 constructive suggestions STRICTLY about resume content and structure.\n")
	sb.WriteString("- FORBIDDEN topics: Master's degrees, PhDs, new certifications, or general career paths.\n")
	sb.WriteString("- FOCUS topics: Bullet point strength, quantifiable impact, layout clarity, and skill alignment.\n")
	sb.WriteString("- \"area\": A short category (e.g., \"Impact\", \"Formatting\").\n")
	sb.WriteString("- \"issue\": What is missing or weak in the resume's text.\n")
	sb.WriteString("- \"advice\": How to improve that specific section.\n\n")

	sb.WriteString("Resume Text: \"")
	sb.WriteString(resumeText)
	sb.WriteString("\"\n\n")

	sb.WriteString("Required Structure (Return exactly this):\n")
	sb.WriteString(`{
  "name": "...",
  "role": "...",
  "email": "...",
  "bio": "...",
  "github": "...",
  "linkedin": "...",
  "skills": ["..."],
  "experience": [{"role": "...", "company": "...", "duration": "...", "description": "..."}],
  "projects": [{"title": "...", "description": "...", "technologies": ["..."], "link": "..."}],
  "score": 85,
  "suggestions": [{"area": "...", "issue": "...", "advice": "..."}]
}`)
	sb.WriteString("\n\nReference Examples:\n")
	for i, ex := range fewShotExamples {
		fmt.Fprintf(&sb, "\nExample %d Input:\n%s\n\nExample %d Output (JSON):\n%s\n", i+1, ex.Input, i+1, ex.Output)
	}

	return sb.String()
}

// buildDesperationPrompt is the minimal instruction-only prompt used for the
// degraded retry: no schema, no JSON mode, tighter text budget.
func buildDesperationPrompt(resumeText string) string {
	return "Return resume data as JSON. Include name, role, email, skills, experience, projects, score (0-100), and suggestions. No markdown. Resume: " + truncate(resumeText, DesperationTextLimit)
}

// groqSystemPrompt is the system instruction for the secondary provider.
const groqSystemPrompt = "Extract resume data into JSON format. Provide accurate ATS scoring and 3 constructive suggestions for improvement."

// buildGroqUserPrompt pairs the truncated resume text with the canonical
// schema so the fallback provider targets the same shape as the primary.
func buildGroqUserPrompt(resumeText string) string {
	return fmt.Sprintf("Resume Text: %s\n\nSchema: %s", truncate(resumeText, GroqTextLimit), profile.SchemaJSON)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
