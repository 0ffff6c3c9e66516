package analyzer

import "github.com/af-corp/bridge-gateway/internal/types"

// ContextElement is one piece of context a vibe expects a complete prompt to
// carry. Elements are listed in priority order; when several are missing,
// the follow-up question is taken from the first missing required element.
type ContextElement struct {
	Name     string
	Keywords []string
	Question string
	Required bool
}

// DefaultRequirements returns the per-vibe context requirement tables.
// Vibes without an entry have no structural context requirements.
func DefaultRequirements() map[types.Vibe][]ContextElement {
	return map[types.Vibe][]ContextElement{
		types.VibeAcademic: {
			{
				Name: "subject",
				Keywords: []string{
					"subject", "field", "discipline", "mathematics", "science",
					"history", "calculus", "physics", "chemistry", "biology",
					"literature", "psychology", "computer science", "engineering",
					"economics", "philosophy",
				},
				Question: "What specific academic subject is this related to?",
				Required: true,
			},
			{
				Name: "level",
				Keywords: []string{
					"level", "grade", "year", "undergraduate", "graduate",
					"university", "college", "high school", "elementary",
					"advanced", "beginner", "course",
				},
				Question: "What academic level is this for?",
				Required: true,
			},
			{
				Name: "purpose",
				Keywords: []string{
					"purpose", "goal", "assignment", "research", "homework",
					"project", "essay", "exam",
				},
				Question: "What is the purpose of this academic work?",
				Required: false,
			},
		},
		types.VibeProfessional: {
			{
				Name: "industry",
				Keywords: []string{
					"industry", "sector", "business", "company", "technology",
					"healthcare", "finance", "marketing", "sales", "consulting",
					"startup",
				},
				Question: "Which industry or business sector is this question about?",
				Required: true,
			},
			{
				Name: "role",
				Keywords: []string{
					"role", "position", "job", "responsibility", "manager",
					"developer", "analyst", "director", "coordinator",
					"specialist",
				},
				Question: "What is your role or position in this context?",
				Required: true,
			},
		},
		types.VibeTechnical: {
			{
				Name: "technology",
				Keywords: []string{
					"programming language", "framework", "library", "technology",
					"tool", "platform", "python", "javascript", "go", "react",
					"docker", "kubernetes", "aws", "api", "database", "server",
				},
				Question: "Which specific technology or platform are you working with?",
				Required: true,
			},
			{
				Name: "problem",
				Keywords: []string{
					"error", "issue", "problem", "bug", "not working", "fix",
					"solution", "troubleshoot", "crash", "fails",
				},
				Question: "Can you describe the specific problem or error you're encountering?",
				Required: true,
			},
			{
				Name:     "environment",
				Keywords: []string{"environment", "version", "os", "browser", "device"},
				Question: "What is your development environment or setup?",
				Required: false,
			},
		},
	}
}
