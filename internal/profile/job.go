package profile

import "strings"

// Complexity is the derived difficulty tier of a job task.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// Complexity derivation thresholds. A task is High when it is long or packed
// with action verbs, Low when it is a short noun phrase.
const (
	lowComplexityMaxWords  = 6
	highComplexityMinWords = 20
	highComplexityMinVerbs = 3
)

// Job is the free-text task plus its derived classification.
type Job struct {
	Task       string     `json:"task"`
	TaskType   string     `json:"task_type"`
	Complexity Complexity `json:"complexity"`
}

// taskTypes maps indicator words to a coarse task classification.
var taskTypes = []struct {
	label      string
	indicators []string
}{
	{"Travel Planning", []string{"travel", "trip", "itinerary", "visit"}},
	{"Training & Development", []string{"training", "onboarding", "learn", "teach"}},
	{"Food Service Planning", []string{"menu", "food", "meal", "catering", "dinner", "buffet"}},
	{"Research & Review", []string{"research", "review", "literature", "study", "analyze"}},
}

// actionVerbs are imperative verbs commonly opening task steps. Shared with
// the subsection actionability heuristic.
var actionVerbs = []string{
	"plan", "create", "prepare", "organize", "implement", "design",
	"choose", "select", "include", "consider", "recommend", "suggest",
	"build", "review", "compile", "arrange",
}

// DeriveJob classifies a task description into type and complexity tier.
func DeriveJob(task string) Job {
	lower := strings.ToLower(task)
	words := strings.Fields(lower)

	taskType := "General Task"
	for _, tt := range taskTypes {
		for _, ind := range tt.indicators {
			if strings.Contains(lower, ind) {
				taskType = tt.label
				break
			}
		}
		if taskType != "General Task" {
			break
		}
	}

	verbs := 0
	for _, w := range words {
		for _, v := range actionVerbs {
			if strings.TrimRight(w, ".,;:") == v {
				verbs++
				break
			}
		}
	}

	complexity := ComplexityMedium
	switch {
	case len(words) >= highComplexityMinWords || verbs >= highComplexityMinVerbs:
		complexity = ComplexityHigh
	case len(words) <= lowComplexityMaxWords && verbs <= 1:
		complexity = ComplexityLow
	}

	return Job{Task: task, TaskType: taskType, Complexity: complexity}
}

// ActionVerbs exposes the shared imperative verb list.
func ActionVerbs() []string {
	return actionVerbs
}
