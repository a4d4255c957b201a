package ai

// FallbackSubtasks is the deterministic payload served when the model is
// unavailable or returns something unusable.
func FallbackSubtasks() []string {
	return []string{
		"Review and understand the task requirements",
		"Plan your approach and resources",
		"Execute the task step by step",
		"Review and validate the results",
	}
}

// FallbackInsights is the deterministic insight served when the model fails.
func FallbackInsights() string {
	return "I'm having trouble analyzing your journal right now. Please try again later."
}
