package assist

import "fmt"

func generateCodePrompt(codeContext, task string) string {
	return fmt.Sprintf("Context: %s\n\nTask: %s\n\nGenerate code for this task:", codeContext, task)
}

func refactorPrompt(code string) string {
	return fmt.Sprintf("Review the following code and suggest refactorings that improve "+
		"readability and maintainability. Show the refactored code.\n\nCode:\n%s", code)
}

func recommendationsPrompt(topic, codeContext, userLevel string) string {
	if userLevel == "" {
		userLevel = "intermediate"
	}
	return fmt.Sprintf("Recommend learning resources about %q for a %s developer.\n\n"+
		"Current code context:\n%s\n\nList a few resources with one line on why each helps:",
		topic, userLevel, codeContext)
}

func debugPrompt(errorMessage, code string) string {
	return fmt.Sprintf("Error message: %s\n\nCode snippet:\n%s\n\nExplain this error and suggest a fix:", errorMessage, code)
}

func qaPrompt(question, questionContext string) string {
	return fmt.Sprintf("Context: %s\n\nQuestion: %s\n\nAnswer:", questionContext, question)
}
