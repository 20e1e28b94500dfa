package prompts

import "fmt"

// CoordinatorPrompt returns the system prompt for the workflow coordination
// stage. The coordinator does not emit structured output; its reply is kept
// as an advisory message in the workflow transcript.
func CoordinatorPrompt(migrationID, sourcePlatform, destinationPlatform string) string {
	return fmt.Sprintf(`As the Migration Coordinator, you are orchestrating a complex e-commerce platform migration.

Migration Details:
- ID: %s
- Source: %s
- Destination: %s

Your role is to ensure all agents work in harmony to deliver a successful migration.
Coordinate the workflow and provide guidance for the specialized agents.`,
		migrationID, sourcePlatform, destinationPlatform)
}

// ErrorAnalysisPrompt returns the prompt used to analyze a workflow error
// and recommend a recovery strategy.
func ErrorAnalysisPrompt(stage, errorMessage, timestamp string) string {
	return fmt.Sprintf(`An error occurred during the migration workflow:

Stage: %s
Error: %s
Time: %s

Analyze this error and recommend a recovery strategy:
1. Can this be retried automatically?
2. Does this require manual intervention?
3. Should the workflow be aborted?

Provide a structured response with your recommendation.`,
		stage, errorMessage, timestamp)
}
