// internal/workers/assistant/process-shopping-message/models.go
package processshoppingmessage

import "shopping-assistant/internal/models"

type Input struct {
	Message string `json:"message"`
}

// Output is written back to the process instance as the reply, intent and suggestions variables.
type Output struct {
	Reply       string                   `json:"reply"`
	Intent      string                   `json:"intent"`
	Suggestions models.AssistantResponse `json:"suggestions"`
}
