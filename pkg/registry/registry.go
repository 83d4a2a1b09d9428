// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	TaskProcessShoppingMessage = "process-shopping-message"
	TaskAddToCart              = "add-to-cart"

	// ChatMessageSchemaID is the schema applied to POST /api/assistant/messages bodies.
	ChatMessageSchemaID = "chat-message"
)

// LoadRegistry reads a registry JSON file.
func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// LoadOrDefault returns the file registry when path is set, Default() otherwise.
func LoadOrDefault(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadRegistry(path)
}

func messageSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"message"},
		"properties": map[string]interface{}{
			"message": map[string]interface{}{
				"type":      "string",
				"minLength": 1,
				"maxLength": 2000,
			},
		},
	}
}

// Default is the built-in registry of every task type this service implements.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-10-01",
		Activities: []Activity{
			{
				ID:                   "assistant.process-shopping-message",
				DisplayName:          "Process Shopping Message",
				Description:          "Classifies a shopper message and returns a reply with up to three product suggestions",
				Category:             "assistant",
				Version:              "1.0.0",
				TaskType:             TaskProcessShoppingMessage,
				ImplementationStatus: StatusImplemented,
				InputSchema:          messageSchema(),
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"reply", "intent", "suggestions"},
				},
				ErrorCodes: []string{"INPUT_VALIDATION_FAILED"},
				Timeout:    "10s",
				Retries:    1,
				Tags:       []string{"chat", "recommendation"},
			},
			{
				ID:                   "cart.add-to-cart",
				DisplayName:          "Add To Cart",
				Description:          "Adds a catalog product to a shopper's cart",
				Category:             "cart",
				Version:              "1.0.0",
				TaskType:             TaskAddToCart,
				ImplementationStatus: StatusImplemented,
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"cartId", "productId"},
					"properties": map[string]interface{}{
						"cartId":    map[string]interface{}{"type": "string", "minLength": 1},
						"productId": map[string]interface{}{"type": "integer", "minimum": 1},
					},
				},
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"cart", "confirmation"},
				},
				ErrorCodes: []string{"INPUT_VALIDATION_FAILED", "PRODUCT_NOT_FOUND", "CART_STORE_FAILED"},
				Timeout:    "10s",
				Retries:    3,
				Tags:       []string{"cart"},
			},
			{
				ID:                   "http.chat-message",
				DisplayName:          "Chat Message Request",
				Description:          "Body of POST /api/assistant/messages",
				Category:             "http",
				Version:              "1.0.0",
				TaskType:             ChatMessageSchemaID,
				ImplementationStatus: StatusImplemented,
				InputSchema:          messageSchema(),
				ErrorCodes:           []string{"INVALID_MESSAGE"},
				Tags:                 []string{"http"},
			},
		},
	}
}

// Validate checks that every activity carries the identifying fields, that IDs
// and task types are unique, and that the given task types are all present.
func (r *ActivityRegistry) Validate(requiredTaskTypes ...string) error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true
	}

	for _, taskType := range requiredTaskTypes {
		if !taskTypes[taskType] {
			return fmt.Errorf("registry has no activity for task type %s", taskType)
		}
	}
	return nil
}

// RequiredTaskTypes lists the activities the service looks up at startup.
func RequiredTaskTypes() []string {
	return []string{TaskProcessShoppingMessage, TaskAddToCart, ChatMessageSchemaID}
}

// Save writes the registry as indented JSON, creating parent directories.
func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
