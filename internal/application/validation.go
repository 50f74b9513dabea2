package application

import (
	"fmt"
	"strings"

	"xmlpad/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "nodePath" -> "node path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"nodePath":   "node path",
		"targetPath": "target path",
		"nodeType":   "node type",
		"qname":      "name",
		"entryID":    "history entry ID",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateNodeType parses a node kind name and checks that it can be edited.
// Returns a ValidationError for unknown or read-only kinds.
func ValidateNodeType(fieldName, value string) (NodeType, error) {
	kind, ok := domain.ParseNodeType(value)
	if !ok {
		return domain.NodeNone, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown %s: %q", formatFieldName(fieldName), value),
		}
	}
	for _, k := range EditableKinds() {
		if k == kind {
			return kind, nil
		}
	}
	return domain.NodeNone, &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("%s cannot be edited: %s", formatFieldName(fieldName), kind),
	}
}

// ValidateNodePath parses a node path. Returns a ValidationError when it is malformed.
func ValidateNodePath(fieldName, value string) (NodePath, error) {
	path, err := domain.ParseNodePath(value)
	if err != nil {
		return nil, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %v", formatFieldName(fieldName), err),
		}
	}
	return path, nil
}

// ValidateQName checks an element, attribute or processing instruction name
func ValidateQName(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if err := domain.ValidateQName(value); err != nil {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("invalid %s: %q", formatFieldName(fieldName), value),
		}
	}
	return nil
}
