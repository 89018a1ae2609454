package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxFrameSize   = 64 * 1024  // WebSocket frame
	MaxMessageSize = 16 * 1024  // chat prompt
	MaxContentSize = 512 * 1024 // file content written through the API
)

// String length limits
const (
	MaxIDLength      = 128
	MaxNameLength    = 255
	MaxCommandLength = 4096
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateName validates a node name field
func ValidateName(name, fieldName string) error {
	return ValidateString(name, fieldName, 1, MaxNameLength, true)
}

// ValidateCommand validates one terminal command line. Blank lines are
// allowed; the shell ignores them.
func ValidateCommand(line string) error {
	return ValidateString(line, "line", 0, MaxCommandLength, false)
}

// ValidateContent checks file content size
func ValidateContent(content string) error {
	if len(content) > MaxContentSize {
		return fmt.Errorf("content size %d bytes exceeds maximum %d bytes", len(content), MaxContentSize)
	}
	if strings.Contains(content, "\x00") {
		return fmt.Errorf("content contains invalid characters")
	}
	return nil
}

// ValidateMessage validates a chat message
func ValidateMessage(message string) error {
	if err := ValidateString(message, "message", 1, MaxMessageSize, true); err != nil {
		return err
	}

	// Check for excessive whitespace (potential DoS)
	whitespaceCount := 0
	for _, r := range message {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			whitespaceCount++
		}
	}

	if whitespaceCount > len(message)/2 {
		return fmt.Errorf("message contains excessive whitespace")
	}

	return nil
}
