package translate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

// parseTranslation extracts the translated text from a model reply
func parseTranslation(responseText string) (string, error) {
	responseText = cleanJSONResponse(responseText)
	if responseText == "" {
		return "", ErrEmptyResult
	}

	results, err := extractTranslationResults(responseText)
	if err != nil {
		// models sometimes answer with the bare translation
		if !strings.ContainsAny(responseText, "[{") {
			return responseText, nil
		}
		return "", fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(responseText, 200),
		)
	}

	for _, r := range results {
		if text := strings.TrimSpace(r.Text); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyResult
}

func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// escapes backslashes that do not start a valid JSON escape, so a literal
// sequence like \N survives decoding
func fixInvalidEscapes(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			result.WriteByte(s[i])
			continue
		}
		switch next := s[i+1]; next {
		case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
			result.WriteByte('\\')
			result.WriteByte(next)
		default:
			result.WriteString("\\\\")
			result.WriteByte(next)
		}
		i++
	}

	return result.String()
}

func extractTranslationResults(text string) ([]promptItem, error) {
	text = fixInvalidEscapes(text)

	for i := 0; i < len(text); i++ {
		if text[i] != '[' && text[i] != '{' {
			continue
		}
		decoder := json.NewDecoder(strings.NewReader(text[i:]))
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			continue
		}
		if results, ok := tryExtractResults(raw); ok {
			return results, nil
		}
	}
	return nil, fmt.Errorf("no valid translation JSON found in response")
}

func tryExtractResults(raw json.RawMessage) ([]promptItem, bool) {
	var results []promptItem
	if err := json.Unmarshal(raw, &results); err == nil && hasText(results) {
		return results, true
	}

	var single promptItem
	if err := json.Unmarshal(raw, &single); err == nil && single.Text != "" {
		return []promptItem{single}, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	for _, key := range []string{"results", "translations", "data", "items"} {
		fieldRaw, exists := wrapper[key]
		if !exists {
			continue
		}
		var fieldResults []promptItem
		if err := json.Unmarshal(fieldRaw, &fieldResults); err == nil &&
			hasText(fieldResults) {
			return fieldResults, true
		}
	}
	return nil, false
}

func hasText(results []promptItem) bool {
	for _, r := range results {
		if r.Text != "" {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
