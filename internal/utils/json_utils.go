package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSONObject unmarshals a model answer into v. Models sometimes wrap
// the object in prose or code fences, so when the text is not valid JSON the
// span between the first '{' and the last '}' is tried instead.
func DecodeJSONObject(text string, v any) error {
	err := json.Unmarshal([]byte(text), v)
	if err == nil {
		return nil
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("failed to extract JSON from response: %w", err)
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("failed to parse response as JSON: %w", err)
	}
	return nil
}
