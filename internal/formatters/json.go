package formatters

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const prettyIndent = "    "

// JSONFormatter renders reports as JSON, compact unless Pretty is set
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) Description() string {
	return "JSON object mapping each date to its description (compact, or 4-space indented with -pretty)"
}

func (f *JSONFormatter) Format(report *Report, options Options) (string, error) {
	value, err := payload(report, options)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	compact := bytes.TrimRight(buf.Bytes(), "\n")

	if !options.Pretty {
		return string(compact), nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, compact, "", prettyIndent); err != nil {
		return "", fmt.Errorf("failed to indent JSON: %w", err)
	}
	return pretty.String(), nil
}
