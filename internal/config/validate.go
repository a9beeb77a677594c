package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError reports a config problem with the file and, when known,
// the position or key it was found at.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks that a config file is a YAML mapping made of
// known keys. A missing or blank file is valid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if errors.Is(err, os.ErrPermission) {
			return &ValidationError{FilePath: filePath, Message: "permission denied"}
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return checkKeys(&doc, filePath)
}

// checkKeys rejects documents that are not a mapping and keys gitrelease
// does not read, so a misspelt "submodul:" fails loudly instead of being ignored.
func checkKeys(doc *yaml.Node, filePath string) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return &ValidationError{
			FilePath: filePath,
			Line:     root.Line,
			Column:   root.Column,
			Message:  "config must be a mapping of keys to values",
		}
	}

	known := GetDefaults()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if _, ok := known[key.Value]; !ok {
			return &ValidationError{
				FilePath: filePath,
				Line:     key.Line,
				Column:   key.Column,
				Field:    key.Value,
				Message:  fmt.Sprintf("unknown key %q", key.Value),
			}
		}
	}
	return nil
}

// ValidateConfigValues checks the validate struct tags of the configuration
// and reports the first failing key.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(koanfFieldName)

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			FilePath: filePath,
			Field:    fieldErrs[0].Field(),
			Message:  describeFieldError(fieldErrs[0]),
		}
	}
	return &ValidationError{FilePath: filePath, Message: err.Error()}
}

// koanfFieldName makes validator report fields by their config key.
func koanfFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// extractLineColumn reads the position out of a yaml.v3 error such as
// "yaml: line 5: did not find expected ','". Returns 0, 0 when absent.
func extractLineColumn(msg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(msg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(msg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError strips the "yaml: line N:" prefix.
func cleanYAMLError(msg string) string {
	if !strings.HasPrefix(msg, "yaml:") {
		return msg
	}
	if idx := strings.LastIndex(msg, ": "); idx > 0 {
		return msg[idx+2:]
	}
	return msg
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return fmt.Sprintf("must be a valid URL (got %q)", fe.Value())
	default:
		return "failed validation: " + fe.Tag()
	}
}
