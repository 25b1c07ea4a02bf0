package tools

import (
	"fmt"

	verrors "github.com/BenAHammond/v0-mcp-server-sub001/internal/errors"
	"github.com/BenAHammond/v0-mcp-server-sub001/internal/foundation"
)

// Tool names as exposed over MCP.
const (
	GenerateComponent = "generate_component"
	IterateComponent  = "iterate_component"
)

const maxPromptLength = 10000

// GenerateInput are the arguments of generate_component.
type GenerateInput struct {
	Prompt      string `json:"prompt" jsonschema:"description of the component to generate"`
	System      string `json:"system,omitempty" jsonschema:"optional system instructions for the generator"`
	Model       string `json:"model,omitempty" jsonschema:"model id such as v0-1.5-md"`
	ChatPrivacy string `json:"chatPrivacy,omitempty" jsonschema:"chat visibility such as private or public"`
	ProjectID   string `json:"projectId,omitempty" jsonschema:"v0 project to create the chat in"`
}

// IterateInput are the arguments of iterate_component.
type IterateInput struct {
	ChatID string `json:"chatId" jsonschema:"id of the chat returned by generate_component"`
	Prompt string `json:"prompt" jsonschema:"the change to make"`
}

var models = foundation.NewNormalizer(map[string]string{
	"v0-1.5-sm": "v0-1.5-sm",
	"v0-1.5-md": "v0-1.5-md",
	"v0-1.5-lg": "v0-1.5-lg",
}, "")

var privacies = foundation.NewNormalizer(map[string]string{
	"public":    "public",
	"private":   "private",
	"team":      "team",
	"team-edit": "team-edit",
	"unlisted":  "unlisted",
}, "")

var generateValidator = foundation.NewValidatorChain(
	foundation.Field(func(in GenerateInput) string { return in.Prompt },
		foundation.Required("prompt", "Describe the component you want, e.g. \"a pricing card with three tiers\"")),
	foundation.Field(func(in GenerateInput) string { return in.Prompt }, foundation.MaxLength("prompt", maxPromptLength)),
	foundation.Field(func(in GenerateInput) string { return in.System }, foundation.MaxLength("system", maxPromptLength)),
	foundation.Field(func(in GenerateInput) string { return in.Model }, foundation.OneOf("model", models)),
	foundation.Field(func(in GenerateInput) string { return in.ChatPrivacy }, foundation.OneOf("chatPrivacy", privacies)),
)

var iterateValidator = foundation.NewValidatorChain(
	foundation.Field(func(in IterateInput) string { return in.ChatID },
		foundation.Required("chatId", "Pass the chatId returned by generate_component")),
	foundation.Field(func(in IterateInput) string { return in.Prompt },
		foundation.Required("prompt", "Describe the change you want")),
	foundation.Field(func(in IterateInput) string { return in.Prompt }, foundation.MaxLength("prompt", maxPromptLength)),
)

// ValidateGenerate reports the first invalid argument as a VALIDATION_ERROR.
func ValidateGenerate(in GenerateInput) *verrors.McpError {
	return firstFieldError(generateValidator.Validate(in))
}

// ValidateIterate reports the first invalid argument as a VALIDATION_ERROR.
func ValidateIterate(in IterateInput) *verrors.McpError {
	return firstFieldError(iterateValidator.Validate(in))
}

func firstFieldError(res foundation.ValidationResult) *verrors.McpError {
	fe, ok := res.First()
	if !ok {
		return nil
	}
	return verrors.FieldValidationError(fe.Field, fe.Reason, fe.Suggestion)
}

// DecodeGenerate reads generate_component arguments from a decoded JSON
// object. A non-string value yields a *errors.TypeError.
func DecodeGenerate(args map[string]any) (GenerateInput, error) {
	var in GenerateInput
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"prompt", &in.Prompt},
		{"system", &in.System},
		{"model", &in.Model},
		{"chatPrivacy", &in.ChatPrivacy},
		{"projectId", &in.ProjectID},
	} {
		if err := stringArg(args, f.key, f.dst); err != nil {
			return GenerateInput{}, err
		}
	}
	return in, nil
}

// DecodeIterate reads iterate_component arguments from a decoded JSON object.
func DecodeIterate(args map[string]any) (IterateInput, error) {
	var in IterateInput
	if err := stringArg(args, "chatId", &in.ChatID); err != nil {
		return IterateInput{}, err
	}
	if err := stringArg(args, "prompt", &in.Prompt); err != nil {
		return IterateInput{}, err
	}
	return in, nil
}

func stringArg(args map[string]any, key string, dst *string) error {
	v, ok := args[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return &verrors.TypeError{Field: key, Expected: "a string", Actual: jsonKind(v)}
	}
	*dst = s
	return nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
