package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt     ParamType = "int"
	ParamTypeFloat   ParamType = "float"
	ParamTypeString  ParamType = "string"
	ParamTypeEnum    ParamType = "enum"
	ParamTypePercent ParamType = "percent"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a client can use to validate input before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

var zero = 0.0

// GenerateTooltip renders a one-paragraph help text for a command.
func GenerateTooltip(c stdimg.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" No parameters.")
		return sb.String()
	}
	sb.WriteString(" Parameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if len(a.Choices) > 0 {
			sb.WriteString(" [" + strings.Join(a.Choices, "|") + "]")
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRules derives validation rules from a command's args.
func GenerateValidationRules(c stdimg.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		r := ValidationRule{Required: a.Required, Hint: a.Description, Example: a.Default}
		switch strings.ToLower(a.Type) {
		case "int":
			r.Type = ParamTypeInt
			r.Min = &zero
		case "float":
			r.Type = ParamTypeFloat
		case "percent":
			r.Type = ParamTypePercent
			r.Min = &zero
		case "enum":
			r.Type = ParamTypeEnum
			r.EnumOptions = a.Choices
		default:
			r.Type = ParamTypeString
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes the engine command registry by name.
type MetaStore struct {
	Commands []stdimg.CommandSpec
	byName   map[string]stdimg.CommandSpec
}

// NewMetaStore creates a MetaStore from a command list.
func NewMetaStore(cmds []stdimg.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]stdimg.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs validates positional args for cmdName and rewrites them into
// the canonical form the engine parses: integers without signs or padding,
// percentages as plain factors, enum values in their canonical spelling.
// Missing optional args are filled with their defaults.
func (m *MetaStore) NormalizeArgs(cmdName string, args []string) ([]string, error) {
	c, ok := m.byName[cmdName]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d parameters, got %d", cmdName, len(c.Args), len(args))
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			out[i] = a.Default
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			if vr.Min != nil && float64(v) < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %d < min %v", a.Name, v, *vr.Min)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypePercent:
			f, err := parsePercentValue(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			if vr.Min != nil && f <= *vr.Min {
				return nil, fmt.Errorf("parameter %s: must be greater than %v", a.Name, *vr.Min)
			}
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		case ParamTypeEnum:
			v, err := normalizeEnum(a, raw)
			if err != nil {
				return nil, err
			}
			out[i] = v
		default:
			out[i] = raw
		}
	}
	// drop trailing empty optionals so the engine sees its own defaults
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out, nil
}

// parsePercentValue parses "150%" as 1.5 and "1.5" as 1.5.
func parsePercentValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if p, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percent value: %q", s)
		}
		return f / 100, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %q", s)
	}
	return f, nil
}

func normalizeEnum(a stdimg.ArgSpec, raw string) (string, error) {
	if a.Name == "strategy" {
		s, err := bicubic.ParseStrategy(raw)
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", a.Name, err)
		}
		return s.String(), nil
	}
	for _, c := range a.Choices {
		if strings.EqualFold(c, raw) {
			return c, nil
		}
	}
	return "", fmt.Errorf("parameter %s: %q is not one of %s", a.Name, raw, strings.Join(a.Choices, ", "))
}
