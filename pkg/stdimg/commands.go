// Package stdimg: authoritative registry of engine commands.
//
// This file mirrors the commands implemented in ApplyCommand in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth.

package stdimg

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "percent", "enum", "string"
	Required    bool
	Default     string // textual default
	Description string
	Choices     []string // for "enum"
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

var strategyChoices = []string{"sequential", "parallel"}

// Commands is the authoritative list of commands implemented by the engine.
// Keep this synchronized with ApplyCommand in pkg/stdimg/engine.go.
var Commands = []CommandSpec{
	{
		Name: "resize",
		Args: []ArgSpec{
			{Name: "width", Type: "int", Required: true, Description: "output width"},
			{Name: "height", Type: "int", Required: true, Description: "output height"},
			{Name: "strategy", Type: "enum", Description: "execution strategy", Choices: strategyChoices},
		},
		Usage:       "resize <width> <height> [strategy]",
		Description: "Resize image using bicubic cubic convolution (a=-0.5).",
	},
	{
		Name: "scale",
		Args: []ArgSpec{
			{Name: "factor", Type: "percent", Required: true, Description: "scale factor, e.g. 2, 0.5 or 150%"},
			{Name: "strategy", Type: "enum", Description: "execution strategy", Choices: strategyChoices},
		},
		Usage:       "scale <factor> [strategy]",
		Description: "Scale both sides by the same factor.",
	},
	{
		Name: "adaptiveResize",
		Args: []ArgSpec{
			{Name: "width", Type: "int", Required: true, Default: "0", Description: "target width (0 = preserve aspect)"},
			{Name: "height", Type: "int", Default: "0", Description: "target height (0 = preserve aspect)"},
		},
		Usage:       "adaptiveResize <width> [height]",
		Description: "Resize preserving aspect ratio when one side is 0.",
	},
	{
		Name:        "identify",
		Usage:       "identify",
		Description: "Print image format and dimensions.",
	},
	{
		Name:        "strip",
		Usage:       "strip",
		Description: "Drop metadata; the image is re-encoded on save.",
	},
}

// LookupCommand returns the registry entry for name.
func LookupCommand(name string) (CommandSpec, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
