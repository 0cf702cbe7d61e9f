// Package toolbox exposes CEA operations to a host UI the way the ArcGIS
// toolbox did: each tool declares its parameters, validates them without
// blocking execution, and bridges execution to the external CEA command
// line. Tools are stateless per invocation; the host owns the lifecycle
// (declare -> validate -> execute).
package toolbox

import "context"

// DataType hints how a host should render a parameter.
type DataType string

const (
	TypeFolder DataType = "folder"
	TypeString DataType = "string"
)

// Parameter describes one tool input.
type Parameter struct {
	Name        string
	DisplayName string
	DataType    DataType
	Required    bool

	// Choices, when non-empty, enumerates known-good values. Hosts may
	// still pass free-form values; tools decide what those mean.
	Choices []string
}

// Values holds the host-supplied parameter values by parameter name.
type Values map[string]string

// ValidationMessage is a non-blocking problem report. Validation never
// prevents a later Execute; it only tells the host what to surface.
type ValidationMessage struct {
	Parameter string
	Text      string
}

// Tool is one operation a host can declare, validate and execute.
type Tool interface {
	Label() string
	Description() string

	// Parameters declares the tool inputs, including any enumerated
	// choices that need a round trip to the CEA CLI.
	Parameters(ctx context.Context) ([]Parameter, error)

	// Validate reports problems with the given values. All checks run
	// independently; one failing check never short-circuits another of
	// the same rank.
	Validate(ctx context.Context, values Values) []ValidationMessage

	// Execute runs the tool to completion.
	Execute(ctx context.Context, values Values) error
}

// Toolbox is the named collection of tools a host integrates.
type Toolbox struct {
	Label string
	Alias string
	Tools []Tool
}

// New assembles the standard CEA toolbox.
func New(tools ...Tool) *Toolbox {
	return &Toolbox{
		Label: "City Energy Analyst",
		Alias: "cea",
		Tools: tools,
	}
}
