package toolbox

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ceabridge/internal/ceacli"
	"ceabridge/internal/msglog"
)

// Parameter names of the demand tool.
const (
	ParamScenario = "scenario_path"
	ParamWeather  = "weather_name"
)

// DemandTool bridges the CEA demand simulation to a host UI.
type DemandTool struct {
	Client *ceacli.Client
	Sink   msglog.Sink
	Log    *zap.Logger
}

var _ Tool = (*DemandTool)(nil)

func NewDemandTool(client *ceacli.Client, sink msglog.Sink, log *zap.Logger) *DemandTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &DemandTool{Client: client, Sink: sink, Log: log}
}

func (t *DemandTool) Label() string       { return "Demand" }
func (t *DemandTool) Description() string { return "Calculate the Demand" }

// Parameters declares the scenario folder and the weather selection. The
// weather choice list comes from the CLI's registered weather files; a
// free-form .epw path is also accepted at execution time.
func (t *DemandTool) Parameters(ctx context.Context) ([]Parameter, error) {
	names, err := t.Client.WeatherNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("declaring weather choices: %w", err)
	}
	return []Parameter{
		{
			Name:        ParamScenario,
			DisplayName: "Path to the scenario",
			DataType:    TypeFolder,
			Required:    true,
		},
		{
			Name:        ParamWeather,
			DisplayName: "Weather file (choose from list or enter full path to .epw file)",
			DataType:    TypeString,
			Required:    true,
			Choices:     names,
		},
	}, nil
}

// Validate checks that the scenario exists and that the radiation and
// surface-properties results are present. The two data checks run
// independently of each other's outcome; neither blocks execution.
func (t *DemandTool) Validate(ctx context.Context, values Values) []ValidationMessage {
	scenario := values[ParamScenario]
	if scenario == "" {
		return nil
	}
	if _, err := os.Stat(scenario); err != nil {
		return []ValidationMessage{{
			Parameter: ParamScenario,
			Text:      fmt.Sprintf("Scenario folder not found: %s", scenario),
		}}
	}

	var msgs []ValidationMessage
	if !t.scenarioFileExists(ctx, scenario, ceacli.LocateRadiation) {
		msgs = append(msgs, ValidationMessage{
			Parameter: ParamScenario,
			Text:      "No radiation data found for scenario. Run radiation script first.",
		})
	}
	if !t.scenarioFileExists(ctx, scenario, ceacli.LocateSurfaceProperties) {
		msgs = append(msgs, ValidationMessage{
			Parameter: ParamScenario,
			Text:      "No surface properties found for scenario. Run radiation script first.",
		})
	}
	return msgs
}

func (t *DemandTool) scenarioFileExists(ctx context.Context, scenario, key string) bool {
	path, err := t.Client.Locate(ctx, scenario, key)
	if err != nil || path == "" {
		t.Log.Debug("locate failed during validation", zap.String("key", key), zap.Error(err))
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Execute resolves the weather selection to a concrete file and streams
// the demand simulation's output to the sink, line by line, as it arrives.
func (t *DemandTool) Execute(ctx context.Context, values Values) error {
	scenario := values[ParamScenario]
	if scenario == "" {
		return fmt.Errorf("%s is required", ParamScenario)
	}

	weatherPath, err := t.Client.ResolveWeather(ctx, values[ParamWeather])
	if err != nil {
		return fmt.Errorf("resolving weather selection: %w", err)
	}

	t.Log.Info("running demand",
		zap.String("scenario", scenario),
		zap.String("weather", weatherPath),
	)
	return t.Client.RunDemand(ctx, scenario, weatherPath, t.Sink)
}
