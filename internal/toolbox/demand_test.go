package toolbox

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ceabridge/internal/ceacli"
	"ceabridge/internal/msglog"
)

// demandStub stands in for the CEA CLI. Weather listing and lookup agree;
// locate answers come from the RAD/SURF environment variables; the demand
// subcommand reports the weather file it was given.
const demandStub = `#!/bin/sh
shift 3
CEA_SCENARIO=""
if [ "$1" = "--scenario" ]; then
  CEA_SCENARIO="$2"
  shift 2
fi
case "$1" in
  weather-files) printf 'Zug\nZurich-Kloten\n' ;;
  weather-path)  echo "/weather/$2.epw" ;;
  locate)
    case "$2" in
      get_radiation)          echo "$RAD" ;;
      get_surface_properties) echo "$SURF" ;;
    esac ;;
  demand) echo "demand scenario=$CEA_SCENARIO weather=$3" ;;
  *) exit 1 ;;
esac
`

func stubDemandTool(t *testing.T) (*DemandTool, *msglog.Buffer) {
	t.Helper()
	stub := filepath.Join(t.TempDir(), "python")
	if err := os.WriteFile(stub, []byte(demandStub), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	client, err := ceacli.NewClient(ceacli.Interpreter{Python: stub}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	buf := msglog.NewBuffer()
	return NewDemandTool(client, buf, nil), buf
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
	return path
}

func TestNew_AssemblesCEAToolbox(t *testing.T) {
	tool, _ := stubDemandTool(t)

	tb := New(tool)
	if tb.Label != "City Energy Analyst" || tb.Alias != "cea" {
		t.Errorf("toolbox identity = %q/%q", tb.Label, tb.Alias)
	}
	if len(tb.Tools) != 1 || tb.Tools[0].Label() != "Demand" {
		t.Errorf("tools = %+v", tb.Tools)
	}
}

func TestDemandTool_ParametersDeclareWeatherChoices(t *testing.T) {
	tool, _ := stubDemandTool(t)

	params, err := tool.Parameters(context.Background())
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}
	if len(params) != 2 {
		t.Fatalf("parameter count = %d", len(params))
	}
	if params[0].Name != ParamScenario || !params[0].Required || params[0].DataType != TypeFolder {
		t.Errorf("scenario parameter = %+v", params[0])
	}
	if params[1].Name != ParamWeather || len(params[1].Choices) != 2 || params[1].Choices[0] != "Zug" {
		t.Errorf("weather parameter = %+v", params[1])
	}
}

func TestDemandTool_ValidateMissingScenario(t *testing.T) {
	tool, _ := stubDemandTool(t)

	msgs := tool.Validate(context.Background(), Values{
		ParamScenario: filepath.Join(t.TempDir(), "absent"),
	})
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "Scenario folder not found") {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestDemandTool_ValidateEmptyScenarioIsSilent(t *testing.T) {
	tool, _ := stubDemandTool(t)
	if msgs := tool.Validate(context.Background(), Values{}); msgs != nil {
		t.Fatalf("messages = %+v", msgs)
	}
}

// Radiation and surface-properties checks run independently: each missing
// file produces its own message.
func TestDemandTool_ValidateDataChecksAreIndependent(t *testing.T) {
	tool, _ := stubDemandTool(t)
	scenario := t.TempDir()
	dataDir := t.TempDir()

	rad := touch(t, dataDir, "radiation.csv")
	surf := touch(t, dataDir, "properties_surfaces.csv")

	cases := []struct {
		name      string
		rad, surf string
		wantMsgs  int
	}{
		{"both present", rad, surf, 0},
		{"radiation missing", filepath.Join(dataDir, "absent_rad.csv"), surf, 1},
		{"surface missing", rad, filepath.Join(dataDir, "absent_surf.csv"), 1},
		{"both missing", filepath.Join(dataDir, "absent_rad.csv"), filepath.Join(dataDir, "absent_surf.csv"), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("RAD", tc.rad)
			t.Setenv("SURF", tc.surf)
			msgs := tool.Validate(context.Background(), Values{ParamScenario: scenario})
			if len(msgs) != tc.wantMsgs {
				t.Errorf("messages = %+v, want %d", msgs, tc.wantMsgs)
			}
		})
	}
}

func TestDemandTool_ExecuteResolvesRegisteredWeather(t *testing.T) {
	tool, buf := stubDemandTool(t)
	scenario := t.TempDir()

	err := tool.Execute(context.Background(), Values{
		ParamScenario: scenario,
		ParamWeather:  "Zug",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	msgs := buf.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", msgs)
	}
	want := "demand scenario=" + scenario + " weather=/weather/Zug.epw"
	if msgs[0] != want {
		t.Errorf("streamed %q, want %q", msgs[0], want)
	}
}

func TestDemandTool_ExecuteFallsBackToDefaultWeather(t *testing.T) {
	tool, buf := stubDemandTool(t)
	scenario := t.TempDir()

	err := tool.Execute(context.Background(), Values{
		ParamScenario: scenario,
		ParamWeather:  "NoSuchPlace",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	msgs := buf.Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "weather=/weather/default.epw") {
		t.Errorf("messages = %v", msgs)
	}
}

func TestDemandTool_ExecuteRequiresScenario(t *testing.T) {
	tool, _ := stubDemandTool(t)
	if err := tool.Execute(context.Background(), Values{ParamWeather: "Zug"}); err == nil {
		t.Fatal("expected error for missing scenario")
	}
}
