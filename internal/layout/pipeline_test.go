package layout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ceabridge/internal/config"
	"ceabridge/internal/locator"
)

// recordingStages captures every request in invocation order.
type recordingStages struct {
	calls []string

	substation   SubstationRequest
	connectivity ConnectivityRequest
	tree         TreeRequest

	failAt string
}

func (r *recordingStages) PlaceSubstations(_ context.Context, req SubstationRequest) error {
	r.calls = append(r.calls, StageSubstations)
	r.substation = req
	if r.failAt == StageSubstations {
		return errors.New("substation failure")
	}
	return nil
}

func (r *recordingStages) BuildPotentialNetwork(_ context.Context, req ConnectivityRequest) error {
	r.calls = append(r.calls, StageConnectivity)
	r.connectivity = req
	if r.failAt == StageConnectivity {
		return errors.New("connectivity failure")
	}
	return nil
}

func (r *recordingStages) ComputeTree(_ context.Context, req TreeRequest) error {
	r.calls = append(r.calls, StageTree)
	r.tree = req
	if r.failAt == StageTree {
		return errors.New("tree failure")
	}
	return nil
}

func testConfig() config.Config {
	cfg := config.Default("/projects/baseline")
	cfg.NetworkLayout.Buildings = []string{"B01", "B02"}
	cfg.NetworkLayout.CreatePlant = true
	cfg.ThermalNetwork.DisconnectedBuildings = []string{"B09"}
	return cfg
}

func newTestPipeline(cfg config.Config, stages *recordingStages, events Sink) *Pipeline {
	return &Pipeline{
		Config:       cfg,
		Locator:      locator.New(cfg.Scenario),
		Substations:  stages,
		Connectivity: stages,
		Tree:         stages,
		Events:       events,
	}
}

func TestPipeline_StageOrderAndPathHandoff(t *testing.T) {
	cfg := testConfig()
	stages := &recordingStages{}
	rec := NewRecorder()
	pipe := newTestPipeline(cfg, stages, rec)

	res, err := pipe.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Fixed order: substations -> connectivity -> tree.
	if len(stages.calls) != 3 ||
		stages.calls[0] != StageSubstations ||
		stages.calls[1] != StageConnectivity ||
		stages.calls[2] != StageTree {
		t.Fatalf("stage order = %v", stages.calls)
	}

	// Each stage receives the previous stage's output.
	if stages.connectivity.SubstationsShapefile != stages.substation.SubstationsShapefile {
		t.Errorf("connectivity got substations %q, substation stage wrote %q",
			stages.connectivity.SubstationsShapefile, stages.substation.SubstationsShapefile)
	}
	if stages.tree.PotentialNetworkShapefile != stages.connectivity.PotentialNetworkShapefile {
		t.Errorf("tree got potential network %q, connectivity wrote %q",
			stages.tree.PotentialNetworkShapefile, stages.connectivity.PotentialNetworkShapefile)
	}
	if stages.tree.SubstationsShapefile != stages.substation.SubstationsShapefile {
		t.Errorf("tree got substations %q", stages.tree.SubstationsShapefile)
	}

	// Inputs resolved through the locator.
	wantZone := filepath.FromSlash("/projects/baseline/inputs/building-geometry/zone.shp")
	if stages.substation.BuildingsShapefile != wantZone {
		t.Errorf("zone geometry = %q", stages.substation.BuildingsShapefile)
	}
	wantStreets := filepath.FromSlash("/projects/baseline/inputs/networks/streets.shp")
	if stages.connectivity.PathsShapefile != wantStreets {
		t.Errorf("paths shapefile = %q (default input name must be streets)", stages.connectivity.PathsShapefile)
	}

	// Settings threaded into the tree request.
	tr := stages.tree
	if tr.WeightField != WeightField {
		t.Errorf("weight field = %q", tr.WeightField)
	}
	if tr.PipeMaterial != config.DefaultPipeMaterial || tr.PipeDiameter != config.DefaultPipeDiameter {
		t.Errorf("pipe defaults = %q/%v", tr.PipeMaterial, tr.PipeDiameter)
	}
	if !tr.CreatePlant {
		t.Error("create plant not threaded through")
	}
	if len(tr.DisconnectedBuildings) != 1 || tr.DisconnectedBuildings[0] != "B09" {
		t.Errorf("disconnected buildings = %v", tr.DisconnectedBuildings)
	}
	if tr.Strategy != config.TreeSteiner {
		t.Errorf("strategy = %q, want steiner by default", tr.Strategy)
	}

	// Final state all completed.
	for _, name := range StageOrder {
		if res.State[name] != StageCompleted {
			t.Errorf("stage %q = %s", name, res.State[name])
		}
	}
}

func TestPipeline_StageFailureSkipsDownstream(t *testing.T) {
	cfg := testConfig()
	stages := &recordingStages{failAt: StageConnectivity}
	rec := NewRecorder()
	pipe := newTestPipeline(cfg, stages, rec)

	res, err := pipe.Run(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected stage failure to propagate")
	}
	if len(stages.calls) != 2 {
		t.Fatalf("tree stage must not run after a connectivity failure: %v", stages.calls)
	}
	if res.State[StageSubstations] != StageCompleted {
		t.Errorf("substations = %s", res.State[StageSubstations])
	}
	if res.State[StageConnectivity] != StageFailed {
		t.Errorf("connectivity = %s", res.State[StageConnectivity])
	}
	if res.State[StageTree] != StageSkipped {
		t.Errorf("tree = %s", res.State[StageTree])
	}

	var failed, skipped bool
	for _, ev := range rec.Snapshot() {
		if ev.Kind == EventStageFailed && ev.Stage == StageConnectivity {
			failed = true
		}
		if ev.Kind == EventStageSkipped && ev.Stage == StageTree {
			skipped = true
		}
	}
	if !failed || !skipped {
		t.Errorf("missing failure/skip events: %+v", rec.Snapshot())
	}
}

func TestPipeline_OptionsThreadedThrough(t *testing.T) {
	cfg := testConfig()
	cfg.NetworkLayout.NetworkType = config.NetworkDC
	cfg.NetworkLayout.TreeStrategy = config.TreeMinimumSpanning
	stages := &recordingStages{}
	pipe := newTestPipeline(cfg, stages, nil)

	res, err := pipe.Run(context.Background(), Options{
		PlantBuildings:   []string{"B05"},
		InputPathName:    "electric",
		OutputName:       "loop1",
		OptimizationMode: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	wantPaths := filepath.FromSlash("/projects/baseline/inputs/networks/electric.shp")
	if stages.connectivity.PathsShapefile != wantPaths {
		t.Errorf("paths shapefile = %q", stages.connectivity.PathsShapefile)
	}
	wantEdges := filepath.FromSlash("/projects/baseline/inputs/networks/DC/loop1/edges.shp")
	if res.EdgesShapefile != wantEdges {
		t.Errorf("edges = %q", res.EdgesShapefile)
	}
	if !stages.tree.OptimizationMode {
		t.Error("optimization mode not threaded through")
	}
	if len(stages.tree.PlantBuildings) != 1 || stages.tree.PlantBuildings[0] != "B05" {
		t.Errorf("plant buildings = %v", stages.tree.PlantBuildings)
	}
	if stages.tree.Strategy != config.TreeMinimumSpanning {
		t.Errorf("strategy = %q", stages.tree.Strategy)
	}
}

func TestPipeline_CancelledContextSkipsEverything(t *testing.T) {
	cfg := testConfig()
	stages := &recordingStages{}
	pipe := newTestPipeline(cfg, stages, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := pipe.Run(ctx, Options{})
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(stages.calls) != 0 {
		t.Errorf("no stage should run on a cancelled context: %v", stages.calls)
	}
	for _, name := range StageOrder {
		if res.State[name] != StageSkipped {
			t.Errorf("stage %q = %s, want SKIPPED", name, res.State[name])
		}
	}
}

func TestPipeline_RequiresStages(t *testing.T) {
	cfg := testConfig()
	pipe := &Pipeline{Config: cfg, Locator: locator.New(cfg.Scenario)}
	if _, err := pipe.Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for unwired stages")
	}
}

// A panicking event sink must never affect the run.
type panickySink struct{}

func (panickySink) Record(Event) { panic("boom") }

func TestPipeline_PanickySinkIsInert(t *testing.T) {
	cfg := testConfig()
	stages := &recordingStages{}
	pipe := newTestPipeline(cfg, stages, panickySink{})

	if _, err := pipe.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run failed because of a sink: %v", err)
	}
}
