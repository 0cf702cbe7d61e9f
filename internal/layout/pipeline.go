// Package layout sequences the three external GIS computations that turn
// a street shapefile and zone geometry into a thermal-network layout:
// substation placement, potential-network construction, and spanning-tree
// routing. The geometry itself lives in external collaborators; this
// package owns only the ordering and the file paths handed between stages.
package layout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ceabridge/internal/config"
	"ceabridge/internal/locator"
)

// DefaultInputPathName is the candidate-path shapefile used when the
// caller does not name one.
const DefaultInputPathName = "streets"

// Options vary a single layout run.
type Options struct {
	// PlantBuildings is only used when the layout runs inside a network
	// optimization.
	PlantBuildings []string

	// InputPathName names the candidate-path shapefile under the networks
	// input folder. Defaults to "streets".
	InputPathName string

	// OutputName distinguishes multiple layouts of the same network type.
	// Empty selects the default layout.
	OutputName string

	// OptimizationMode marks the run as part of a network optimization.
	OptimizationMode bool
}

// Result reports where a completed (or aborted) run left its files.
type Result struct {
	SubstationsShapefile      string
	PotentialNetworkShapefile string
	EdgesShapefile            string
	NodesShapefile            string

	State RunState
}

// Pipeline wires the three stages together.
type Pipeline struct {
	Config  config.Config
	Locator *locator.Locator

	Substations  SubstationStage
	Connectivity ConnectivityStage
	Tree         TreeStage

	Events Sink
	Log    *zap.Logger
}

// Run executes the stages in their fixed order, handing each stage the
// file the previous stage wrote:
//
//	substations -> connectivity (potential network) -> tree (edges/nodes)
//
// A stage failure aborts the run: the failed stage is marked FAILED, every
// later stage SKIPPED, and the stage error is returned wrapped. There is
// no retry and no cleanup of files already written.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	inputPathName := opts.InputPathName
	if inputPathName == "" {
		inputPathName = DefaultInputPathName
	}

	nl := p.Config.NetworkLayout
	networkType := string(nl.NetworkType)

	res := &Result{
		SubstationsShapefile:      p.Locator.TemporaryFile("nodes_buildings.shp"),
		PotentialNetworkShapefile: p.Locator.TemporaryFile("potential_network.shp"),
		EdgesShapefile:            p.Locator.NetworkLayoutEdges(networkType, opts.OutputName),
		NodesShapefile:            p.Locator.NetworkLayoutNodes(networkType, opts.OutputName),
		State:                     NewRunState(),
	}

	log.Info("network layout started",
		zap.String("scenario", p.Locator.Scenario()),
		zap.String("network_type", networkType),
		zap.String("input_paths", inputPathName),
		zap.String("tree_strategy", string(nl.TreeStrategy)),
	)

	// Stage 1: substation placement.
	sub := SubstationRequest{
		BuildingsShapefile:   p.Locator.ZoneGeometry(),
		SubstationsShapefile: res.SubstationsShapefile,
		ConnectedBuildings:   nl.Buildings,
	}
	err := p.runStage(ctx, res.State, StageSubstations, res.SubstationsShapefile, func() error {
		return p.Substations.PlaceSubstations(ctx, sub)
	})
	if err != nil {
		return res, fmt.Errorf("substation placement: %w", err)
	}

	// Stage 2: potential network.
	conn := ConnectivityRequest{
		PathsShapefile:            p.Locator.PathsShapefile(inputPathName),
		SubstationsShapefile:      res.SubstationsShapefile,
		PotentialNetworkShapefile: res.PotentialNetworkShapefile,
	}
	err = p.runStage(ctx, res.State, StageConnectivity, res.PotentialNetworkShapefile, func() error {
		return p.Connectivity.BuildPotentialNetwork(ctx, conn)
	})
	if err != nil {
		return res, fmt.Errorf("potential network: %w", err)
	}

	// Stage 3: spanning tree.
	tree := TreeRequest{
		PotentialNetworkShapefile: res.PotentialNetworkShapefile,
		SubstationsShapefile:      res.SubstationsShapefile,
		OutputFolder:              p.Locator.NetworkLayoutFolder(networkType, opts.OutputName),
		EdgesShapefile:            res.EdgesShapefile,
		NodesShapefile:            res.NodesShapefile,
		WeightField:               WeightField,
		PipeMaterial:              nl.PipeMaterial,
		PipeDiameter:              nl.PipeDiameter,
		NetworkType:               nl.NetworkType,
		TotalDemandPath:           p.Locator.TotalDemand(),
		CreatePlant:               nl.CreatePlant,
		AllowLoopedNetworks:       nl.AllowLoopedNetworks,
		OptimizationMode:          opts.OptimizationMode,
		PlantBuildings:            opts.PlantBuildings,
		DisconnectedBuildings:     p.Config.ThermalNetwork.DisconnectedBuildings,
		Strategy:                  nl.TreeStrategy,
	}
	err = p.runStage(ctx, res.State, StageTree, res.EdgesShapefile, func() error {
		return p.Tree.ComputeTree(ctx, tree)
	})
	if err != nil {
		return res, fmt.Errorf("spanning tree: %w", err)
	}

	log.Info("network layout completed",
		zap.String("edges", res.EdgesShapefile),
		zap.String("nodes", res.NodesShapefile),
	)
	return res, nil
}

// runStage drives one stage through the state machine and the event sink.
func (p *Pipeline) runStage(ctx context.Context, state RunState, name, output string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		for _, st := range StageOrder {
			if state[st] == StagePending {
				state[st] = StageSkipped
				SafeRecord(p.Events, Event{Stage: st, Kind: EventStageSkipped})
			}
		}
		return err
	}

	if err := Transition(state, name, StagePending, StageRunning); err != nil {
		return err
	}
	SafeRecord(p.Events, Event{Stage: name, Kind: EventStageStarted})

	if err := fn(); err != nil {
		if terr := FailAndSkipDownstream(state, name); terr != nil {
			return terr
		}
		SafeRecord(p.Events, Event{Stage: name, Kind: EventStageFailed})
		for _, later := range StageOrder {
			if state[later] == StageSkipped {
				SafeRecord(p.Events, Event{Stage: later, Kind: EventStageSkipped})
			}
		}
		return err
	}

	if err := Transition(state, name, StageRunning, StageCompleted); err != nil {
		return err
	}
	SafeRecord(p.Events, Event{Stage: name, Kind: EventStageCompleted, Output: output})
	return nil
}

func (p *Pipeline) check() error {
	if p == nil {
		return fmt.Errorf("nil pipeline")
	}
	if p.Locator == nil {
		return fmt.Errorf("pipeline locator is required")
	}
	if p.Substations == nil || p.Connectivity == nil || p.Tree == nil {
		return fmt.Errorf("all three stages must be wired")
	}
	return p.Config.Validate()
}
