package layout

import (
	"context"
	"strconv"
	"strings"

	"ceabridge/internal/ceacli"
	"ceabridge/internal/config"
	"ceabridge/internal/msglog"
)

// CLIStages delegates every stage to the external CEA command line. The
// subcommand names mirror the CEA modules that implement the geometry:
// substations_location, connectivity_potential, steiner_spanning_tree.
type CLIStages struct {
	Client   *ceacli.Client
	Scenario string
	Sink     msglog.Sink
}

var (
	_ SubstationStage   = (*CLIStages)(nil)
	_ ConnectivityStage = (*CLIStages)(nil)
	_ TreeStage         = (*CLIStages)(nil)
)

func (s *CLIStages) PlaceSubstations(ctx context.Context, req SubstationRequest) error {
	args := []string{
		"substation-location",
		"--buildings-shp", req.BuildingsShapefile,
		"--output-shp", req.SubstationsShapefile,
	}
	if len(req.ConnectedBuildings) > 0 {
		args = append(args, "--buildings", strings.Join(req.ConnectedBuildings, ","))
	}
	return s.Client.Run(ctx, s.Scenario, s.Sink, args...)
}

func (s *CLIStages) BuildPotentialNetwork(ctx context.Context, req ConnectivityRequest) error {
	return s.Client.Run(ctx, s.Scenario, s.Sink,
		"connectivity-potential",
		"--paths-shp", req.PathsShapefile,
		"--substations-shp", req.SubstationsShapefile,
		"--output-shp", req.PotentialNetworkShapefile,
	)
}

func (s *CLIStages) ComputeTree(ctx context.Context, req TreeRequest) error {
	sub := "steiner-spanning-tree"
	if req.Strategy == config.TreeMinimumSpanning {
		sub = "minimum-spanning-tree"
	}
	args := []string{
		sub,
		"--potential-network-shp", req.PotentialNetworkShapefile,
		"--substations-shp", req.SubstationsShapefile,
		"--output-folder", req.OutputFolder,
		"--output-edges", req.EdgesShapefile,
		"--output-nodes", req.NodesShapefile,
		"--weight-field", req.WeightField,
		"--type-mat", req.PipeMaterial,
		"--pipe-diameter", strconv.FormatFloat(req.PipeDiameter, 'f', -1, 64),
		"--network-type", string(req.NetworkType),
		"--total-demand", req.TotalDemandPath,
	}
	if req.CreatePlant {
		args = append(args, "--create-plant")
	}
	if req.AllowLoopedNetworks {
		args = append(args, "--allow-looped-networks")
	}
	if req.OptimizationMode {
		args = append(args, "--optimization")
	}
	if len(req.PlantBuildings) > 0 {
		args = append(args, "--plant-buildings", strings.Join(req.PlantBuildings, ","))
	}
	if len(req.DisconnectedBuildings) > 0 {
		args = append(args, "--disconnected-buildings", strings.Join(req.DisconnectedBuildings, ","))
	}
	return s.Client.Run(ctx, s.Scenario, s.Sink, args...)
}
