package layout

import (
	"context"

	"ceabridge/internal/config"
)

// WeightField is the shapefile attribute the tree computation minimizes
// over. CEA writes segment lengths into this field.
const WeightField = "Shape_Leng"

// SubstationRequest asks for substation points to be placed for the
// connected buildings of a zone.
type SubstationRequest struct {
	// BuildingsShapefile is the zone building-geometry input.
	BuildingsShapefile string

	// SubstationsShapefile is where the computed points are written.
	SubstationsShapefile string

	// ConnectedBuildings restricts placement to these building names.
	// Empty means all buildings in the zone.
	ConnectedBuildings []string
}

// ConnectivityRequest asks for the potential network: a candidate graph of
// pipe routes along the given paths, touching every substation.
type ConnectivityRequest struct {
	// PathsShapefile holds the candidate routes (e.g. streets).
	PathsShapefile string

	// SubstationsShapefile is the output of the substation stage.
	SubstationsShapefile string

	// PotentialNetworkShapefile is where the candidate graph is written.
	PotentialNetworkShapefile string
}

// TreeRequest asks for the final routed network over the potential
// network.
type TreeRequest struct {
	PotentialNetworkShapefile string
	SubstationsShapefile      string

	// Outputs.
	OutputFolder   string
	EdgesShapefile string
	NodesShapefile string

	// WeightField is the edge-cost attribute, normally WeightField.
	WeightField string

	// Pipe defaults applied to every routed edge.
	PipeMaterial string
	PipeDiameter float64

	NetworkType     config.NetworkType
	TotalDemandPath string

	CreatePlant         bool
	AllowLoopedNetworks bool

	// OptimizationMode is set when the layout runs inside a network
	// optimization, which supplies explicit plant buildings.
	OptimizationMode bool

	PlantBuildings        []string
	DisconnectedBuildings []string

	// Strategy selects the tree variant. The Steiner tree is the default;
	// the plain minimum spanning tree remains selectable.
	Strategy config.TreeStrategy
}

// The three stages are external GIS computations. The pipeline consumes
// their interfaces and owns nothing about their geometry.

// SubstationStage places substation points.
type SubstationStage interface {
	PlaceSubstations(ctx context.Context, req SubstationRequest) error
}

// ConnectivityStage builds the potential network.
type ConnectivityStage interface {
	BuildPotentialNetwork(ctx context.Context, req ConnectivityRequest) error
}

// TreeStage routes the final network over the potential network.
type TreeStage interface {
	ComputeTree(ctx context.Context, req TreeRequest) error
}

// Func adapters so hosts can wire plain functions as stages.

type SubstationFunc func(ctx context.Context, req SubstationRequest) error

func (f SubstationFunc) PlaceSubstations(ctx context.Context, req SubstationRequest) error {
	return f(ctx, req)
}

type ConnectivityFunc func(ctx context.Context, req ConnectivityRequest) error

func (f ConnectivityFunc) BuildPotentialNetwork(ctx context.Context, req ConnectivityRequest) error {
	return f(ctx, req)
}

type TreeFunc func(ctx context.Context, req TreeRequest) error

func (f TreeFunc) ComputeTree(ctx context.Context, req TreeRequest) error {
	return f(ctx, req)
}
