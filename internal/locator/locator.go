// Package locator computes the file locations inside a CEA scenario
// folder. It is pure path arithmetic: nothing here touches the disk, and
// existence checks belong to the operations consuming the paths.
package locator

import "path/filepath"

// Locator resolves scenario-relative paths.
//
// The scenario root must be absolute so that every resolved path is
// independent of the process working directory.
type Locator struct {
	scenario string
}

// New creates a locator rooted at the given scenario folder.
func New(scenario string) *Locator {
	return &Locator{scenario: filepath.Clean(scenario)}
}

// Scenario returns the scenario root.
func (l *Locator) Scenario() string { return l.scenario }

// ZoneGeometry is the zone building-geometry shapefile.
func (l *Locator) ZoneGeometry() string {
	return filepath.Join(l.scenario, "inputs", "building-geometry", "zone.shp")
}

// NetworksInputFolder holds the candidate path shapefiles (streets, rail,
// electric networks) a layout can be routed along.
func (l *Locator) NetworksInputFolder() string {
	return filepath.Join(l.scenario, "inputs", "networks")
}

// PathsShapefile resolves a named candidate-path shapefile, e.g. "streets".
func (l *Locator) PathsShapefile(name string) string {
	return filepath.Join(l.NetworksInputFolder(), name+".shp")
}

// TotalDemand is the aggregated demand table produced by the demand script.
func (l *Locator) TotalDemand() string {
	return filepath.Join(l.scenario, "outputs", "data", "demand", "Total_demand.csv")
}

// Radiation is the solar radiation result for the scenario.
func (l *Locator) Radiation() string {
	return filepath.Join(l.scenario, "outputs", "data", "solar-radiation", "radiation.csv")
}

// SurfaceProperties is the building surface-properties result.
func (l *Locator) SurfaceProperties() string {
	return filepath.Join(l.scenario, "outputs", "data", "solar-radiation", "properties_surfaces.csv")
}

// TemporaryFile resolves a scratch file used to hand results between
// layout stages.
func (l *Locator) TemporaryFile(name string) string {
	return filepath.Join(l.scenario, "tmp", name)
}

// NetworkLayoutFolder is the output folder for a network layout.
// networkType is "DH" or "DC"; networkName may be empty for the default
// layout of that type.
func (l *Locator) NetworkLayoutFolder(networkType, networkName string) string {
	if networkName == "" {
		return filepath.Join(l.NetworksInputFolder(), networkType)
	}
	return filepath.Join(l.NetworksInputFolder(), networkType, networkName)
}

// NetworkLayoutEdges is the edges shapefile of a layout.
func (l *Locator) NetworkLayoutEdges(networkType, networkName string) string {
	return filepath.Join(l.NetworkLayoutFolder(networkType, networkName), "edges.shp")
}

// NetworkLayoutNodes is the nodes shapefile of a layout.
func (l *Locator) NetworkLayoutNodes(networkType, networkName string) string {
	return filepath.Join(l.NetworkLayoutFolder(networkType, networkName), "nodes.shp")
}
