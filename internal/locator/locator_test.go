package locator

import (
	"path/filepath"
	"testing"
)

func TestLocator_PathShapes(t *testing.T) {
	l := New("/projects/baseline")

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"zone geometry", l.ZoneGeometry(), "/projects/baseline/inputs/building-geometry/zone.shp"},
		{"streets", l.PathsShapefile("streets"), "/projects/baseline/inputs/networks/streets.shp"},
		{"total demand", l.TotalDemand(), "/projects/baseline/outputs/data/demand/Total_demand.csv"},
		{"radiation", l.Radiation(), "/projects/baseline/outputs/data/solar-radiation/radiation.csv"},
		{"surface properties", l.SurfaceProperties(), "/projects/baseline/outputs/data/solar-radiation/properties_surfaces.csv"},
		{"temporary file", l.TemporaryFile("potential_network.shp"), "/projects/baseline/tmp/potential_network.shp"},
		{"default layout folder", l.NetworkLayoutFolder("DH", ""), "/projects/baseline/inputs/networks/DH"},
		{"named layout folder", l.NetworkLayoutFolder("DC", "loop1"), "/projects/baseline/inputs/networks/DC/loop1"},
		{"edges", l.NetworkLayoutEdges("DH", ""), "/projects/baseline/inputs/networks/DH/edges.shp"},
		{"nodes", l.NetworkLayoutNodes("DH", "alt"), "/projects/baseline/inputs/networks/DH/alt/nodes.shp"},
	}
	for _, tc := range cases {
		if tc.got != filepath.FromSlash(tc.want) {
			t.Errorf("%s = %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}

func TestLocator_CleansScenarioRoot(t *testing.T) {
	l := New("/projects//baseline/")
	if l.Scenario() != filepath.FromSlash("/projects/baseline") {
		t.Errorf("scenario = %q", l.Scenario())
	}
}
