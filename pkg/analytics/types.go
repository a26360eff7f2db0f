package analytics

// IDRange is the smallest and largest id of one id space.
type IDRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Counts are the object counts of a geometry.
type Counts struct {
	Surfaces  int `json:"surfaces"`
	Cells     int `json:"cells"`
	Universes int `json:"universes"`
	Lattices  int `json:"lattices"`
	Materials int `json:"materials"`
	// Instances is the summed instance count of material cells.
	Instances int `json:"instances"`
}

// MaterialGroup aggregates the materials sharing a name, which after
// differentiation are the copies of one template.
type MaterialGroup struct {
	Name        string  `json:"name"`
	Count       int     `json:"count"`
	Depletable  int     `json:"depletable"`
	VolumeCC    float64 `json:"volume_cc"`
	Temperature float64 `json:"temperature_k,omitempty"`
}

// SurfaceKinds counts surfaces per equation kind and per boundary.
type SurfaceKinds struct {
	ByKind     map[string]int `json:"by_kind"`
	ByBoundary map[string]int `json:"by_boundary"`
}

// LatticeInfo describes one lattice.
type LatticeInfo struct {
	Name      string    `json:"name"`
	Dimension []int     `json:"dimension"`
	Pitch     []float64 `json:"pitch"`
	Distinct  int       `json:"distinct_universes"`
}

// TallyInfo counts tallies per filter kind.
type TallyInfo struct {
	Tallies int            `json:"tallies"`
	Filters map[string]int `json:"filters"`
	Meshes  int            `json:"meshes"`
	Bins    int            `json:"bins"`
}
