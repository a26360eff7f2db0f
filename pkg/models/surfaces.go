package models

import (
	"fmt"
	"math"

	"github.com/paulromano/ecp-benchmarks/pkg/csg"
)

// SMR dimensions (cm).
const (
	PinPitch     = 1.25984
	LatticePitch = 21.50364
	// LatticeWidth is the side of the 17x17 pin lattice.
	LatticeWidth  = 17 * PinPitch
	GridStrapSide = 21.47270

	rodGridSideTB = 1.24416
	rodGridSideI  = 1.21962

	CoreBarrelIR    = 85.0
	CoreBarrelOR    = 90.0
	NeutronShieldOR = 92.0
	RPVIR           = 120.0
	RPVOR           = 135.0

	LowestExtent       = 0.0
	HighestExtent      = 255.444
	BottomSupportPlate = 20.0
	TopSupportPlate    = 25.0
	TopLowerNozzle     = 35.160
	BottomFuelStack    = 36.007
	ActiveCoreHeight   = 182.880
	TopActiveCore      = 218.887
	BottomBurnAbs      = 41.087
	DashpotTop         = 45.079
	TopPlenum          = 221.223
	TopFuelRod         = 223.272
	BottomUpperNozzle  = 226.617
	TopUpperNozzle     = 235.444

	// BankBottom is the tip of every control rod bank when all rods are out.
	BankBottom = 405.713

	PelletOR = 0.39218
)

// gridPlanes are the bottom and top of the four spacer grids.
var gridPlanes = [8]float64{37.879, 42.070, 99.164, 104.879, 151.361, 157.076, 203.558, 209.273}

// Banks are the control and shutdown rod banks.
var Banks = []string{"A", "B", "C", "D", "SA", "SB", "SC", "SD", "SE"}

var cylinders = []struct {
	name string
	r    float64
}{
	{"pellet OR", PelletOR},
	{"plenum spring OR", 0.06459},
	{"clad IR", 0.40005},
	{"clad OR", 0.45720},
	{"GT IR", 0.56134},
	{"GT OR", 0.60198},
	{"GT dashpot IR", 0.50419},
	{"GT dashpot OR", 0.54610},
	{"CP OR", 0.43310},
	{"CR IR", 0.43688},
	{"CR OR", 0.48387},
	{"BA IR 1", 0.21400},
	{"BA IR 2", 0.23051},
	{"BA IR 3", 0.24130},
	{"BA IR 4", 0.42672},
	{"BA IR 5", 0.43688},
	{"BA IR 6", 0.48387},
}

var zplanes = []struct {
	name string
	z    float64
}{
	{"bot support plate", BottomSupportPlate},
	{"top support plate", TopSupportPlate},
	{"top lower nozzle", TopLowerNozzle},
	{"bot active core", BottomFuelStack},
	{"top active core", TopActiveCore},
	{"burn abs bot", BottomBurnAbs},
	{"dashpot top", DashpotTop},
	{"top pin plenum", TopPlenum},
	{"top fuel rod", TopFuelRod},
	{"bot upper nozzle", BottomUpperNozzle},
	{"top upper nozzle", TopUpperNozzle},
}

// smrSurfaces registers the named SMR surfaces. The lower and upper
// problem bounds are vacuum; everything else is transmission.
func smrSurfaces() (*csg.Surfaces, error) {
	reg := csg.NewSurfaces()
	var err error
	add := func(name string, s *csg.Surface) {
		if err == nil {
			_, err = reg.Add(name, s.Named(name))
		}
	}

	for _, c := range cylinders {
		add(c.name, csg.NewZCylinder(0, 0, c.r))
	}
	for _, p := range zplanes {
		add(p.name, csg.NewZPlane(p.z))
	}
	for i, z := range gridPlanes {
		side := "bot"
		if i%2 == 1 {
			side = "top"
		}
		add(gridName(i/2+1, side), csg.NewZPlane(z))
	}
	for _, b := range Banks {
		add("bank"+b+" bot", csg.NewZPlane(BankBottom))
	}

	add("core barrel IR", csg.NewZCylinder(0, 0, CoreBarrelIR))
	add("core barrel OR", csg.NewZCylinder(0, 0, CoreBarrelOR))
	add("neutron shield OR", csg.NewZCylinder(0, 0, NeutronShieldOR))
	add("neutron shield NWbot SEtop", csg.NewPlane(1, math.Tan(math.Pi/3), 0, 0))
	add("neutron shield NWtop SEbot", csg.NewPlane(1, math.Tan(math.Pi/6), 0, 0))
	add("neutron shield NEbot SWtop", csg.NewPlane(1, math.Tan(-math.Pi/3), 0, 0))
	add("neutron shield NEtop SWbot", csg.NewPlane(1, math.Tan(-math.Pi/6), 0, 0))
	add("RPV IR", csg.NewZCylinder(0, 0, RPVIR))
	add("RPV OR", csg.NewZCylinder(0, 0, RPVOR).WithBoundary(csg.Vacuum))

	add("lower bound", csg.NewZPlane(LowestExtent).WithBoundary(csg.Vacuum))
	add("upper bound", csg.NewZPlane(HighestExtent).WithBoundary(csg.Vacuum))
	if err != nil {
		return nil, err
	}

	for _, cp := range [][2]string{
		{"BA IR 5", "IT IR"},
		{"BA IR 6", "IT OR"},
		{"GT IR", "BA IR 7"},
		{"GT OR", "BA IR 8"},
	} {
		if _, err := csg.CopySurface(reg, cp[0], cp[1]); err != nil {
			return nil, err
		}
	}

	for _, box := range []struct {
		prefix string
		side   float64
	}{
		{"rod grid box tb", rodGridSideTB},
		{"rod grid box i", rodGridSideI},
		{"lat grid box", GridStrapSide},
		{"lat box", LatticeWidth},
	} {
		if err := csg.NewPrism(box.side, box.side, 0, 0, csg.Transmission).Register(reg, box.prefix); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func gridName(n int, side string) string {
	return fmt.Sprintf("grid%d%s", n, side)
}

// prism returns a registered prism.
func prism(reg *csg.Surfaces, prefix string) (csg.Prism, error) {
	var p csg.Prism
	for _, e := range []struct {
		suffix string
		dst    **csg.Surface
	}{{"xmin", &p.XMin}, {"xmax", &p.XMax}, {"ymin", &p.YMin}, {"ymax", &p.YMax}} {
		s, err := reg.Get(prefix + " " + e.suffix)
		if err != nil {
			return csg.Prism{}, err
		}
		*e.dst = s
	}
	return p, nil
}
