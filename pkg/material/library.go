package material

import "fmt"

// Library names shared by the benchmark models.
const (
	Water        = "Borated Water"
	Zircaloy     = "Zircaloy 4"
	SS304        = "SS304"
	Inconel      = "Inconel 718"
	CarbonSteel  = "Carbon Steel"
	Helium       = "Helium"
	Air          = "Air"
	Borosilicate = "Borosilicate Glass"
	AgInCd       = "Ag-In-Cd"
)

// Enrichments of the fuel types in the benchmark models (wt% U-235).
var Enrichments = []float64{1.6, 2.4, 3.1}

const (
	// BoronPPM is the nominal soluble boron concentration.
	BoronPPM = 975.0
	// WaterDensity is the moderator density at hot zero power (g/cm³).
	WaterDensity = 0.740582
)

// FuelName returns the library name of the UO2 fuel at enrichment enr.
func FuelName(enr float64) string {
	return fmt.Sprintf("UO2 Fuel %.1f%%", enr)
}

// fuelDensity is the pellet density for each enrichment (g/cm³).
var fuelDensity = map[float64]float64{1.6: 10.31341, 2.4: 10.29748, 3.1: 10.30166}

// UO2 builds fresh uranium dioxide fuel with enrichment enr (wt% U-235).
// The U-234 content follows the usual 0.89% of the U-235 weight fraction.
func UO2(name string, enr, density float64) *Material {
	w234 := 0.0089 * enr
	w235 := enr
	w238 := 100 - w234 - w235

	mU := 100 / (w234/234 + w235/235 + w238/238)
	fracU := mU / (mU + 2*16)

	m := New(name, density, GramsPerCC)
	m.AddNuclide("U234", w234*fracU, WeightPercent)
	m.AddNuclide("U235", w235*fracU, WeightPercent)
	m.AddNuclide("U238", w238*fracU, WeightPercent)
	m.AddNuclide("O16", 100*(1-fracU), WeightPercent)
	return m
}

// depletedVector is a representative set of actinides and poisons for
// mid-cycle fuel (weight percent of heavy metal).
var depletedVector = []Nuclide{
	{Name: "U236", Percent: 0.30},
	{Name: "Np237", Percent: 0.03},
	{Name: "Pu238", Percent: 0.01},
	{Name: "Pu239", Percent: 0.52},
	{Name: "Pu240", Percent: 0.19},
	{Name: "Pu241", Percent: 0.11},
	{Name: "Pu242", Percent: 0.04},
	{Name: "Am241", Percent: 0.005},
	{Name: "Xe135", Percent: 8e-7},
	{Name: "Sm149", Percent: 6e-5},
	{Name: "Cs137", Percent: 0.09},
}

// DepletedUO2 builds UO2 with a representative depleted composition. Half of
// the U-235 is assumed burned and the listed nuclides are carried over from
// the uranium weight.
func DepletedUO2(name string, enr, density float64) *Material {
	burned := enr / 2
	others := 0.0
	for _, n := range depletedVector {
		others += n.Percent
	}
	w234 := 0.0089 * enr * 0.8
	w235 := enr - burned
	w238 := 100 - w234 - w235 - others

	mU := 100 / (w234/234 + w235/235 + w238/238)
	fracHM := mU / (mU + 2*16)

	m := New(name, density, GramsPerCC)
	m.AddNuclide("U234", w234*fracHM, WeightPercent)
	m.AddNuclide("U235", w235*fracHM, WeightPercent)
	m.AddNuclide("U238", w238*fracHM, WeightPercent)
	for _, n := range depletedVector {
		m.AddNuclide(n.Name, n.Percent*fracHM, WeightPercent)
	}
	m.AddNuclide("O16", 100*(1-fracHM), WeightPercent)
	return m
}

// BoratedWater builds light water with ppm parts per million of natural
// boron by weight.
func BoratedWater(name string, ppm, density float64) (*Material, error) {
	b := ppm * 1e-6
	m := New(name, density, GramsPerCC)
	for _, el := range []struct {
		sym string
		wo  float64
	}{
		{"H", 2 * 1.008 / 18.015 * (1 - b) * 100},
		{"O", 15.999 / 18.015 * (1 - b) * 100},
		{"B", b * 100},
	} {
		if err := m.AddElement(el.sym, el.wo, WeightPercent); err != nil {
			return nil, err
		}
	}
	m.AddSAlphaBeta("c_H_in_H2O")
	return m, nil
}

type elementFraction struct {
	symbol string
	wo     float64
}

func fromElements(name string, density float64, parts []elementFraction) (*Material, error) {
	m := New(name, density, GramsPerCC)
	for _, p := range parts {
		if err := m.AddElement(p.symbol, p.wo, WeightPercent); err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
	}
	return m, nil
}

var structural = []struct {
	name    string
	density float64
	parts   []elementFraction
}{
	{Zircaloy, 6.55, []elementFraction{{"Zr", 98.23}, {"Sn", 1.45}, {"Fe", 0.21}, {"Cr", 0.10}, {"O", 0.125}}},
	{SS304, 8.03, []elementFraction{{"Fe", 69.4}, {"Cr", 19.0}, {"Ni", 9.0}, {"Mn", 2.0}, {"Si", 0.6}}},
	{Inconel, 8.2, []elementFraction{{"Ni", 52.5}, {"Cr", 19.0}, {"Fe", 18.5}, {"Nb", 5.1}, {"Mo", 3.05}, {"Ti", 0.9}, {"Al", 0.5}, {"Si", 0.35}, {"Mn", 0.35}, {"C", 0.04}}},
	{CarbonSteel, 7.8, []elementFraction{{"Fe", 97.9}, {"Mn", 0.75}, {"Ni", 0.44}, {"C", 0.27}, {"Si", 0.25}, {"Mo", 0.09}, {"Cr", 0.3}}},
	{Helium, 0.0015981, []elementFraction{{"He", 100}}},
	{Air, 0.000616, []elementFraction{{"N", 75.5}, {"O", 23.2}, {"Ar", 1.3}}},
	{Borosilicate, 2.26, []elementFraction{{"O", 54.0}, {"Si", 40.8}, {"B", 4.0}, {"Al", 1.2}}},
	{AgInCd, 10.16, []elementFraction{{"Ag", 80}, {"In", 15}, {"Cd", 5}}},
}

// Library registers the standard benchmark materials. With depleted set the
// fuels carry a representative depleted composition instead of fresh UO2.
func Library(depleted bool) (*Registry, error) {
	reg := NewRegistry()

	for _, enr := range Enrichments {
		name := FuelName(enr)
		fuel := UO2(name, enr, fuelDensity[enr])
		if depleted {
			fuel = DepletedUO2(name, enr, fuelDensity[enr])
		}
		if _, err := reg.Add(name, fuel); err != nil {
			return nil, err
		}
	}

	water, err := BoratedWater(Water, BoronPPM, WaterDensity)
	if err != nil {
		return nil, err
	}
	if _, err := reg.Add(Water, water); err != nil {
		return nil, err
	}

	for _, s := range structural {
		m, err := fromElements(s.name, s.density, s.parts)
		if err != nil {
			return nil, err
		}
		if _, err := reg.Add(s.name, m); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
