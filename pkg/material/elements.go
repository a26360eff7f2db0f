package material

// isotope is one naturally occurring isotope. Mass is the mass number, which
// is close enough to the atomic mass for splitting weight fractions.
type isotope struct {
	name      string
	abundance float64 // atom fraction
	mass      float64
}

func (i isotope) weight(b Basis) float64 {
	if b == WeightPercent {
		return i.abundance * i.mass
	}
	return i.abundance
}

// Natural isotopic abundances (atom fractions, IUPAC representative values).
var naturalAbundance = map[string][]isotope{
	"H":  {{"H1", 0.999885, 1}, {"H2", 0.000115, 2}},
	"He": {{"He3", 1.34e-6, 3}, {"He4", 0.99999866, 4}},
	"B":  {{"B10", 0.199, 10}, {"B11", 0.801, 11}},
	"C":  {{"C12", 0.9893, 12}, {"C13", 0.0107, 13}},
	"N":  {{"N14", 0.99636, 14}, {"N15", 0.00364, 15}},
	"O":  {{"O16", 0.99757, 16}, {"O17", 0.00038, 17}, {"O18", 0.00205, 18}},
	"Al": {{"Al27", 1, 27}},
	"Si": {{"Si28", 0.92223, 28}, {"Si29", 0.04685, 29}, {"Si30", 0.03092, 30}},
	"P":  {{"P31", 1, 31}},
	"Ar": {{"Ar36", 0.003336, 36}, {"Ar38", 0.000629, 38}, {"Ar40", 0.996035, 40}},
	"Ti": {{"Ti46", 0.0825, 46}, {"Ti47", 0.0744, 47}, {"Ti48", 0.7372, 48}, {"Ti49", 0.0541, 49}, {"Ti50", 0.0518, 50}},
	"Cr": {{"Cr50", 0.04345, 50}, {"Cr52", 0.83789, 52}, {"Cr53", 0.09501, 53}, {"Cr54", 0.02365, 54}},
	"Mn": {{"Mn55", 1, 55}},
	"Fe": {{"Fe54", 0.05845, 54}, {"Fe56", 0.91754, 56}, {"Fe57", 0.02119, 57}, {"Fe58", 0.00282, 58}},
	"Ni": {{"Ni58", 0.68077, 58}, {"Ni60", 0.26223, 60}, {"Ni61", 0.011399, 61}, {"Ni62", 0.036346, 62}, {"Ni64", 0.009255, 64}},
	"Zr": {{"Zr90", 0.5145, 90}, {"Zr91", 0.1122, 91}, {"Zr92", 0.1715, 92}, {"Zr94", 0.1738, 94}, {"Zr96", 0.0280, 96}},
	"Nb": {{"Nb93", 1, 93}},
	"Mo": {{"Mo92", 0.1453, 92}, {"Mo94", 0.0915, 94}, {"Mo95", 0.1584, 95}, {"Mo96", 0.1667, 96}, {"Mo97", 0.0960, 97}, {"Mo98", 0.2439, 98}, {"Mo100", 0.0982, 100}},
	"Ag": {{"Ag107", 0.51839, 107}, {"Ag109", 0.48161, 109}},
	"Cd": {{"Cd106", 0.0125, 106}, {"Cd108", 0.0089, 108}, {"Cd110", 0.1249, 110}, {"Cd111", 0.1280, 111}, {"Cd112", 0.2413, 112}, {"Cd113", 0.1222, 113}, {"Cd114", 0.2873, 114}, {"Cd116", 0.0749, 116}},
	"In": {{"In113", 0.0429, 113}, {"In115", 0.9571, 115}},
	"Sn": {{"Sn112", 0.0097, 112}, {"Sn114", 0.0066, 114}, {"Sn115", 0.0034, 115}, {"Sn116", 0.1454, 116}, {"Sn117", 0.0768, 117}, {"Sn118", 0.2422, 118}, {"Sn119", 0.0859, 119}, {"Sn120", 0.3258, 120}, {"Sn122", 0.0463, 122}, {"Sn124", 0.0579, 124}},
}

var fissionable = map[string]bool{
	"Th232": true, "Pa231": true, "U233": true, "U234": true, "U235": true,
	"U236": true, "U238": true, "Np237": true, "Pu238": true, "Pu239": true,
	"Pu240": true, "Pu241": true, "Pu242": true, "Am241": true, "Am243": true,
	"Cm244": true,
}
