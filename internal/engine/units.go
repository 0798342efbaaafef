package engine

// Internal units: millimeter, MeV, nanosecond. Multiply a literal by the
// constant to express it in internal units, divide to read it back out.
const (
	MM = 1.0
	CM = 10.0
	M  = 1000.0

	KeV = 0.001
	MeV = 1.0
	GeV = 1000.0

	NS = 1.0
	US = 1000.0

	GramPerCM3 = 1.0
)
