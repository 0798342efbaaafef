package stepper

import "testing"

var sink float64

func BenchmarkEuler(b *testing.B) {
	e := NewEuler()
	rate := func(q float64) float64 { return -0.02 * q }
	for i := 0; i < b.N; i++ {
		sink = e.Step(rate, 150, 0.5)
	}
}

func BenchmarkRK4(b *testing.B) {
	r := NewRK4()
	rate := func(q float64) float64 { return -0.02 * q }
	for i := 0; i < b.N; i++ {
		sink = r.Step(rate, 150, 0.5)
	}
}
