package stepper

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(rate Rate, q, ds float64) float64 {
	return q + ds*rate(q)
}
