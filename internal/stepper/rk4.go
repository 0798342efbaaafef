package stepper

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(rate Rate, q, ds float64) float64 {
	k1 := rate(q)
	k2 := rate(q + ds*0.5*k1)
	k3 := rate(q + ds*0.5*k2)
	k4 := rate(q + ds*k3)
	return q + ds/6.0*(k1+2*k2+2*k3+k4)
}
