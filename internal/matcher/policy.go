package matcher

// DefaultExpiryWeight is the number of score points added per hour of shelf life.
const DefaultExpiryWeight = 0.5

// Policy turns a candidate's distance and the donation's remaining shelf life
// into a cost. Lower scores win.
type Policy interface {
	Score(distanceKm float64, expiryHours int) float64
}

// ExpiryWeighted scores a candidate as distance + Weight*expiryHours.
type ExpiryWeighted struct {
	Weight float64
}

// DefaultPolicy returns the expiry-weighted policy with the default weight.
func DefaultPolicy() ExpiryWeighted {
	return ExpiryWeighted{Weight: DefaultExpiryWeight}
}

// Score implements Policy.
func (p ExpiryWeighted) Score(distanceKm float64, expiryHours int) float64 {
	return distanceKm + p.Weight*float64(expiryHours)
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc func(distanceKm float64, expiryHours int) float64

// Score implements Policy.
func (f PolicyFunc) Score(distanceKm float64, expiryHours int) float64 {
	return f(distanceKm, expiryHours)
}
