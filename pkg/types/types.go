package types

// Unit names the boundary representation of a probability.
// Calculators only ever see decimals; conversion happens in package input.
type Unit string

const (
	UnitDecimal Unit = "decimal" // 0–1
	UnitPercent Unit = "percent" // 0–100
)

// Component is one machine or stage of a series production line.
type Component struct {
	// Name is the display label, e.g. "Welding".
	Name string `json:"name" yaml:"name"`

	// Reliability is the probability the component works, as a decimal in [0, 1].
	Reliability float64 `json:"reliability" yaml:"reliability"`
}

// OrderPolicy holds the inputs of the Economic Order Quantity model.
// All fields must be strictly positive.
type OrderPolicy struct {
	// AnnualDemand is D, units demanded per year.
	AnnualDemand float64 `json:"annual_demand"`

	// OrderCost is S, the fixed cost of placing one order.
	OrderCost float64 `json:"order_cost"`

	// HoldingCost is H, the cost of holding one unit for a year.
	HoldingCost float64 `json:"holding_cost"`
}

// DefaultLine returns the four-stage automotive assembly line used as the
// worked example: Stamping → Welding → Painting → Assembly.
func DefaultLine() []Component {
	return []Component{
		{Name: "Stamping", Reliability: 0.98},
		{Name: "Welding", Reliability: 0.99},
		{Name: "Painting", Reliability: 0.96},
		{Name: "Assembly", Reliability: 0.97},
	}
}
