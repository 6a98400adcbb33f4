package metrics

import (
	"math"

	"github.com/san-kum/openpid/internal/dynamo"
)

// EnergyDrift tracks the largest relative departure of a plant's energy
// from its value at the first observation. Plants without an energy
// function report zero.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	plant         dynamo.Hamiltonian
}

func NewEnergyDrift(plant any) *EnergyDrift {
	h, _ := plant.(dynamo.Hamiltonian)
	return &EnergyDrift{
		name:  "energy_drift",
		plant: h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if e.plant == nil {
		return
	}

	energy := e.plant.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current is the energy at the last observation.
func (e *EnergyDrift) Current() float64 { return e.currentEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
