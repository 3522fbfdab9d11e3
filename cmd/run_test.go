package cmd

import (
	"testing"

	"github.com/KrisshChawla/dgsem/InputParameters"
	"github.com/magiconair/properties/assert"
)

func TestParseParameters(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Case
Equations: euler
CFL: 0.5
InitType: convergence # Can be "freestream"
FluxType: rusanov
VolumeFluxType: ranocha
VolumeIntegral: split
PolynomialOrder: 3
MeshLevels: 2
Periodic: true
FinalTime: 0.1
RefineCenters:
  - [0.25, 0.25]
`)
	var input InputParameters.InputParameters2D
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	input.Print()
	assert.Equal(t, input.FinalTime, 0.1)
	assert.Equal(t, input.PolynomialOrder, 3)
	assert.Equal(t, input.Gamma, 1.4) // defaulted
	assert.Equal(t, len(input.RefineCenters), 1)
}

// A short end to end run: refined periodic mesh, manufactured solution
func TestRun2D(t *testing.T) {
	fileInput := []byte(`
Title: Smoke Test
Equations: euler
CFL: 0.5
VolumeIntegral: split
PolynomialOrder: 2
MeshLevels: 2
Periodic: true
FinalTime: 0.05
RefineCenters:
  - [0.25, 0.25]
LogFrequency: 1
`)
	ip := &InputParameters.InputParameters2D{}
	if err := ip.Parse(fileInput); err != nil {
		panic(err)
	}
	Run2D(&Model2D{Timings: true}, ip)
}
