package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title             string       `yaml:"Title"`
	Equations         string       `yaml:"Equations"` // "euler" or "advection"
	Gamma             float64      `yaml:"Gamma"`
	AdvectionVelocity [2]float64   `yaml:"AdvectionVelocity"`
	CFL               float64      `yaml:"CFL"`
	FluxType          string       `yaml:"FluxType"`       // Surface (Riemann) flux
	VolumeFluxType    string       `yaml:"VolumeFluxType"` // Two-point flux for split forms
	VolumeIntegral    string       `yaml:"VolumeIntegral"` // weak, split or shock
	Mortar            string       `yaml:"Mortar"`         // l2 or ec
	InitType          string       `yaml:"InitType"`       // convergence, sine or freestream
	BCType            string       `yaml:"BCType"`         // wall or freestream; ignored when periodic
	PolynomialOrder   int          `yaml:"PolynomialOrder"`
	MeshLevels        int          `yaml:"MeshLevels"` // Uniform refinement levels of the root cell
	Periodic          bool         `yaml:"Periodic"`
	RefineCenters     [][2]float64 `yaml:"RefineCenters"` // Cells at these points get one extra level
	FinalTime         float64      `yaml:"FinalTime"`
	AlphaMax          float64      `yaml:"AlphaMax"`
	AlphaMin          float64      `yaml:"AlphaMin"`
	MaxIterations     int          `yaml:"MaxIterations"`
	LogFrequency      int          `yaml:"LogFrequency"`
}

func (ip *InputParameters2D) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	return ip.setDefaults()
}

func (ip *InputParameters2D) setDefaults() error {
	if ip.Equations == "" {
		ip.Equations = "euler"
	}
	if ip.Gamma == 0 {
		ip.Gamma = 1.4
	}
	if ip.CFL == 0 {
		ip.CFL = 1.0
	}
	if ip.FluxType == "" {
		ip.FluxType = "rusanov"
	}
	if ip.VolumeFluxType == "" {
		ip.VolumeFluxType = "ranocha"
	}
	if ip.PolynomialOrder == 0 {
		ip.PolynomialOrder = 3
	}
	if ip.MeshLevels == 0 {
		ip.MeshLevels = 3
	}
	if ip.MaxIterations == 0 {
		ip.MaxIterations = 1 << 30
	}
	if ip.LogFrequency == 0 {
		ip.LogFrequency = 100
	}
	if ip.FinalTime == 0 {
		return fmt.Errorf("FinalTime must be set and positive")
	}
	return nil
}

func (ip *InputParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Equations\n", ip.Equations)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Printf("[%s]\t\t\t= Volume Flux Type\n", ip.VolumeFluxType)
	fmt.Printf("[%s]\t\t= Volume Integral\n", ip.VolumeIntegral)
	fmt.Printf("[%s]\t= InitType\n", ip.InitType)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Mesh Levels (%d x %d elements before refinement)\n",
		ip.MeshLevels, 1<<uint(ip.MeshLevels), 1<<uint(ip.MeshLevels))
	fmt.Printf("[%v]\t\t\t= Periodic\n", ip.Periodic)
}
