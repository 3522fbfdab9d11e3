/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"time"

	"github.com/KrisshChawla/dgsem/DG2D"
	"github.com/KrisshChawla/dgsem/InputParameters"
	"github.com/KrisshChawla/dgsem/equations"
	"github.com/KrisshChawla/dgsem/mesh"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type Model2D struct {
	ParamFile string
	Profile   bool
	ProcLimit int
	Timings   bool
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Two dimensional solver on an adaptive quadtree mesh",
	Long: `
Runs the DGSEM solver for the case described by a YAML parameter file,
integrating in time with SSP-RK3 until the final time.

dgsem run -I case.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m2d := &Model2D{}
		if m2d.ParamFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m2d.Profile, _ = cmd.Flags().GetBool("profile")
		m2d.ProcLimit, _ = cmd.Flags().GetInt("procLimit")
		m2d.Timings, _ = cmd.Flags().GetBool("timings")
		ip := processInput(m2d)
		Run2D(m2d, ip)
	},
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D) {
	var (
		err error
	)
	if len(m2d.ParamFile) == 0 {
		err = fmt.Errorf("must supply a parameter file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Convergence Test"
Equations: euler
CFL: 0.5
FluxType: rusanov
VolumeFluxType: ranocha
VolumeIntegral: split
InitType: convergence # Can be "sine" or "freestream"
PolynomialOrder: 3
MeshLevels: 3
Periodic: true
FinalTime: 2.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(m2d.ParamFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParameters2D{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with the case parameters")
	RunCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the run")
	RunCmd.Flags().IntP("procLimit", "P", 0, "limit the solver to this many worker goroutines")
	RunCmd.Flags().BoolP("timings", "t", false, "print accumulated per-phase timings after the run")
}

// caseSetup binds the physics, initial state and optional exact solution
// selected by the parameter file
type caseSetup struct {
	eq    equations.EquationsOfMotion
	ic    DG2D.StateFunc
	src   equations.SourceFunc
	exact DG2D.StateFunc
}

func buildCase(ip *InputParameters.InputParameters2D) (cs caseSetup) {
	switch ip.Equations {
	case "advection":
		eq := equations.NewLinearAdvection(ip.AdvectionVelocity[0], ip.AdvectionVelocity[1])
		cs.eq = eq
		cs.ic = eq.InitialConditionSineWave
		cs.exact = eq.InitialConditionSineWave
	case "euler", "":
		eq := equations.NewEuler(ip.Gamma,
			equations.NewFluxType(ip.FluxType), equations.NewFluxType(ip.VolumeFluxType))
		cs.eq = eq
		switch ip.InitType {
		case "convergence", "":
			cs.ic = eq.InitialConditionConvergenceTest
			cs.src = eq.SourceTermsConvergenceTest
			cs.exact = eq.InitialConditionConvergenceTest
		case "freestream":
			prim := []float64{1, 0.1, -0.2, 1}
			cs.ic = func(x, y, t float64, u []float64) { eq.Prim2Cons(prim, u) }
			cs.exact = cs.ic
		default:
			panic(fmt.Errorf("unknown InitType %q for euler", ip.InitType))
		}
	default:
		panic(fmt.Errorf("unknown Equations %q", ip.Equations))
	}
	return
}

func buildMesh(ip *InputParameters.InputParameters2D) (t *mesh.Tree) {
	t = mesh.NewTree([2]float64{0, 0}, 2, ip.Periodic)
	t.RefineUniform(ip.MeshLevels)
	for _, c := range ip.RefineCenters {
		id := t.CellAt(ip.MeshLevels, c)
		if id == -1 || t.HasChildren(id) {
			panic(fmt.Errorf("cannot refine at %v: no leaf cell there", c))
		}
		t.Refine(id)
	}
	return
}

func Run2D(m2d *Model2D, ip *InputParameters.InputParameters2D) {
	if m2d.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	ip.Print()
	cs := buildCase(ip)

	var bc DG2D.BoundaryCondition
	if !ip.Periodic {
		switch ip.BCType {
		case "wall":
			bc = DG2D.WallBC{}
		case "freestream", "":
			bc = DG2D.DirichletBC{State: cs.ic}
		default:
			panic(fmt.Errorf("unknown BCType %q", ip.BCType))
		}
	}

	s := DG2D.NewSolver(buildMesh(ip), cs.eq, ip.PolynomialOrder, DG2D.SolverOptions{
		VolumeIntegral: DG2D.NewVolumeIntegralType(ip.VolumeIntegral),
		Mortar:         DG2D.NewMortarFlavor(ip.Mortar),
		CFL:            ip.CFL,
		AlphaMax:       ip.AlphaMax,
		AlphaMin:       ip.AlphaMin,
		ProcLimit:      m2d.ProcLimit,
		BC:             bc,
		SourceTerms:    cs.src,
	})
	fmt.Printf("[%d]\t\t\t\t= Elements\n", s.El.K)

	timings := make(map[string]time.Duration)
	if m2d.Timings {
		s.TimerCallback = func(phase string, elapsed time.Duration) {
			timings[phase] += elapsed
		}
	}

	s.SetInitialCondition(cs.ic, 0)
	rk := DG2D.NewRK3SSP(s)
	var (
		t     float64
		steps int
		start = time.Now()
	)
	for t < ip.FinalTime && steps < ip.MaxIterations {
		dt := s.CalcDT()
		if t+dt > ip.FinalTime {
			dt = ip.FinalTime - t
		}
		rk.Step(t, dt)
		t += dt
		steps++
		if steps%ip.LogFrequency == 0 {
			fmt.Printf("step %6d, t = %8.5f, dt = %8.6f\n", steps, t, dt)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("%d steps to t = %8.5f in %v (%.2f us per step per point)\n",
		steps, t, elapsed,
		float64(elapsed.Microseconds())/float64(steps*s.El.Np*s.El.K))

	if cs.exact != nil {
		l2, linf := s.CalcErrorNorms(cs.exact, t)
		for n := range l2 {
			fmt.Printf("variable %d: L2 error %12.6e, Linf error %12.6e\n", n, l2[n], linf[n])
		}
	}
	printTimings(timings)
}

func printTimings(timings map[string]time.Duration) {
	if len(timings) == 0 {
		return
	}
	phases := make([]string, 0, len(timings))
	for p := range timings {
		phases = append(phases, p)
	}
	sort.Strings(phases)
	fmt.Println("accumulated phase timings:")
	for _, p := range phases {
		fmt.Printf("%20s: %v\n", p, timings[p])
	}
}
