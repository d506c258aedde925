// Command panocdemo runs the PANOC or PGA inner solver against one of the
// canned test problems in panoc/testproblems and prints the resulting
// Stats, in the teacher's manual flag-parsing style
// (cmd/train/main.go's parseTrainingFromArgs + exitWithHelp).
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/curioloop/panocalm/panoc"
	"github.com/curioloop/panocalm/panoc/testproblems"
	"gonum.org/v1/gonum/mat"
)

func exitWithHelp() {
	log.Fatalf("Usage: panocdemo [options]\n" +
		"options:\n" +
		"  -problem name : rosenbrock (default) | boxqp | scaled | reciprocal | convexqp\n" +
		"  -solver name  : panoc (default) | pga\n" +
		"  -eps value    : stop tolerance (default 1e-8)\n" +
		"  -mem n        : L-BFGS memory (default 10)\n" +
		"  -aa n         : Anderson acceleration memory, 0 disables (default 0)\n" +
		"  -print n      : print progress every n iterations, 0 disables (default 0)\n")
}

func parseArgsFromFlags(args []string) (problemName, solverName string, eps float64, mem, aa, printInterval int) {
	problemName = "rosenbrock"
	solverName = "panoc"
	eps = 1e-8
	mem = 10
	aa = 0
	printInterval = 0

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			exitWithHelp()
		}
		tokens := strings.SplitN(arg, "=", 2)
		flag := tokens[0]
		var val string
		if len(tokens) > 1 {
			val = tokens[1]
		}
		switch flag {
		case "-problem":
			problemName = val
		case "-solver":
			solverName = val
		case "-eps":
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				log.Fatalf("invalid -eps value %q", val)
			}
			eps = v
		case "-mem":
			v, err := strconv.Atoi(val)
			if err != nil {
				log.Fatalf("invalid -mem value %q", val)
			}
			mem = v
		case "-aa":
			v, err := strconv.Atoi(val)
			if err != nil {
				log.Fatalf("invalid -aa value %q", val)
			}
			aa = v
		case "-print":
			v, err := strconv.Atoi(val)
			if err != nil {
				log.Fatalf("invalid -print value %q", val)
			}
			printInterval = v
		case "-help", "-h":
			exitWithHelp()
		default:
			log.Fatalf("unknown option %q", flag)
			exitWithHelp()
		}
	}
	return
}

func buildProblem(name string) (panoc.Problem, *mat.VecDense) {
	switch name {
	case "rosenbrock":
		x0 := mat.NewVecDense(2, []float64{-1.2, 1.0})
		return testproblems.Rosenbrock{}, x0
	case "boxqp":
		p := testproblems.NewBoxQP([]float64{-0.5, 0.5, 1.5})
		return p, mat.NewVecDense(3, nil)
	case "scaled":
		p := testproblems.ScaledQuadratic{K: 1e6}
		return p, mat.NewVecDense(1, []float64{1})
	case "reciprocal":
		return testproblems.Reciprocal{}, mat.NewVecDense(1, []float64{1})
	case "convexqp":
		q := mat.NewDense(2, 2, []float64{3, 0, 0, 5})
		p := testproblems.NewConvexQP(q, []float64{1, -2})
		return p, mat.NewVecDense(2, nil)
	default:
		log.Fatalf("unknown problem %q", name)
		panic("unreachable")
	}
}

func main() {
	problemName, solverName, eps, mem, aa, printInterval := parseArgsFromFlags(os.Args[1:])

	problem, x0 := buildProblem(problemName)
	n, m := problem.N(), problem.M()

	sigma := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		sigma.SetVec(i, 1)
	}
	y := mat.NewVecDense(m, nil)
	errZ := mat.NewVecDense(m, nil)

	x := mat.NewVecDense(n, nil)
	x.CopyVec(x0)

	var (
		stats panoc.Stats
		err   error
	)

	switch solverName {
	case "panoc":
		params := panoc.DefaultPANOCParams()
		params.LBFGSMem = mem
		params.AndersonAcceleration = aa
		params.PrintInterval = printInterval
		solver := panoc.NewPANOCSolver(params)
		stats, err = solver.Solve(problem, sigma, eps, true, x, y, errZ)
	case "pga":
		params := panoc.DefaultPGAParams()
		params.PrintInterval = printInterval
		solver := panoc.NewPGASolver(params)
		stats, err = solver.Solve(problem, sigma, eps, true, x, y, errZ)
	default:
		log.Fatalf("unknown solver %q", solverName)
	}

	if err != nil {
		log.Fatalf("solve failed: %v", err)
	}

	fmt.Printf("status=%s iterations=%d eps_final=%.3e elapsed=%s\n",
		stats.Status, stats.Iterations, stats.EpsFinal, stats.ElapsedTime)
	fmt.Printf("linesearch_failures=%d lbfgs_failures=%d lbfgs_rejected=%d\n",
		stats.LinesearchFailures, stats.LBFGSFailures, stats.LBFGSRejected)
	fmt.Print("x = [")
	for i := 0; i < n; i++ {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%.6g", x.AtVec(i))
	}
	fmt.Println("]")
}
