// Command gpdemo fits a 2-D sinusoidal surface with Gaussian Process
// regression using structured kernel interpolation, then renders predicted,
// actual, and absolute-error heatmaps as PNG files.
//
// Usage:
//
//	gpdemo [-out DIR]
//
// The demo is deliberately a straight line: build a training grid, fit for a
// fixed number of iterations printing the loss, switch to evaluation mode,
// predict on a coarser test grid, and plot.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"github.com/thalesfsp/gpr"
)

const (
	// trainGridSize is the per-dimension resolution of the training grid.
	trainGridSize = 40

	// inducingGridSize is the per-dimension resolution of the inducing grid
	// used by the structured kernel interpolation wrapper.
	inducingGridSize = 30

	// testGridSize is the per-dimension resolution of the evaluation grid.
	testGridSize = 25

	// iterations and learnRate drive the fitting loop. Fixed budget, no
	// convergence check.
	iterations = 30
	learnRate  = 0.1
)

// target is the ground-truth surface being regressed.
func target(x0, x1 float64) float64 {
	return math.Sin(2 * math.Pi * (x0 + x1))
}

// evaluate applies target to every point of a grid.
func evaluate(points [][]float64) []float64 {
	y := make([]float64, len(points))
	for i, p := range points {
		y[i] = target(p[0], p[1])
	}

	return y
}

func run(outDir string) error {
	// Step 1: training grid over the unit square.
	xTrain, err := gpr.UnitGrid(trainGridSize)
	if err != nil {
		return fmt.Errorf("building training grid: %w", err)
	}

	// Step 2: ground-truth targets.
	yTrain := evaluate(xTrain)

	// Step 3: constant mean + grid-interpolated RBF kernel + Gaussian noise.
	grid, err := gpr.NewInducingGrid(inducingGridSize, inducingGridSize)
	if err != nil {
		return fmt.Errorf("building inducing grid: %w", err)
	}

	likelihood := gpr.NewGaussianLikelihood(0.1)

	model := gpr.NewRegression(
		gpr.NewConstantMean(0),
		gpr.NewSKIKernel(gpr.NewRBFKernel(0.3, 1.0), grid),
		likelihood,
	)

	if err := model.SetTrainingData(xTrain, yTrain); err != nil {
		return fmt.Errorf("setting training data: %w", err)
	}

	// Step 4: fixed-budget fitting loop, printing the loss each iteration.
	cfg := gpr.DefaultFitConfig()
	cfg.Iterations = iterations
	cfg.LearnRate = learnRate

	progress := make(chan gpr.TrainingUpdate, iterations)
	cfg.ProgressChan = progress

	done := make(chan struct{})

	go func() {
		defer close(done)

		for update := range progress {
			fmt.Printf("iter %d/%d - loss: %.3f\n",
				update.Iteration, update.TotalIterations, update.Loss)
		}
	}()

	err = model.Fit(cfg)

	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("fitting model: %w", err)
	}

	// Step 5: evaluation mode, posterior means on the test grid, absolute
	// error against ground truth.
	if err := model.Eval(); err != nil {
		return fmt.Errorf("switching to evaluation mode: %w", err)
	}

	xTest, err := gpr.UnitGrid(testGridSize)
	if err != nil {
		return fmt.Errorf("building test grid: %w", err)
	}

	pred, variances, err := model.PredictBatch(xTest)
	if err != nil {
		return fmt.Errorf("predicting test grid: %w", err)
	}

	actual := evaluate(xTest)

	errSurface, err := gpr.AbsError(pred, actual)
	if err != nil {
		return fmt.Errorf("computing error surface: %w", err)
	}

	logDensity := 0.0
	for i := range pred {
		logDensity += gpr.LogDensity(actual[i], pred[i], variances[i]+likelihood.Noise())
	}

	fmt.Printf("max abs error: %.4f\n", floats.Max(errSurface))
	fmt.Printf("mean predictive log density: %.4f\n", logDensity/float64(len(pred)))

	// Step 6: three heatmaps.
	surfaces := []struct {
		file  string
		title string
		z     []float64
	}{
		{"predicted.png", "Predicted values", pred},
		{"actual.png", "Actual values", actual},
		{"error.png", "Absolute error", errSurface},
	}

	for _, s := range surfaces {
		path := filepath.Join(outDir, s.file)

		if err := gpr.SaveHeatmap(path, s.title, s.z, testGridSize, testGridSize); err != nil {
			return fmt.Errorf("rendering %s: %w", s.file, err)
		}

		fmt.Printf("wrote %s\n", path)
	}

	return nil
}

func main() {
	outDir := flag.String("out", ".", "directory for the rendered heatmaps")
	flag.Parse()

	if err := run(*outDir); err != nil {
		log.Fatal(err)
	}
}
