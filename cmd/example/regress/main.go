package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/classifier/confusion"
	"github.com/gorgonia/learnkit/multiclass/qualityset"
	"github.com/gorgonia/learnkit/regression"
	"github.com/gorgonia/learnkit/regression/linear"
	"github.com/pkg/errors"
)

var (
	rows     = flag.Int("rows", 200, "number of observations")
	features = flag.Int("features", 4, "number of features")
	noise    = flag.Float64("noise", 0.1, "standard deviation of the noise added to the responses")
	seed     = flag.Int64("seed", 1337, "random seed")
	save     = flag.String("save", "", "save the trained model to this file, then load it back")
	metrics  = flag.String("metrics", "", "dump the quality metrics to this CSV file")
	dot      = flag.Bool("dot", false, "print the trained result as a graphviz graph")
)

// synthesize makes a dataset with y = 1 + Σ (i+1)·x_i + noise.
func synthesize(r *rand.Rand, n, f int) (x, y []float64) {
	x = make([]float64, n*f)
	y = make([]float64, n)
	for i := 0; i < n; i++ {
		acc := 1.0
		for j := 0; j < f; j++ {
			v := r.NormFloat64()
			x[i*f+j] = v
			acc += float64(j+1) * v
		}
		y[i] = acc + r.NormFloat64()**noise
	}
	return x, y
}

func labels(vals []float64, threshold float64) []float64 {
	retVal := make([]float64, len(vals))
	for i, v := range vals {
		if v > threshold {
			retVal[i] = 1
		}
	}
	return retVal
}

// saveResult writes res to filename. A failure to flush the file is reported.
func saveResult(filename string, res *linear.Result) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "closing %v", filename)
		}
	}()
	return learnkit.Serialize(f, res)
}

func loadResult(filename string) (*linear.Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	retVal := linear.NewResult()
	if err := learnkit.Deserialize(f, retVal); err != nil {
		return nil, errors.WithMessagef(err, "loading %v", filename)
	}
	return retVal, nil
}

func main() {
	flag.Parse()
	r := rand.New(rand.NewSource(*seed))
	x, y := synthesize(r, *rows, *features)

	b := linear.NewBatch[float64](linear.DefaultParameter())
	b.Input.Set(regression.Data, learnkit.TableOf(*rows, *features, x))
	b.Input.Set(regression.DependentVariables, learnkit.TableOf(*rows, 1, y))
	res, err := b.Compute()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.Printf("β = %v", res.Model().Beta.Data())

	if *save != "" {
		if err := saveResult(*save, res); err != nil {
			log.Fatalf("%+v", err)
		}
		loaded, err := loadResult(*save)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		if st := loaded.Check(b.Input, &b.Parameter, b.Method); !st.OK() {
			log.Fatalf("loaded model: %v", st)
		}
		log.Printf("reloaded model from %v", *save)
		res = loaded
	}

	pred, err := res.Model().Predict(b.Input.Get(regression.Data))
	if err != nil {
		log.Fatalf("%+v", err)
	}
	yhat, err := learnkit.Float64s(pred)
	if err != nil {
		log.Fatal(err)
	}

	in := confusion.NewInput()
	in.Set(confusion.GroundTruthLabels, learnkit.TableOf(*rows, 1, labels(y, 1)))
	in.Set(confusion.PredictedLabels, learnkit.TableOf(*rows, 1, labels(yhat, 1)))
	qs := qualityset.NewBatch[float64](qualityset.DefaultParameter())
	qs.InputData.SetInput(qualityset.ConfusionMatrix, in)
	qres, err := qs.Compute()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	acc, err := qres.GetResult(qualityset.ConfusionMatrix).Metric(confusion.AverageAccuracy)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("average accuracy of y > 1: %1.3f", acc)
	if *metrics != "" {
		if err := qres.Dump(*metrics); err != nil {
			log.Fatal(err)
		}
	}

	if *dot {
		fmt.Println(learnkit.ToDot("linear regression", &res.Slots, func(id learnkit.ID) string {
			return regression.ResultID(id).String()
		}))
	}
}
