package main

import (
	"cmp"
	"fmt"
	"log"
	"runtime"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/convnet/internal/config"
	"github.com/born-ml/convnet/internal/imageio"
	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

type predictFlags struct {
	archPath string
	bgr      bool
	jobs     int
	workers  int
	top      int
	verbose  bool
}

type prediction struct {
	path   string
	scores []float32
}

func newPredictCmd() *cobra.Command {
	var f predictFlags

	cmd := &cobra.Command{
		Use:   "predict --arch FILE IMAGE...",
		Short: "Evaluate the network on one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, err := config.Load(f.archPath)
			if err != nil {
				return err
			}
			model, err := arch.Build(nn.WithWorkers(f.workers))
			if err != nil {
				return err
			}

			results, err := predictAll(cmd, model, arch.InputShape(), args, f)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.path, formatTop(r.scores, f.top))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.archPath, "arch", "a", "", "architecture YAML file")
	flags.BoolVar(&f.bgr, "bgr", false, "load images as B, G, R planes instead of R, G, B")
	flags.IntVarP(&f.jobs, "jobs", "j", runtime.NumCPU(), "images evaluated concurrently")
	flags.IntVar(&f.workers, "workers", 1, "goroutines per convolution/pooling kernel")
	flags.IntVarP(&f.top, "top", "k", 1, "number of highest-scoring outputs to print")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log per-image timing")
	_ = cmd.MarkFlagRequired("arch")
	return cmd
}

// predictAll evaluates every image on the shared pipeline. Results keep
// the argument order; the first failure cancels the remaining work.
func predictAll(cmd *cobra.Command, model *nn.Sequential, input tensor.Shape, paths []string, f predictFlags) ([]prediction, error) {
	order := imageio.RGB
	if f.bgr {
		order = imageio.BGR
	}

	results := make([]prediction, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(f.jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()

			x, err := imageio.Load(path, imageio.WithChannelOrder(order))
			if err != nil {
				return err
			}
			if !x.Shape().Equal(input) {
				return fmt.Errorf("%s: image shape %v does not match architecture input %v", path, []int(x.Shape()), []int(input))
			}
			y, err := model.Evaluate(x)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = prediction{path: path, scores: y.Data()}
			if f.verbose {
				log.Printf("%s: evaluated in %s", path, time.Since(start).Round(time.Microsecond))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// formatTop renders the k highest scores as "index:score" pairs.
func formatTop(scores []float32, k int) string {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})

	k = min(max(k, 1), len(idx))
	out := ""
	for n, i := range idx[:k] {
		if n > 0 {
			out += " "
		}
		out += fmt.Sprintf("%d:%.4f", i, scores[i])
	}
	return out
}
