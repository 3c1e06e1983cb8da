// Runs the chart pipelines (filter, aggregate, prepare)
// of a set of categories against a dataset loaded once.
package pipeline

import (
	"context"
	"sync"

	"github.com/benoitkugler/censuspie/aggregate"
	"github.com/benoitkugler/censuspie/category"
	"github.com/benoitkugler/censuspie/census"
	"github.com/benoitkugler/censuspie/pie"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Loader reads its source at most once; every call to Load
// returns the same dataset or error.
type Loader struct {
	Source census.Source

	once sync.Once
	ds   *census.Dataset
	err  error
}

func NewLoader(src census.Source) *Loader { return &Loader{Source: src} }

// Load reads the dataset on the first call. The context of the
// first call is the one used for the read.
func (l *Loader) Load(ctx context.Context) (*census.Dataset, error) {
	l.once.Do(func() {
		log := klog.FromContext(ctx)
		log.Info("loading dataset", "source", l.Source)
		l.ds, l.err = census.Load(ctx, l.Source)
		if l.err != nil {
			return
		}
		log.Info("dataset loaded", "source", l.Source, "records", l.ds.Len())
	})
	return l.ds, l.err
}

// Result is the outcome of the pipeline of one tag.
type Result struct {
	Tag      string
	Category category.Category // only meaningful when Err is not a *category.ConfigurationError
	Total    uint64
	Segments []pie.Segment
	Err      error
}

// Runner runs the pipelines concurrently.
type Runner struct {
	Layout      pie.Layout
	Concurrency int // maximum number of pipelines running at once, unlimited if <= 0
}

func NewRunner(concurrency int) Runner {
	return Runner{Layout: pie.DefaultLayout, Concurrency: concurrency}
}

// Run computes the segments of each tag, in the order of `tags`.
// The failure of one tag is reported in its Result and does not
// affect the others.
func (r Runner) Run(ctx context.Context, ds *census.Dataset, tags []string) []Result {
	log := klog.FromContext(ctx)
	out := make([]Result, len(tags))

	var g errgroup.Group
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, tag := range tags {
		i, tag := i, tag
		g.Go(func() error {
			out[i] = r.runOne(ctx, ds, tag)
			if err := out[i].Err; err != nil {
				log.Error(err, "chart failed", "category", tag)
			} else {
				log.V(1).Info("chart prepared", "category", tag, "total", out[i].Total, "segments", len(out[i].Segments))
			}
			return nil // errors stay local to their chart
		})
	}
	_ = g.Wait()
	return out
}

func (r Runner) runOne(ctx context.Context, ds *census.Dataset, tag string) Result {
	res := Result{Tag: tag}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	cat, keep, err := category.Lookup(tag)
	if err != nil {
		res.Err = err
		return res
	}
	res.Category = cat
	agg := aggregate.Aggregate(ds.Select(keep))
	res.Total = agg.Total
	res.Segments = pie.Prepare(agg, r.Layout)
	return res
}

// Failed returns the results with an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, res := range results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Render loads the dataset then runs the pipelines of `tags`.
// Only a load failure is returned as an error.
func Render(ctx context.Context, loader *Loader, runner Runner, tags []string) ([]Result, error) {
	ds, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, ds, tags), nil
}
