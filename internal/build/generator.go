package build

import (
	"context"
	stderrors "errors"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/docsite/internal/errors"
	"github.com/conneroisu/docsite/internal/logging"
	"github.com/conneroisu/docsite/internal/types"
)

// PageRenderer renders one catalog page into its output documents.
type PageRenderer interface {
	Render(
		ctx context.Context,
		page *types.PageModel,
		routes []types.Route,
		rootPath string,
		mode types.Mode,
	) ([]types.RenderTarget, error)
}

// GeneratorOptions configures a Generator. Zero values select defaults.
type GeneratorOptions struct {
	// Fs is the filesystem output is read from and written to. Defaults to
	// the OS filesystem.
	Fs afero.Fs
	// DocsRoot is the output directory.
	DocsRoot string
	// Hasher digests output for change detection.
	Hasher Hasher
	// MkdirRetries bounds directory creation retries. Negative selects
	// DefaultMkdirRetries.
	MkdirRetries int
	// Concurrency bounds the pages generated in parallel. Defaults to the
	// number of CPUs.
	Concurrency int
	// Metrics receives page, target and failure counts. Defaults to an
	// unregistered set.
	Metrics *Metrics
	// Logger receives run and page events. The generator and its writer tag
	// it with their own component names.
	Logger logging.Logger
}

// Generator drives a generation run: every page is rendered and each of its
// targets is written only when its content changed.
type Generator struct {
	renderer    PageRenderer
	resolver    *Resolver
	gate        *CacheGate
	writer      *DirectoryWriter
	metrics     *Metrics
	logger      logging.Logger
	concurrency int
}

// NewGenerator creates a generator rendering pages with renderer.
func NewGenerator(renderer PageRenderer, opts GeneratorOptions) *Generator {
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	return &Generator{
		renderer:    renderer,
		resolver:    NewResolver(opts.DocsRoot),
		gate:        NewCacheGate(fs, opts.Hasher),
		writer:      NewDirectoryWriter(fs, opts.MkdirRetries, logger),
		metrics:     metrics,
		logger:      logger.WithComponent("generator"),
		concurrency: concurrency,
	}
}

// Outcome is the result of one render target, or of a page that produced no
// targets.
type Outcome struct {
	Page     string
	ID       string
	Path     string
	Mode     types.Mode
	Skipped  bool
	Written  bool
	Decision CacheDecision
	Err      error
}

// Report summarizes a generation run. Outcomes are in catalog order: pages in
// the order given, targets in render order within a page.
type Report struct {
	RunID    string
	Outcomes []Outcome
	Errors   []*errors.PageError
	Duration time.Duration
}

// Written reports, per outcome, whether a file was actually written.
// Skipped and failed pages count as not written.
func (r *Report) Written() []bool {
	written := make([]bool, len(r.Outcomes))
	for i, o := range r.Outcomes {
		written[i] = o.Written
	}
	return written
}

// WrittenCount returns the number of files written.
func (r *Report) WrittenCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Written {
			n++
		}
	}
	return n
}

// Skipped returns the references of pages that had nothing to render.
func (r *Report) Skipped() []string {
	var skipped []string
	for _, o := range r.Outcomes {
		if o.Skipped {
			skipped = append(skipped, o.Page)
		}
	}
	return skipped
}

// Err joins the per-page errors of the run, or returns nil.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, pe := range r.Errors {
		errs[i] = pe
	}
	return stderrors.Join(errs...)
}

// Generate renders pages and persists the changed targets under the docs
// root. With withoutUI every page yields markup-only example documents;
// otherwise pages with a reference URI yield their documentation page and
// the rest are skipped.
//
// Page failures are isolated and collected in the report. A directory that
// cannot be created aborts the run: pages not yet started are dropped and the
// error is returned with the partial report.
func (g *Generator) Generate(
	ctx context.Context,
	pages []*types.PageModel,
	routes []types.Route,
	rootPath string,
	withoutUI bool,
) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := g.logger.With(logging.KeyRunID, runID)
	perf := logging.StartOperation(logger, "generate")

	logger.Info(ctx, "Starting generation",
		"pages", len(pages),
		"without_ui", withoutUI,
		"concurrency", g.concurrency,
		"docs_root", g.resolver.DocsRoot(),
	)

	results := make([][]Outcome, len(pages))
	collector := errors.NewErrorCollector()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i, page := range pages {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return nil
			}

			outcomes, err := g.generatePage(egCtx, logger, page, routes, rootPath, withoutUI)
			results[i] = outcomes
			if err == nil {
				return nil
			}
			if errors.IsFatal(err) {
				return err
			}

			// Collected even when another page's fatal error already
			// cancelled the run.
			g.metrics.RecordFailure(errors.Code(err))
			logger.Warn(ctx, err, "Page generation failed", logging.KeyPage, page.Reference)
			collector.Add(page.Reference, err)
			return nil
		})
	}

	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report := &Report{
		RunID:  runID,
		Errors: collector.GetErrors(),
	}
	for _, outcomes := range results {
		report.Outcomes = append(report.Outcomes, outcomes...)
	}
	report.Duration = time.Since(start)
	g.metrics.ObserveRun(report.Duration)

	if err != nil {
		perf.EndWithError(ctx, err, "written", report.WrittenCount())
		return report, err
	}

	perf.End(ctx,
		"outcomes", len(report.Outcomes),
		"written", report.WrittenCount(),
		"failed", len(report.Errors),
	)
	return report, nil
}

func (g *Generator) generatePage(
	ctx context.Context,
	logger logging.Logger,
	page *types.PageModel,
	routes []types.Route,
	rootPath string,
	withoutUI bool,
) ([]Outcome, error) {
	mode := types.ModeMarkupOnly
	if !withoutUI {
		if !page.HasURI() {
			g.metrics.RecordSkipped()
			logger.Debug(ctx, "Skipping page without reference URI", logging.KeyPage, page.Reference)
			return []Outcome{{Page: page.Reference, Mode: types.ModeFullDoc, Skipped: true}}, nil
		}
		mode = types.ModeFullDoc
	}

	g.metrics.RecordPage(mode.String())

	targets, err := g.renderer.Render(ctx, page, routes, rootPath, mode)
	if err != nil {
		err = errors.NewRenderError(page.Reference, err)
		return []Outcome{{Page: page.Reference, Mode: mode, Err: err}}, err
	}

	outcomes := make([]Outcome, 0, len(targets))
	var errs []error
	for _, target := range targets {
		outcome := g.generateTarget(ctx, logger, target)
		outcomes = append(outcomes, outcome)
		if outcome.Err == nil {
			continue
		}
		if errors.IsFatal(outcome.Err) {
			return outcomes, outcome.Err
		}
		errs = append(errs, outcome.Err)
	}

	if len(errs) == 1 {
		return outcomes, errs[0]
	}
	return outcomes, stderrors.Join(errs...)
}

func (g *Generator) generateTarget(ctx context.Context, logger logging.Logger, target types.RenderTarget) Outcome {
	outcome := Outcome{
		Page: target.PageReference,
		ID:   target.ID,
		Mode: target.Mode,
	}

	loc, err := g.resolver.Resolve(target.URI)
	if err != nil {
		outcome.Err = withPage(err, target.PageReference)
		return outcome
	}
	outcome.Path = loc.Path

	decision := g.gate.Decide(target.HTML, loc.Path)
	outcome.Decision = decision
	if !decision.Write {
		g.metrics.RecordTarget(false)
		logger.Debug(ctx, "Output unchanged",
			logging.KeyTarget, target.ID,
			logging.KeyPath, loc.Path,
			logging.KeyReason, decision.Reason.String(),
		)
		return outcome
	}

	if err := g.writer.Persist(ctx, loc.Path, loc.Dir, target.HTML); err != nil {
		outcome.Err = withPage(err, target.PageReference)
		return outcome
	}

	outcome.Written = true
	g.metrics.RecordTarget(true)
	logger.Debug(ctx, "Wrote output",
		logging.KeyTarget, target.ID,
		logging.KeyPath, loc.Path,
		logging.KeyReason, decision.Reason.String(),
		logging.KeyMode, target.Mode.String(),
	)
	return outcome
}

func withPage(err error, reference string) error {
	var de *errors.DocsError
	if stderrors.As(err, &de) && de.Page == "" {
		de.WithPage(reference)
	}
	return err
}
