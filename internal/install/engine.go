// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/RockerzXY/pdfiler/internal/config"
	"github.com/RockerzXY/pdfiler/internal/dag"
	"github.com/RockerzXY/pdfiler/internal/fetch"
	"github.com/RockerzXY/pdfiler/internal/launcher"
	"github.com/RockerzXY/pdfiler/internal/provision"
	"github.com/RockerzXY/pdfiler/internal/receipt"
	"github.com/RockerzXY/pdfiler/internal/syspkg"
	"github.com/RockerzXY/pdfiler/pkg/fspath"
	"github.com/RockerzXY/pdfiler/pkg/types"

	"github.com/charmbracelet/log"
)

// ErrStepFailed is the sentinel error wrapped by StepError.
var ErrStepFailed = errors.New("install step failed")

type (
	// Engine runs the installation sequence described by a resolved
	// configuration. Collaborators not injected via options are resolved
	// lazily on first use, so constructing an Engine never fails and the
	// plan command works on hosts with no package manager at all.
	Engine struct {
		cfg *config.Config

		manager      syspkg.Manager
		fetcher      fetch.Fetcher
		provisioner  provision.Provisioner
		registrar    launcher.Registrar
		reporter     Reporter
		logger       *log.Logger
		packageNames syspkg.PackageNameMap

		lookPath     func(name string) (string, error)
		writeReceipt func(dir types.FilesystemPath, r *receipt.Receipt) error
		now          func() time.Time
	}

	// Option configures an Engine.
	Option func(*Engine)

	// Result summarizes a successful run.
	Result struct {
		// CloneSkipped reports that acquisition found a pre-existing
		// clone directory and fetched nothing.
		CloneSkipped bool
		// FilesDeployed is the number of files the deploy step copied.
		FilesDeployed int
		// Duration is the wall-clock time of the whole run.
		Duration time.Duration
	}

	// StepError wraps the failure of a single step. It unwraps to both
	// ErrStepFailed and the underlying cause.
	StepError struct {
		Step  StepName
		Cause error
	}

	// runState carries facts one step leaves behind for later steps.
	runState struct {
		cloneSkipped  bool
		filesDeployed int
		indexUpdated  bool
	}
)

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStepFailed}
	}
	return []error{ErrStepFailed, e.Cause}
}

// WithManager injects the system package manager.
func WithManager(m syspkg.Manager) Option {
	return func(e *Engine) { e.manager = m }
}

// WithFetcher injects the source fetcher, bypassing strategy resolution.
func WithFetcher(f fetch.Fetcher) Option {
	return func(e *Engine) { e.fetcher = f }
}

// WithProvisioner injects the environment provisioner.
func WithProvisioner(p provision.Provisioner) Option {
	return func(e *Engine) { e.provisioner = p }
}

// WithRegistrar injects the launcher registrar.
func WithRegistrar(r launcher.Registrar) Option {
	return func(e *Engine) { e.registrar = r }
}

// WithReporter injects the progress event consumer.
func WithReporter(r Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithLogger injects the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithLookPath overrides PATH lookups for tests.
func WithLookPath(fn func(name string) (string, error)) Option {
	return func(e *Engine) { e.lookPath = fn }
}

// WithReceiptWriter overrides receipt persistence for tests.
func WithReceiptWriter(fn func(dir types.FilesystemPath, r *receipt.Receipt) error) Option {
	return func(e *Engine) { e.writeReceipt = fn }
}

// WithNow overrides the clock for tests.
func WithNow(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

// NewEngine creates an Engine for the given resolved configuration.
// cfg must be non-nil and validated.
func NewEngine(cfg *config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:          cfg,
		provisioner:  provision.NewEnvProvisioner(),
		registrar:    launcher.NewFileRegistrar(),
		reporter:     nopReporter{},
		logger:       log.NewWithOptions(os.Stderr, log.Options{Prefix: "install"}),
		packageNames: syspkg.DefaultPackageNames(),
		lookPath:     exec.LookPath,
		writeReceipt: receipt.Write,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan returns the steps in execution order, derived from the declared
// prerequisites. The same ordering drives Run, so the printed plan cannot
// drift from what actually executes.
func (e *Engine) Plan() ([]Step, error) {
	steps := e.steps()

	g := dag.New()
	byName := make(map[StepName]Step, len(steps))
	for _, s := range steps {
		g.AddNode(string(s.Name))
		byName[s.Name] = s
	}
	for _, s := range steps {
		for _, req := range s.Requires {
			if !g.Has(string(req)) {
				return nil, fmt.Errorf("step %s requires unknown step %s", s.Name, req)
			}
			g.AddEdge(string(req), string(s.Name))
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("ordering steps: %w", err)
	}

	out := make([]Step, 0, len(order))
	for _, name := range order {
		out = append(out, byName[StepName(name)])
	}
	return out, nil
}

// Run executes the installation sequence. The first failing step aborts the
// run with a StepError; steps after it never execute and nothing is rolled
// back.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	order, err := e.Plan()
	if err != nil {
		return nil, err
	}

	st := &runState{}
	start := e.now()

	for _, step := range order {
		e.reporter.Publish(Event{Kind: EventStepStarted, Step: step.Name})

		out, err := step.run(ctx, st)
		if err != nil {
			stepErr := &StepError{Step: step.Name, Cause: err}
			e.logger.Error("step failed", "step", step.Name, "err", err)
			e.reporter.Publish(Event{Kind: EventStepFailed, Step: step.Name, Err: err})
			e.reporter.Publish(Event{Kind: EventRunFinished, Err: stepErr})
			return nil, stepErr
		}

		kind := EventStepCompleted
		if out.skipped {
			kind = EventStepSkipped
		}
		e.reporter.Publish(Event{Kind: kind, Step: step.Name, Detail: out.detail})
	}

	res := &Result{
		CloneSkipped:  st.cloneSkipped,
		FilesDeployed: st.filesDeployed,
		Duration:      e.now().Sub(start),
	}
	e.reporter.Publish(Event{Kind: EventRunFinished})
	return res, nil
}

// packageManager returns the injected manager, auto-detecting one on first
// use otherwise.
func (e *Engine) packageManager() (syspkg.Manager, error) {
	if e.manager != nil {
		return e.manager, nil
	}
	m, err := syspkg.AutoDetectManager()
	if err != nil {
		return nil, err
	}
	e.manager = m
	return m, nil
}

// sourceFetcher returns the injected fetcher, resolving the configured
// strategy on first use otherwise.
func (e *Engine) sourceFetcher() (fetch.Fetcher, error) {
	if e.fetcher != nil {
		return e.fetcher, nil
	}
	f, err := fetch.NewRegistry().For(e.cfg.Source.Strategy)
	if err != nil {
		return nil, err
	}
	e.fetcher = f
	return f, nil
}

func (e *Engine) cloneDir() types.FilesystemPath {
	return types.FilesystemPath(e.cfg.Paths.CloneDir)
}

func (e *Engine) installDir() types.FilesystemPath {
	return types.FilesystemPath(e.cfg.Paths.InstallDir)
}

func (e *Engine) launcherPath() types.FilesystemPath {
	return types.FilesystemPath(e.cfg.Paths.Launcher)
}

func (e *Engine) envPath() types.FilesystemPath {
	return fspath.JoinStr(e.installDir(), string(e.cfg.Python.EnvDir))
}

func (e *Engine) manifestPath() types.FilesystemPath {
	return fspath.JoinStr(e.installDir(), string(e.cfg.Python.Manifest))
}

func (e *Engine) entrypointPath() types.FilesystemPath {
	return fspath.JoinStr(e.installDir(), string(e.cfg.Python.Entrypoint))
}
