package reconciler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/Aleph-Alpha/schemasync/v1/codec"
	"github.com/Aleph-Alpha/schemasync/v1/observability"
	registry "github.com/Aleph-Alpha/schemasync/v1/schema_registry"
	"github.com/Aleph-Alpha/schemasync/v1/schemadiff"
	"github.com/Aleph-Alpha/schemasync/v1/schemadoc"
)

const tracerName = "github.com/Aleph-Alpha/schemasync/v1/reconciler"

// Logger is the logging interface used by the engine.
// *logger.LoggerClient satisfies it.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Result is the outcome of a successful run. It is shared read-only.
type Result struct {
	Subject string

	// Schema is the registry version the codec is bound to.
	Schema registry.RegisteredSchema

	// Document is the local document the run reconciled.
	Document *schemadoc.Document

	Codec *codec.Codec

	// Transitions is the path the run took, from UNKNOWN to READY.
	Transitions []State

	// Writes counts Register and SetCompatibilityLevel calls made.
	Writes int

	// Diff holds the changes from the remote schema to the local document.
	// Empty when the subject was new or up to date.
	Diff schemadiff.Report
}

// Engine keeps one subject in sync with a local schema document.
type Engine struct {
	cfg     Config
	subject string

	store    schemadoc.Store
	client   registry.Client
	factory  *codec.Factory
	logger   Logger
	observer observability.Observer
	tracer   trace.Tracer

	group  singleflight.Group
	result atomic.Pointer[Result]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger logs every state transition and failure to l.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithObserver reports each Reconcile and Diff run to o.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithTracer replaces the tracer of the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithCodecFactory replaces the default factory, which resolves older
// writer schemas through the registry client.
func WithCodecFactory(f *codec.Factory) Option {
	return func(e *Engine) {
		e.factory = f
	}
}

// NewEngine validates cfg and returns an engine that has not run yet.
func NewEngine(cfg Config, store schemadoc.Store, client registry.Client, opts ...Option) (*Engine, error) {
	cfg, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	if store == nil || client == nil {
		return nil, fmt.Errorf("reconciler: store and registry client are required")
	}

	e := &Engine{
		cfg:     cfg,
		subject: cfg.Subject(),
		store:   store,
		client:  client,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	if e.factory == nil {
		factoryOpts := []codec.Option{codec.WithResolver(client)}
		if cfg.SubjectNameOverride != "" {
			factoryOpts = append(factoryOpts, codec.WithSubjectNameStrategy(codec.FixedSubject(cfg.SubjectNameOverride)))
		}
		e.factory = codec.NewFactory(factoryOpts...)
	}
	return e, nil
}

// Subject returns the subject the engine reconciles.
func (e *Engine) Subject() string {
	return e.subject
}

// Result returns the last successful result, or nil.
func (e *Engine) Result() *Result {
	return e.result.Load()
}

// Codec returns the codec of the last successful run.
func (e *Engine) Codec() (*codec.Codec, error) {
	r := e.result.Load()
	if r == nil {
		return nil, ErrNotReconciled
	}
	return r.Codec, nil
}

// Reconcile brings the registry subject in line with the store's current
// document and returns the bound codec. Concurrent calls share one run.
// A failed run returns *Error and leaves the previous result in place.
func (e *Engine) Reconcile(ctx context.Context) (*Result, error) {
	v, err, _ := e.group.Do(e.subject, func() (interface{}, error) {
		return e.run(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

// Diff compares the current document with the latest registered schema
// without writing anything. A subject without versions reports the whole
// document as added at "$".
func (e *Engine) Diff(ctx context.Context) (*schemadoc.Document, *registry.RegisteredSchema, schemadiff.Report, error) {
	doc, err := e.store.CurrentAuthoritative(ctx)
	if err != nil {
		return nil, nil, schemadiff.Report{}, err
	}
	latest, err := e.client.LookupLatest(ctx, e.subject)
	if registry.IsNotFoundError(err) {
		return doc, nil, schemadiff.Report{Changes: []schemadiff.Change{
			{Path: "$", Type: schemadiff.ChangeAdded, To: doc.Value},
		}}, nil
	}
	if err != nil {
		return nil, nil, schemadiff.Report{}, err
	}
	report, err := compareRemote(latest, doc)
	if err != nil {
		return nil, nil, schemadiff.Report{}, err
	}
	return doc, latest, report, nil
}

func (e *Engine) run(ctx context.Context) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "reconciler.Reconcile", trace.WithAttributes(
		attribute.String("schemasync.subject", e.subject),
		attribute.String("schemasync.target_compatibility", string(e.cfg.TargetCompatibilityLevel)),
	))
	defer span.End()

	r := &run{engine: e, span: span, start: time.Now(), transitions: []State{StateUnknown}}
	result, err := r.execute(ctx)

	final := r.state()
	span.SetAttributes(attribute.String("schemasync.state", string(final)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.observe(r, err)

	if err != nil {
		if final == StateFailed {
			e.logError(ctx, "schema reconciliation failed", err, map[string]interface{}{
				"transitions": path(r.transitions),
			})
		}
		return nil, err
	}
	e.result.Store(result)
	return result, nil
}

// run holds the mutable state of one reconciliation.
type run struct {
	engine      *Engine
	span        trace.Span
	start       time.Time
	transitions []State
	writes      int
}

func (r *run) state() State {
	return r.transitions[len(r.transitions)-1]
}

// enter moves to state. Cancellation is checked at every step.
func (r *run) enter(ctx context.Context, to State) error {
	from := r.state()
	if !from.CanTransition(to) {
		panic(fmt.Sprintf("reconciler: illegal transition %s -> %s", from, to))
	}
	if to != StateFailed {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	r.transitions = append(r.transitions, to)
	r.span.AddEvent("transition", trace.WithAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	))
	r.engine.logDebug(ctx, "reconciler state transition", map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
	return nil
}

// fail ends the run in terminal and returns the matching *Error.
func (r *run) fail(ctx context.Context, terminal State, err error) error {
	if !r.state().Terminal() {
		_ = r.enter(ctx, terminal)
	}
	return &Error{
		Subject:     r.engine.subject,
		State:       r.state(),
		Transitions: append([]State(nil), r.transitions...),
		Err:         err,
	}
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	e := r.engine

	if err := r.enter(ctx, StateCheckingRemote); err != nil {
		return nil, r.fail(ctx, StateFailed, err)
	}
	doc, err := e.store.CurrentAuthoritative(ctx)
	if err != nil {
		return nil, r.fail(ctx, StateFailed, fmt.Errorf("load local schema: %w", err))
	}
	latest, err := e.client.LookupLatest(ctx, e.subject)

	var (
		registered *registry.RegisteredSchema
		report     schemadiff.Report
	)
	switch {
	case registry.IsNotFoundError(err):
		if registered, err = r.registerFirst(ctx, doc); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, r.fail(ctx, StateFailed, fmt.Errorf("lookup latest: %w", err))
	default:
		if registered, report, err = r.update(ctx, doc, latest); err != nil {
			return nil, err
		}
	}

	c, err := e.factory.Build(*registered)
	if err != nil {
		return nil, r.fail(ctx, StateFailed, fmt.Errorf("build codec: %w", err))
	}
	if err := r.enter(ctx, StateReady); err != nil {
		return nil, r.fail(ctx, StateFailed, err)
	}

	e.logInfo(ctx, "schema reconciled", map[string]interface{}{
		"schema_id":   registered.ID,
		"version":     registered.Version,
		"document":    doc.Name,
		"transitions": path(r.transitions),
		"writes":      r.writes,
	})
	return &Result{
		Subject:     e.subject,
		Schema:      *registered,
		Document:    doc,
		Codec:       c,
		Transitions: append([]State(nil), r.transitions...),
		Writes:      r.writes,
		Diff:        report,
	}, nil
}

// registerFirst handles a subject without versions. The level is set before
// the first version exists, so a run that stops after Register never leaves
// the subject at the registry default.
func (r *run) registerFirst(ctx context.Context, doc *schemadoc.Document) (*registry.RegisteredSchema, error) {
	if err := r.enter(ctx, StateRegisteringFirst); err != nil {
		return nil, r.fail(ctx, StateFailed, err)
	}
	if err := r.assertLevel(ctx); err != nil {
		return nil, err
	}
	return r.register(ctx, doc)
}

// update handles a subject that already has versions.
func (r *run) update(ctx context.Context, doc *schemadoc.Document, latest *registry.RegisteredSchema) (*registry.RegisteredSchema, schemadiff.Report, error) {
	e := r.engine

	if err := r.enter(ctx, StateDiffCheck); err != nil {
		return nil, schemadiff.Report{}, r.fail(ctx, StateFailed, err)
	}
	report, err := compareRemote(latest, doc)
	if err != nil {
		return nil, report, r.fail(ctx, StateFailed, err)
	}
	if !report.HasChanges() {
		if err := r.enter(ctx, StateUpToDate); err != nil {
			return nil, report, r.fail(ctx, StateFailed, err)
		}
		return latest, report, nil
	}

	e.logInfo(ctx, "local schema differs from registry", map[string]interface{}{
		"remote_version": latest.Version,
		"document":       doc.Name,
		"changes":        report.String(),
	})

	if err := r.enter(ctx, StateCompatibilityTest); err != nil {
		return nil, report, r.fail(ctx, StateFailed, err)
	}
	ok, err := e.client.TestCompatibility(ctx, e.subject, doc.Schema())
	if err != nil {
		return nil, report, r.fail(ctx, StateFailed, fmt.Errorf("test compatibility: %w", err))
	}
	if !ok {
		err := fmt.Errorf("%w: %s is not compatible with version %d", registry.ErrCompatibilityRejected, doc.Name, latest.Version)
		e.logWarn(ctx, "local schema rejected by compatibility test", err, map[string]interface{}{
			"remote_version": latest.Version,
			"document":       doc.Name,
			"diff":           renderRemote(latest, doc),
		})
		return nil, report, r.fail(ctx, StateRejected, err)
	}

	if err := r.enter(ctx, StateUpdating); err != nil {
		return nil, report, r.fail(ctx, StateFailed, err)
	}
	registered, err := r.register(ctx, doc)
	if err != nil {
		return nil, report, err
	}
	if err := r.assertLevel(ctx); err != nil {
		return nil, report, err
	}
	return registered, report, nil
}

func (r *run) register(ctx context.Context, doc *schemadoc.Document) (*registry.RegisteredSchema, error) {
	e := r.engine
	r.writes++
	registered, err := e.client.Register(ctx, e.subject, doc.Schema())
	if err != nil {
		if registry.IsCompatibilityRejectedError(err) && r.state() == StateUpdating {
			return nil, r.fail(ctx, StateRejected, fmt.Errorf("register: %w", err))
		}
		return nil, r.fail(ctx, StateFailed, fmt.Errorf("register: %w", err))
	}
	e.logInfo(ctx, "schema registered", map[string]interface{}{
		"schema_id": registered.ID,
		"version":   registered.Version,
		"document":  doc.Name,
	})
	return registered, nil
}

// assertLevel sets the target level on the subject. A peer may have changed
// it in between; the last writer wins and both write the same value.
func (r *run) assertLevel(ctx context.Context) error {
	e := r.engine
	if err := ctx.Err(); err != nil {
		return r.fail(ctx, StateFailed, err)
	}
	r.writes++
	if err := e.client.SetCompatibilityLevel(ctx, e.subject, e.cfg.TargetCompatibilityLevel); err != nil {
		return r.fail(ctx, StateFailed, fmt.Errorf("set compatibility %s: %w", e.cfg.TargetCompatibilityLevel, err))
	}
	return nil
}

// compareRemote diffs the registered schema against the local document.
// Different schema types always differ.
func compareRemote(latest *registry.RegisteredSchema, doc *schemadoc.Document) (schemadiff.Report, error) {
	remote, err := schemadiff.Parse([]byte(latest.Schema))
	if err != nil {
		return schemadiff.Report{}, fmt.Errorf("parse registered schema %d: %w", latest.ID, err)
	}
	report := schemadiff.Compare(remote, doc.Value)
	if from, to := latest.SchemaType.Normalize(), doc.Format.Normalize(); from != to {
		report.Changes = append(report.Changes, schemadiff.Change{
			Path: "$schemaType",
			Type: schemadiff.ChangeChanged,
			From: string(from),
			To:   string(to),
		})
	}
	return report, nil
}

func renderRemote(latest *registry.RegisteredSchema, doc *schemadoc.Document) string {
	remote, err := schemadiff.Parse([]byte(latest.Schema))
	if err != nil {
		return ""
	}
	return schemadiff.Render(remote, doc.Value)
}
