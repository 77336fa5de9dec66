package rulekit

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	rkerrors "github.com/randalmurphal/rulekit/pkg/rulekit/errors"
	"github.com/randalmurphal/rulekit/pkg/rulekit/observability"
	"github.com/randalmurphal/rulekit/pkg/rulekit/rule"
)

// Operation names used for spans, metrics and logs.
const (
	OpCreate   = "create"
	OpCombine  = "combine"
	OpEvaluate = "evaluate"
)

// Engine runs rule operations on the wire format with limits and
// observability applied. An Engine is immutable after New and safe for
// concurrent use.
type Engine struct {
	cfg engineConfig
}

// New creates an Engine.
//
// Example:
//
//	engine := rulekit.New(
//	    rulekit.WithLogger(logger),
//	    rulekit.WithMaxRules(50),
//	)
func New(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{cfg: cfg}
}

// MaxRules returns the configured rule limit for Combine.
func (e *Engine) MaxRules() int { return e.cfg.maxRules }

// MaxDepth returns the configured tree height limit for Evaluate.
func (e *Engine) MaxDepth() int { return e.cfg.maxDepth }

// Create parses one rule and returns its serialized tree.
func (e *Engine) Create(ctx context.Context, text string) (*rule.PlainTree, error) {
	var tree *rule.PlainTree
	err := e.observe(ctx, OpCreate, func(ctx context.Context) error {
		n, err := rule.Parse(text)
		if err != nil {
			return err
		}
		e.cfg.metrics.RecordTree(ctx, OpCreate, rule.Depth(n), 1)
		tree = rule.Serialize(n)
		return nil
	}, slog.String("rule", text))
	return tree, err
}

// Combine parses every rule, joins them with AND and returns the
// serialized tree.
func (e *Engine) Combine(ctx context.Context, texts []string) (*rule.PlainTree, error) {
	var tree *rule.PlainTree
	err := e.observe(ctx, OpCombine, func(ctx context.Context) error {
		if len(texts) > e.cfg.maxRules {
			return rkerrors.Limit(
				fmt.Errorf("%w: got %d, limit %d", ErrTooManyRules, len(texts), e.cfg.maxRules),
				OpCombine)
		}
		n, err := rule.Combine(texts)
		if err != nil {
			return err
		}
		e.cfg.metrics.RecordTree(ctx, OpCombine, rule.Depth(n), len(texts))
		tree = rule.Serialize(n)
		return nil
	}, slog.Int("rules", len(texts)))
	return tree, err
}

// Evaluate rebuilds tree, checks its height and evaluates it against data.
func (e *Engine) Evaluate(ctx context.Context, tree *rule.PlainTree, data map[string]any) (rule.Value, error) {
	var result rule.Value
	err := e.observe(ctx, OpEvaluate, func(ctx context.Context) error {
		if tree == nil {
			return rkerrors.InvalidInput(ErrNilTree, OpEvaluate)
		}
		if len(data) == 0 {
			return rkerrors.InvalidInput(ErrEmptyRecord, OpEvaluate)
		}

		n, err := rule.Deserialize(tree)
		if err != nil {
			return err
		}
		depth := rule.Depth(n)
		if depth > e.cfg.maxDepth {
			return rkerrors.Limit(
				fmt.Errorf("%w: got %d, limit %d", ErrTreeTooDeep, depth, e.cfg.maxDepth),
				OpEvaluate)
		}
		e.cfg.metrics.RecordTree(ctx, OpEvaluate, depth, 0)

		rec, err := rule.NewRecord(data)
		if err != nil {
			return err
		}
		result, err = rule.Evaluate(n, rec)
		if err != nil {
			return err
		}
		e.cfg.spans.AddSpanEvent(ctx, "rule.evaluated",
			attribute.String("result", result.String()),
			attribute.Int("depth", depth))
		return nil
	}, slog.Int("fields", len(data)))
	return result, err
}

// observe wraps fn with a span, a metric sample and log lines.
func (e *Engine) observe(ctx context.Context, op string, fn func(context.Context) error, attrs ...slog.Attr) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := e.cfg.spans.StartOperationSpan(ctx, op)
	logger := observability.WithTraceID(ctx, e.cfg.logger)

	done := observability.TimedOperation()
	observability.LogOperationStart(logger, op, attrs...)

	err := fn(ctx)

	duration := done()
	durationMs := observability.Milliseconds(duration)

	category := ""
	if err != nil {
		category = rkerrors.Categorize(err).String()
		observability.LogOperationError(logger, op, err, category, rkerrors.IsClientError(err), durationMs)
	} else {
		observability.LogOperationComplete(logger, op, durationMs)
	}

	e.cfg.metrics.RecordOperation(ctx, op, duration, category)
	e.cfg.spans.EndSpanWithError(span, err)
	return err
}
