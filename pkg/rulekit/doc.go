/*
Package rulekit builds, combines and evaluates simple comparison rules.

A rule is three whitespace-separated tokens, a field, an operator and an
operand:

	age > 30
	status == active

Rules are parsed into expression trees (package rule), combined with AND,
exchanged as JSON in a plain nested form, and evaluated against records of
field values.

# Quick Start

	engine := rulekit.New()

	tree, err := engine.Combine(ctx, []string{"age > 30", "status == active"})
	if err != nil {
	    return err
	}

	result, err := engine.Evaluate(ctx, tree, map[string]any{
	    "age":    35,
	    "status": "active",
	})
	// result.Bool() == true

# Engine

The Engine works on the wire form (*rule.PlainTree) and adds what a
service needs on top of package rule:

  - Limits: WithMaxRules caps Combine, WithMaxDepth caps Evaluate
  - Logging: WithLogger emits one debug line per operation, warn or error on failure
  - Metrics: WithMetrics or WithMetricsRecorder records OpenTelemetry counters and histograms
  - Tracing: WithTracing or WithSpanManager opens a rulekit.<operation> span per call

Programs that only need the tree can use package rule directly; it has no
dependencies beyond the standard library and never logs.

# Error Handling

Errors returned by the Engine wrap the sentinels of package rule and the
engine sentinels in this package, so errors.Is works on both:

	_, err := engine.Evaluate(ctx, tree, data)
	if errors.Is(err, rule.ErrComparison) {
	    // a field was missing or had the wrong type
	}

Package errors maps any of them to a Category and an HTTP status.
*/
package rulekit
