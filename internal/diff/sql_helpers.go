package diff

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pgschema/tsschema/internal/feature"
	"github.com/pgschema/tsschema/internal/logger"
)

// timestampLayout is the fixed-precision UTC instant accepted by job arguments
const timestampLayout = "2006-01-02T15:04:05.0000000Z"

// generator holds what every per-feature generator needs: the injected quoting
// strategy and the compile options.
type generator struct {
	q    Quoter
	opts Options
	log  *slog.Logger
}

func newGenerator(opts Options) *generator {
	return &generator{
		q:    opts.Mode.Quoter(),
		opts: opts,
		log:  logger.Component("diff"),
	}
}

// interval renders a duration as INTERVAL '<v>' and a count as a bare integer,
// cast to castType when one is given.
func (g *generator) interval(v feature.Interval, castType string) string {
	if v.IsCount() {
		if castType != "" {
			return v.String() + "::" + castType
		}
		return v.String()
	}
	return "INTERVAL " + g.q.Literal(v.String())
}

// duration renders a job duration argument, which is always an interval
func (g *generator) duration(v string) string {
	return "INTERVAL " + g.q.Literal(strings.TrimSpace(v))
}

// timestamp renders a job start instant
func (g *generator) timestamp(t time.Time) string {
	return g.q.Literal(t.UTC().Format(timestampLayout))
}

// call renders SELECT fn(args...);
func (g *generator) call(fn string, args ...string) string {
	return fmt.Sprintf("SELECT %s(%s);", fn, strings.Join(args, ", "))
}

// kwarg renders a keyword argument
func kwarg(name, value string) string {
	return name + " => " + value
}

// warning renders a non-fatal problem as an inline comment and logs it
func (g *generator) warning(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	g.log.Warn(msg)
	return "-- WARNING: " + g.q.Raw(strings.ReplaceAll(msg, "\n", " "))
}

// guarded renders DDL that needs the Timescale license. The body runs inside a
// DO block that raises a warning instead of failing on the Apache edition.
// Function calls in the body use PERFORM; see guardedCall.
func (g *generator) guarded(what, body string) string {
	if g.opts.DisableLicenseGuard {
		return body
	}
	msg := strings.ReplaceAll(what+" skipped: requires the timescale license", "%", "%%")
	return fmt.Sprintf(
		"DO $$ BEGIN IF current_setting('timescaledb.license', true) = 'apache' THEN RAISE WARNING %s; ELSE %s END IF; END $$;",
		g.q.Literal(msg), body)
}

// guardedCall renders a license-gated function call. Inside the guard the
// call uses PERFORM, which PL/pgSQL requires for discarded results.
func (g *generator) guardedCall(what, fn string, args ...string) string {
	if g.opts.DisableLicenseGuard {
		return g.call(fn, args...)
	}
	return g.guarded(what, fmt.Sprintf("PERFORM %s(%s);", fn, strings.Join(args, ", ")))
}

// jobLookup renders the subquery locating a job by procedure, schema and
// relation. Every alter_job call of a policy kind goes through here.
func (g *generator) jobLookup(kind Kind, schema, relation string) string {
	switch kind {
	case KindRefreshPolicy:
		return fmt.Sprintf(
			"(SELECT j.job_id FROM timescaledb_information.jobs j JOIN timescaledb_information.continuous_aggregates ca ON ca.materialization_hypertable_schema = j.hypertable_schema AND ca.materialization_hypertable_name = j.hypertable_name WHERE j.proc_name = %s AND ca.view_schema = %s AND ca.view_name = %s)",
			g.q.Literal(procRefreshPolicy), g.q.Literal(schema), g.q.Literal(relation))
	default:
		return fmt.Sprintf(
			"(SELECT job_id FROM timescaledb_information.jobs WHERE proc_name = %s AND hypertable_schema = %s AND hypertable_name = %s)",
			g.q.Literal(procReorderPolicy), g.q.Literal(schema), g.q.Literal(relation))
	}
}

const (
	procReorderPolicy = "policy_reorder"
	procRefreshPolicy = "policy_refresh_continuous_aggregate"
)

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}
