package migrate

import (
	"context"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/ngql"
	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"
)

// DefaultConcurrency is the number of DESCRIBE statements run at once.
const DefaultConcurrency = 4

// Action is the kind of a schema change.
type Action int

// Schema change actions, in the order they are applied for a schema.
const (
	ActionCreate Action = iota
	ActionAdd
	ActionChange
	ActionDrop
)

var actionNames = [...]string{"create", "add", "change", "drop"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "action(" + strconv.Itoa(int(a)) + ")"
}

// Change is one DDL statement of a plan.
type Change struct {
	Kind   schema.Kind
	Schema string
	Action Action
	Props  []string // Affected property names, empty for create
	Stmt   string
}

// Plan is the ordered list of changes that bring the current space in line
// with a registry, along with the issues found while diffing.
type Plan struct {
	Changes []Change
	Result  ValidationResult
}

// Statements returns the DDL of the plan, in order.
func (p *Plan) Statements() []string {
	stmts := make([]string, len(p.Changes))
	for i, c := range p.Changes {
		stmts[i] = c.Stmt
	}
	return stmts
}

// Empty reports whether the space already matches the registry.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

type config struct {
	drop          bool
	nullToNotNull bool
	concurrency   int
	logger        *slog.Logger
}

// Option configures NewPlan and Run.
type Option func(*config)

// WithDrop drops live properties that are not declared on the schema.
// Without it they are reported as warnings and left in place.
func WithDrop() Option {
	return func(c *config) { c.drop = true }
}

// AllowNullToNotNull accepts changing a nullable property to NOT NULL.
func AllowNullToNotNull() Option {
	return func(c *config) { c.nullToNotNull = true }
}

// WithConcurrency bounds the number of concurrent DESCRIBE statements.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithLogger sets the logger used to report planned and applied changes.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func newConfig(opts []Option) *config {
	c := &config{concurrency: DefaultConcurrency, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewPlan diffs the tags and edge types of reg against the current space of
// ex and returns the changes needed to reconcile them. Schemas missing from
// the space are created first, then each existing schema is altered.
func NewPlan(ctx context.Context, ex dialect.Executor, reg *schema.Registry, opts ...Option) (*Plan, error) {
	cfg := newConfig(opts)
	p := &Plan{}
	var alters []Change
	for _, kind := range []schema.Kind{schema.KindTag, schema.KindEdgeType} {
		declared := reg.Tags()
		if kind == schema.KindEdgeType {
			declared = reg.EdgeTypes()
		}
		names := make([]string, len(declared))
		for i, t := range declared {
			names[i] = t.DBName()
		}
		live, err := Inspect(ctx, ex, kind, names, cfg.concurrency)
		if err != nil {
			return nil, err
		}
		for _, t := range declared {
			l, ok := live[t.DBName()]
			if !ok {
				p.Changes = append(p.Changes, Change{
					Kind:   kind,
					Schema: t.DBName(),
					Action: ActionCreate,
					Stmt:   ngql.CreateSchema(t, true),
				})
				continue
			}
			alters = append(alters, diff(t, l, cfg, &p.Result)...)
		}
		for _, name := range slices.Sorted(maps.Keys(live)) {
			if !slices.Contains(names, name) {
				p.Result.warn(name, "", kind.String()+" is not registered", false)
			}
		}
	}
	p.Changes = append(p.Changes, alters...)
	cfg.logger.InfoContext(ctx, "migration planned",
		"changes", len(p.Changes),
		"errors", len(p.Result.Errors),
		"warnings", len(p.Result.Warnings),
	)
	return p, nil
}

// diff returns the ALTER statements turning l into t.
func diff(t *schema.Type, l *Live, cfg *config, res *ValidationResult) []Change {
	var (
		name                = t.DBName()
		adds, changes       []string
		addDefs, changeDefs []string
		declared            = make(map[string]bool)
	)
	for _, fd := range t.Fields() {
		wire := fd.WireName()
		declared[wire] = true
		p, ok := l.Prop(wire)
		if !ok {
			if _, hasDefault := fd.Default(); !fd.Nullable && !hasDefault {
				res.warn(name, wire, "adding NOT NULL property without default fails when data exists", false)
			}
			adds = append(adds, wire)
			addDefs = append(addDefs, fd.Definition())
			continue
		}
		typeDiff := !sameType(p.Type, fd.Type)
		nullDiff := p.Nullable != fd.Nullable
		if !typeDiff && !nullDiff {
			continue
		}
		if typeDiff {
			res.warn(name, wire, "type change from "+p.Type+" to "+fd.Type.Name(), shrinks(p.Type, fd.Type))
		}
		if nullDiff && p.Nullable {
			msg := "changing nullable property to NOT NULL"
			if cfg.nullToNotNull {
				res.warn(name, wire, msg, true)
			} else {
				res.fail(name, wire, msg+" requires AllowNullToNotNull", true)
			}
		}
		changes = append(changes, wire)
		changeDefs = append(changeDefs, fd.Definition())
	}
	var drops []string
	for _, p := range l.Props {
		if declared[p.Name] {
			continue
		}
		if cfg.drop {
			res.warn(name, p.Name, "property is dropped", true)
			drops = append(drops, p.Name)
		} else {
			res.warn(name, p.Name, "property is not declared", false)
		}
	}

	var out []Change
	if len(adds) > 0 {
		out = append(out, Change{Kind: t.Kind(), Schema: name, Action: ActionAdd, Props: adds, Stmt: ngql.AlterAdd(t.Kind(), name, addDefs...)})
	}
	if len(changes) > 0 {
		out = append(out, Change{Kind: t.Kind(), Schema: name, Action: ActionChange, Props: changes, Stmt: ngql.AlterChange(t.Kind(), name, changeDefs...)})
	}
	if len(drops) > 0 {
		out = append(out, Change{Kind: t.Kind(), Schema: name, Action: ActionDrop, Props: drops, Stmt: ngql.AlterDrop(t.Kind(), name, drops...)})
	}
	return out
}

var fixedSize = regexp.MustCompile(`^fixed_string\((\d+)\)$`)

// shrinks reports whether changing live to declared reduces a fixed_string size.
func shrinks(live string, declared field.DataType) bool {
	from, to := fixedSize.FindStringSubmatch(live), fixedSize.FindStringSubmatch(declared.Name())
	if from == nil || to == nil {
		return false
	}
	a, _ := strconv.Atoi(from[1])
	b, _ := strconv.Atoi(to[1])
	return b < a
}

// Apply executes stmts in order and stops at the first failure.
func Apply(ctx context.Context, ex dialect.Executor, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := collect(ctx, ex, "migrate", "", stmt); err != nil {
			return err
		}
	}
	return nil
}

// Run plans and applies the changes for reg. It applies nothing when the
// plan has errors and returns them as a ConfigError.
func Run(ctx context.Context, ex dialect.Executor, reg *schema.Registry, opts ...Option) (*Plan, error) {
	p, err := NewPlan(ctx, ex, reg, opts...)
	if err != nil {
		return nil, err
	}
	if p.Result.HasErrors() {
		return p, carina.NewConfigError("migrate", p.Result.String(), nil)
	}
	cfg := newConfig(opts)
	for _, c := range p.Changes {
		cfg.logger.DebugContext(ctx, "apply schema change",
			"schema", c.Schema,
			"action", c.Action.String(),
			"statement", c.Stmt,
		)
	}
	return p, Apply(ctx, ex, p.Statements())
}
