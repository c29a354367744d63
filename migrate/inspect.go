package migrate

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/ngql"
	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"

	"golang.org/x/sync/errgroup"
)

// Prop is a property of a live tag or edge type, as reported by DESCRIBE.
type Prop struct {
	Name     string
	Type     string // nGQL type name, lower-cased
	Nullable bool
	Default  string // Default expression, empty when none
	Comment  string
}

// Live is a tag or edge type that exists in the current space.
type Live struct {
	Kind  schema.Kind
	Name  string
	Props []Prop
}

// Prop returns the named property.
func (l *Live) Prop(name string) (Prop, bool) {
	i := slices.IndexFunc(l.Props, func(p Prop) bool { return p.Name == name })
	if i < 0 {
		return Prop{}, false
	}
	return l.Props[i], true
}

// Inspect lists the tags and edge types of the current space and describes
// those named in names. Other schemas are reported with their name only.
// Describes run concurrently, at most limit at a time.
func Inspect(ctx context.Context, ex dialect.Executor, kind schema.Kind, names []string, limit int) (map[string]*Live, error) {
	rows, err := collect(ctx, ex, "show", "", ngql.Show(kind))
	if err != nil {
		return nil, err
	}
	live := make(map[string]*Live, len(rows))
	for _, r := range rows {
		name := cell(r, "Name")
		if name == "" {
			continue
		}
		live[name] = &Live{Kind: kind, Name: name}
	}
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, name := range names {
		l, ok := live[name]
		if !ok {
			continue
		}
		g.Go(func() error {
			rows, err := collect(ctx, ex, "describe", name, ngql.Describe(kind, name))
			if err != nil {
				return err
			}
			props := make([]Prop, 0, len(rows))
			for _, r := range rows {
				props = append(props, Prop{
					Name:     cell(r, "Field"),
					Type:     strings.ToLower(cell(r, "Type")),
					Nullable: strings.EqualFold(cell(r, "Null"), "YES"),
					Default:  cell(r, "Default"),
					Comment:  cell(r, "Comment"),
				})
			}
			// Each goroutine owns a distinct entry.
			l.Props = props
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return live, nil
}

func collect(ctx context.Context, ex dialect.Executor, op, target, stmt string) ([]dialect.Row, error) {
	rows, err := ex.Execute(ctx, stmt)
	if err == nil {
		var all []dialect.Row
		if all, err = dialect.Collect(rows); err == nil {
			return all, nil
		}
	}
	if carina.IsExecutionError(err) {
		return nil, err
	}
	return nil, carina.NewExecutionError(op, target, stmt, err)
}

// cell returns a row value as a string. Missing and NULL cells are empty.
func cell(r dialect.Row, key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// sameType reports whether a live type name denotes the declared type.
func sameType(live string, declared field.DataType) bool {
	if t, ok := field.LookupType(live); ok {
		return t.Name() == declared.Name()
	}
	return strings.EqualFold(strings.TrimSpace(live), declared.Name())
}
