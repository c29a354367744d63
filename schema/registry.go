package schema

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/owl-K/nebula-carina"
)

// Registry holds the compiled tags, edge types and vertex schemas of a
// process. It is populated at startup and safe for concurrent readers.
type Registry struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	tags     map[string]*Type
	edges    map[string]*Type
	vertices map[reflect.Type]*VertexType
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report schema overwrites.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger:   slog.Default(),
		tags:     make(map[string]*Type),
		edges:    make(map[string]*Type),
		vertices: make(map[reflect.Type]*VertexType),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) table(k Kind) map[string]*Type {
	if k == KindEdgeType {
		return r.edges
	}
	return r.tags
}

// Register compiles and registers tags and edge types. Registering the
// same name again with an identical field set is a no-op; a different
// field set is a *carina.ConfigError. Use Replace to overwrite.
func (r *Registry) Register(schemas ...Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, s := range schemas {
		if _, err := r.register(s); err != nil {
			errs = append(errs, err)
		}
	}
	return carina.NewAggregateError(errs...)
}

func (r *Registry) register(s Schema) (*Type, error) {
	t, fresh, err := r.resolve(s)
	if err != nil {
		return nil, err
	}
	if fresh {
		r.table(t.kind)[t.name] = t
	}
	return t, nil
}

// resolve compiles s and returns the registered type of the same name, or
// the compiled one with fresh set when the name is not registered yet.
func (r *Registry) resolve(s Schema) (t *Type, fresh bool, err error) {
	t, err = compile(s)
	if err != nil {
		return nil, false, err
	}
	if prev, ok := r.table(t.kind)[t.name]; ok {
		if !prev.sameFields(t) {
			return nil, false, carina.NewConfigError(t.name, fmt.Sprintf("%s already registered with a different field set", t.kind), nil)
		}
		return prev, false, nil
	}
	return t, true, nil
}

// Replace compiles s and overwrites any schema registered under its name.
// Vertex schemas compiled earlier keep the previous definition.
func (r *Registry) Replace(s Schema) (*Type, error) {
	t, err := compile(s)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tbl := r.table(t.kind)
	if prev, ok := tbl[t.name]; ok && !prev.sameFields(t) {
		r.logger.Warn("schema redefined",
			slog.String("kind", t.kind.String()),
			slog.String("name", t.name),
			slog.Any("fields", t.FieldNames()),
		)
	}
	tbl[t.name] = t
	return t, nil
}

// RegisterVertex compiles vertex schemas. Tags referenced by their slots
// are registered on the way.
func (r *Registry) RegisterVertex(schemas ...VertexSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, vs := range schemas {
		if err := r.registerVertex(vs); err != nil {
			errs = append(errs, err)
		}
	}
	return carina.NewAggregateError(errs...)
}

func (r *Registry) registerVertex(vs VertexSchema) error {
	if vs == nil {
		return carina.NewConfigError("<nil>", "nil vertex schema", nil)
	}
	name := DBName(vs)
	slots := vs.Tags()
	if len(slots) == 0 {
		return carina.NewConfigError(name, "vertex schema declares no tag slots", nil)
	}
	vt := &VertexType{
		name:   name,
		goType: reflect.TypeOf(vs),
		reg:    r,
		bySlot: make(map[string]int, len(slots)),
		byTag:  make(map[string]int, len(slots)),
	}
	var pending []*Type
	for _, s := range slots {
		if s.Name == "" {
			return carina.NewConfigError(name, "empty slot name", nil)
		}
		if _, ok := vt.bySlot[s.Name]; ok {
			return carina.NewConfigError(name, fmt.Sprintf("duplicate slot %q", s.Name), nil)
		}
		if s.Schema == nil || s.Schema.Kind() != KindTag {
			return carina.NewConfigError(name, fmt.Sprintf("slot %q does not hold a tag", s.Name), nil)
		}
		t, fresh, err := r.resolve(s.Schema)
		if err != nil {
			return carina.NewConfigError(name, fmt.Sprintf("slot %q", s.Name), err)
		}
		if _, ok := vt.byTag[t.name]; ok {
			return carina.NewConfigError(name, fmt.Sprintf("tag %q bound to more than one slot", t.name), nil)
		}
		vt.bySlot[s.Name] = len(vt.slots)
		vt.byTag[t.name] = len(vt.slots)
		vt.slots = append(vt.slots, VertexSlot{Name: s.Name, Tag: t})
		if fresh {
			pending = append(pending, t)
		}
	}
	// Tags are committed only once every slot is valid.
	for _, t := range pending {
		r.tags[t.name] = t
	}
	r.vertices[vt.goType] = vt
	return nil
}

// Tag returns the tag registered under name.
func (r *Registry) Tag(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tags[name]
	return t, ok
}

// EdgeType returns the edge type registered under name.
func (r *Registry) EdgeType(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.edges[name]
	return t, ok
}

// Lookup returns the compiled type of a registered schema.
func (r *Registry) Lookup(s Schema) (*Type, error) {
	name := DBName(s)
	r.mu.RLock()
	t, ok := r.table(s.Kind())[name]
	r.mu.RUnlock()
	if !ok {
		if s.Kind() == KindEdgeType {
			return nil, carina.NewUnresolvedEdgeTypeError(name)
		}
		return nil, carina.NewUnresolvedTagError("", name)
	}
	return t, nil
}

// MustLookup is like Lookup but panics on error.
func (r *Registry) MustLookup(s Schema) *Type {
	t, err := r.Lookup(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Vertex returns the compiled vertex schema registered for vs.
func (r *Registry) Vertex(vs VertexSchema) (*VertexType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	vt, ok := r.vertices[reflect.TypeOf(vs)]
	if !ok {
		return nil, carina.NewConfigError(DBName(vs), "vertex schema not registered", nil)
	}
	return vt, nil
}

// MustVertex is like Vertex but panics on error.
func (r *Registry) MustVertex(vs VertexSchema) *VertexType {
	vt, err := r.Vertex(vs)
	if err != nil {
		panic(err)
	}
	return vt
}

// Tags returns the registered tags ordered by name.
func (r *Registry) Tags() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sorted(r.tags)
}

// EdgeTypes returns the registered edge types ordered by name.
func (r *Registry) EdgeTypes() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sorted(r.edges)
}

func sorted(m map[string]*Type) []*Type {
	ts := make([]*Type, 0, len(m))
	for _, t := range m {
		ts = append(ts, t)
	}
	slices.SortFunc(ts, func(a, b *Type) int { return cmp.Compare(a.name, b.name) })
	return ts
}
