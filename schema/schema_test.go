package schema_test

import (
	"bytes"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestTagModel struct{ schema.Tag }

func (TestTagModel) Fields() []schema.Field {
	return []schema.Field{
		field.FixedString("name", 30),
		field.Int16("age").Default(0),
		field.Bool("is_active").Default(true),
		field.String("nickname").Nullable(),
		field.Datetime("joined").Default(field.Auto),
	}
}

type Person struct{ schema.Tag }

func (Person) Fields() []schema.Field {
	return []schema.Field{field.FixedString("name", 30)}
}

type PersonV2 struct{ schema.Tag }

func (PersonV2) Config() schema.Config { return schema.Config{Name: "person"} }

func (PersonV2) Fields() []schema.Field {
	return []schema.Field{field.FixedString("name", 30), field.Int16("age")}
}

type Follow struct{ schema.EdgeType }

func (Follow) Config() schema.Config { return schema.Config{Comment: "who follows whom"} }

func (Follow) Fields() []schema.Field {
	return []schema.Field{field.Double("degree").Default(1.0)}
}

type Player struct{ schema.Vertex }

func (Player) Tags() []schema.Slot {
	return []schema.Slot{
		schema.TagSlot("person", Person{}),
		schema.TagSlot("profile", TestTagModel{}),
	}
}

type Broken struct{ schema.Tag }

func (Broken) Fields() []schema.Field {
	return []schema.Field{
		field.Int8("a").Default(1000),
		field.String("b"),
		field.String("b"),
	}
}

func TestDBName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "test_tag_model", schema.DBName(TestTagModel{}))
	assert.Equal(t, "test_tag_model", schema.DBName(&TestTagModel{}))
	assert.Equal(t, "person", schema.DBName(Person{}))
	assert.Equal(t, "person", schema.DBName(PersonV2{}))
	assert.Equal(t, "follow", schema.DBName(Follow{}))
	assert.Equal(t, "player", schema.DBName(Player{}))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "test_tag_model", schema.DBName(TestTagModel{}))
		}()
	}
	wg.Wait()
}

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TAG", schema.KindTag.String())
	assert.Equal(t, "EDGE", schema.KindEdgeType.String())
	assert.Equal(t, "INVALID", schema.Kind(0).String())
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("Lookup", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(TestTagModel{}, Follow{}))

		typ, ok := reg.Tag("test_tag_model")
		require.True(t, ok)
		assert.Equal(t, schema.KindTag, typ.Kind())
		assert.Equal(t, []string{"name", "age", "is_active", "nickname", "joined"}, typ.FieldNames())
		assert.Same(t, typ, reg.MustLookup(TestTagModel{}))

		et, ok := reg.EdgeType("follow")
		require.True(t, ok)
		assert.Equal(t, "who follows whom", et.Comment())

		_, ok = reg.Tag("follow")
		assert.False(t, ok)
		_, err := reg.Lookup(Person{})
		assert.True(t, carina.IsUnresolved(err))
	})

	t.Run("Idempotent", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(Person{}))
		first := reg.MustLookup(Person{})
		require.NoError(t, reg.Register(Person{}))
		assert.Same(t, first, reg.MustLookup(Person{}))
	})

	t.Run("Conflict", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(Person{}))
		err := reg.Register(PersonV2{})
		require.Error(t, err)
		assert.True(t, carina.IsConfigError(err))
		assert.Equal(t, []string{"name"}, reg.MustLookup(Person{}).FieldNames())
	})

	t.Run("InvalidFields", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		err := reg.Register(Broken{}, Person{})
		require.Error(t, err)
		assert.True(t, carina.IsConfigError(err))
		assert.True(t, carina.IsTypeConstraintError(err))
		assert.Contains(t, err.Error(), `duplicate field "b"`)
		_, ok := reg.Tag("person")
		assert.True(t, ok, "valid schemas are registered next to invalid ones")
	})

	t.Run("Replace", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		reg := schema.NewRegistry(schema.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		require.NoError(t, reg.Register(Person{}))
		typ, err := reg.Replace(PersonV2{})
		require.NoError(t, err)
		assert.Same(t, typ, reg.MustLookup(Person{}))
		assert.Equal(t, []string{"name", "age"}, typ.FieldNames())
		assert.Contains(t, buf.String(), "schema redefined")
		assert.Contains(t, buf.String(), "name=person")
	})

	t.Run("Sorted", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(TestTagModel{}, Person{}, Follow{}))
		var tags []string
		for _, typ := range reg.Tags() {
			tags = append(tags, typ.DBName())
		}
		assert.Equal(t, []string{"person", "test_tag_model"}, tags)
		assert.Len(t, reg.EdgeTypes(), 1)
	})
}

func TestTypeNew(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(TestTagModel{}))
	typ := reg.MustLookup(TestTagModel{})

	t.Run("Defaults", func(t *testing.T) {
		t.Parallel()
		inst, err := typ.New(schema.Values{"name": "a"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"name":      `"a"`,
			"age":       "0",
			"is_active": "true",
			"nickname":  "NULL",
			"joined":    "datetime()",
		}, inst.FieldDict())
		assert.Equal(t, []string{"name", "age", "is_active", "nickname", "joined"}, inst.WireNames())
		assert.Equal(t, []string{`"a"`, "0", "true", "NULL", "datetime()"}, inst.Literals())
	})

	t.Run("Explicit", func(t *testing.T) {
		t.Parallel()
		inst, err := typ.New(schema.Values{"name": "a", "age": 42, "is_active": false})
		require.NoError(t, err)
		lit, err := inst.FieldValue("age")
		require.NoError(t, err)
		assert.Equal(t, "42", lit)
		v, err := inst.Get("is_active")
		require.NoError(t, err)
		assert.Equal(t, false, v)
		assert.Equal(t, int64(42), inst.Values()["age"])
	})

	t.Run("MissingRequired", func(t *testing.T) {
		t.Parallel()
		_, err := typ.New(schema.Values{"age": 1})
		require.Error(t, err)
		var missing *carina.MissingRequiredFieldError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "test_tag_model", missing.Schema)
		assert.Equal(t, "name", missing.Field)
	})

	t.Run("UnknownField", func(t *testing.T) {
		t.Parallel()
		_, err := typ.New(schema.Values{"name": "a", "zzz": 1, "height": 2})
		require.Error(t, err)
		var unknown *carina.UnknownFieldError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "height", unknown.Field)
	})

	t.Run("Constraint", func(t *testing.T) {
		t.Parallel()
		_, err := typ.New(schema.Values{"name": "a", "age": 70000})
		assert.True(t, carina.IsTypeConstraintError(err))
	})

	t.Run("FieldValueUnknown", func(t *testing.T) {
		t.Parallel()
		inst, err := typ.New(schema.Values{"name": "a"})
		require.NoError(t, err)
		_, err = inst.FieldValue("height")
		assert.True(t, carina.IsUnknownField(err))
		_, err = typ.Field("height")
		assert.True(t, carina.IsUnknownField(err))
	})

	t.Run("Set", func(t *testing.T) {
		t.Parallel()
		inst, err := typ.New(schema.Values{"name": "a"})
		require.NoError(t, err)
		require.NoError(t, inst.Set("age", 7))
		lit, _ := inst.FieldValue("age")
		assert.Equal(t, "7", lit)
		assert.Error(t, inst.Set("age", 70000))
		assert.True(t, carina.IsUnknownField(inst.Set("height", 1)))
	})
}

func TestFromProps(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(TestTagModel{}))
	typ := reg.MustLookup(TestTagModel{})

	t.Run("Coerces", func(t *testing.T) {
		t.Parallel()
		joined := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
		inst, err := typ.FromProps(map[string]any{
			"name":      "a",
			"age":       int64(42),
			"is_active": true,
			"nickname":  nil,
			"joined":    joined,
			"unknown":   "ignored",
		})
		require.NoError(t, err)
		want, err := typ.New(schema.Values{"name": "a", "age": 42, "is_active": true, "nickname": nil, "joined": joined})
		require.NoError(t, err)
		assert.Equal(t, want.FieldDict(), inst.FieldDict())
	})

	t.Run("Location", func(t *testing.T) {
		t.Parallel()
		loc := time.FixedZone("UTC+8", 8*3600)
		inst, err := typ.FromProps(map[string]any{
			"name":   "a",
			"joined": time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
		}, schema.InLocation(loc))
		require.NoError(t, err)
		lit, _ := inst.FieldValue("joined")
		assert.Equal(t, `datetime("2023-01-01T20:00:00.000000")`, lit)
	})

	t.Run("MissingRequired", func(t *testing.T) {
		t.Parallel()
		_, err := typ.FromProps(map[string]any{"age": int64(1)})
		require.Error(t, err)
		assert.True(t, carina.IsMaterializationError(err))
		assert.True(t, carina.IsMissingRequiredField(err))
	})

	t.Run("BadValue", func(t *testing.T) {
		t.Parallel()
		_, err := typ.FromProps(map[string]any{"name": "a", "age": "old"})
		require.Error(t, err)
		assert.True(t, carina.IsMaterializationError(err))
		assert.True(t, carina.IsTypeConstraintError(err))
	})
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(TestTagModel{}))
	assert.Equal(t, []string{
		"name fixed_string(30) NOT NULL",
		"age int16 NOT NULL DEFAULT 0",
		"is_active bool NOT NULL DEFAULT true",
		"nickname string NULL",
		"joined datetime NOT NULL DEFAULT datetime()",
	}, reg.MustLookup(TestTagModel{}).Definitions())
}

type Empty struct{ schema.Vertex }

type Twice struct{ schema.Vertex }

func (Twice) Tags() []schema.Slot {
	return []schema.Slot{schema.TagSlot("a", Person{}), schema.TagSlot("b", Person{})}
}

type EdgeSlot struct{ schema.Vertex }

func (EdgeSlot) Tags() []schema.Slot {
	return []schema.Slot{schema.TagSlot("follow", Follow{})}
}

type Badge struct{ schema.Tag }

func (Badge) Fields() []schema.Field {
	return []schema.Field{field.FixedString("code", 0)}
}

type Decorated struct{ schema.Vertex }

func (Decorated) Tags() []schema.Slot {
	return []schema.Slot{schema.TagSlot("a", TestTagModel{}), schema.TagSlot("b", Badge{})}
}

func TestRegisterVertex(t *testing.T) {
	t.Parallel()

	t.Run("Slots", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		require.NoError(t, reg.RegisterVertex(Player{}))
		vt := reg.MustVertex(Player{})
		assert.Equal(t, "player", vt.Name())
		assert.Same(t, reg, vt.Registry())

		_, ok := reg.Tag("person")
		assert.True(t, ok, "slot tags are registered")

		var slots []string
		for name, typ := range vt.IterateTagModels() {
			slots = append(slots, name+"="+typ.DBName())
		}
		assert.Equal(t, []string{"person=person", "profile=test_tag_model"}, slots)
		var again []string
		for name := range vt.IterateTagModels() {
			again = append(again, name)
			break
		}
		assert.Equal(t, []string{"person"}, again)

		m := vt.TagName2Model()
		assert.Equal(t, []string{"person", "test_tag_model"}, slices.Sorted(maps.Keys(m)))
		slot, ok := vt.SlotForTag("test_tag_model")
		require.True(t, ok)
		assert.Equal(t, "profile", slot)
		typ, ok := vt.Slot("person")
		require.True(t, ok)
		assert.Equal(t, "person", typ.DBName())

		_, err := vt.ResolveTag("team")
		var unresolved *carina.UnresolvedTagError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "team", unresolved.Tag)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		for _, vs := range []schema.VertexSchema{Empty{}, Twice{}, EdgeSlot{}} {
			err := reg.RegisterVertex(vs)
			assert.True(t, carina.IsConfigError(err), "%T", vs)
		}
		_, err := reg.Vertex(Empty{})
		assert.True(t, carina.IsConfigError(err))
	})

	t.Run("Atomic", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		err := reg.RegisterVertex(Decorated{})
		assert.True(t, carina.IsConfigError(err))
		_, ok := reg.Tag("test_tag_model")
		assert.False(t, ok, "valid slots are not registered when a later slot fails")
		_, ok = reg.Tag("badge")
		assert.False(t, ok)

		require.Error(t, reg.RegisterVertex(Twice{}))
		_, ok = reg.Tag("person")
		assert.False(t, ok)
	})

	t.Run("SlotConflict", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		require.NoError(t, reg.Register(PersonV2{}))
		err := reg.RegisterVertex(Player{})
		assert.True(t, carina.IsConfigError(err))
	})
}
