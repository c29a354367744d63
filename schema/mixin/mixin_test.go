package mixin_test

import (
	"testing"

	"github.com/owl-K/nebula-carina/schema"
	"github.com/owl-K/nebula-carina/schema/field"
	"github.com/owl-K/nebula-carina/schema/mixin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSchemaBaseMixin tests the base Schema mixin.
func TestSchemaBaseMixin(t *testing.T) {
	var _ schema.Mixin = mixin.Schema{}
	var _ schema.Mixin = &mixin.Schema{}
	assert.Nil(t, mixin.Schema{}.Fields())
}

func names(fields []schema.Field) []string {
	var out []string
	for _, f := range fields {
		out = append(out, f.Descriptor().Name)
	}
	return out
}

func TestBuiltinMixins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mixin schema.Mixin
		want  []string
	}{
		{"time", mixin.Time{}, []string{"created_on", "updated_on"}},
		{"create_time", mixin.CreateTime{}, []string{"created_on"}},
		{"update_time", mixin.UpdateTime{}, []string{"updated_on"}},
		{"soft_delete", mixin.SoftDelete{}, []string{"deleted_on"}},
		{"time_soft_delete", mixin.TimeSoftDelete{}, []string{"created_on", "updated_on", "deleted_on"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fields := tt.mixin.Fields()
			assert.Equal(t, tt.want, names(fields))
			for _, f := range fields {
				d := f.Descriptor()
				require.NoError(t, d.Err)
				assert.Equal(t, field.TypeDatetime, d.Type)
			}
		})
	}
}

func TestTimeDefaults(t *testing.T) {
	t.Parallel()

	for _, f := range (mixin.Time{}).Fields() {
		d := f.Descriptor()
		assert.Equal(t, field.Defaulted{Value: field.Auto}, d.Requirement)
		v, err := d.CreateDBField(nil, false)
		require.NoError(t, err)
		assert.Equal(t, "datetime()", v.Literal)
	}

	d := (mixin.SoftDelete{}).Fields()[0].Descriptor()
	assert.True(t, d.Nullable)
	v, err := d.CreateDBField(nil, false)
	require.NoError(t, err)
	assert.Equal(t, "NULL", v.Literal)
}

type audited struct{ mixin.Schema }

func (audited) Fields() []schema.Field {
	return []schema.Field{
		field.String("created_by"),
		field.String("updated_by").Comment("last writer"),
	}
}

func TestComment(t *testing.T) {
	t.Parallel()

	fields := mixin.Comment(audited{}, "audit").Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "audit", fields[0].Descriptor().Comment)
	assert.Equal(t, "last writer", fields[1].Descriptor().Comment)
}

type person struct{ schema.Tag }

func (person) Mixin() []schema.Mixin { return []schema.Mixin{mixin.Time{}} }

func (person) Fields() []schema.Field {
	return []schema.Field{field.FixedString("name", 30)}
}

func TestMixinFieldsComeFirst(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	require.NoError(t, reg.Register(person{}))
	typ := reg.MustLookup(person{})
	assert.Equal(t, []string{"created_on", "updated_on", "name"}, typ.FieldNames())

	inst, err := typ.New(schema.Values{"name": "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"datetime()", "datetime()", `"a"`}, inst.Literals())
}
