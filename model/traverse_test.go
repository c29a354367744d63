package model_test

import (
	"context"
	"testing"

	"github.com/owl-K/nebula-carina"
	"github.com/owl-K/nebula-carina/dialect"
	"github.com/owl-K/nebula-carina/dialect/dialecttest"
	"github.com/owl-K/nebula-carina/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followRow(src, dst string, degree float64) dialect.Row {
	return dialect.Row{"e": &dialect.Relationship{
		Src:   src,
		Dst:   dst,
		Name:  "follow",
		Props: map[string]any{"degree": degree},
	}}
}

func personRow(vid, name string, age int64) dialect.Row {
	return dialect.Row{"v": &dialect.Node{
		VID:  vid,
		Tags: map[string]map[string]any{"person": {"name": name, "age": age, "is_active": false}},
	}}
}

func TestTraversalStatements(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	v := newPlayer(t, reg, "v1")
	ctx := context.Background()

	ex := dialecttest.New()
	for _, err := range v.OutEdges(ctx, ex, model.OverEdge(Follow{}), model.Limit(5)) {
		require.NoError(t, err)
	}
	for _, err := range v.ReverseEdges(ctx, ex) {
		require.NoError(t, err)
	}
	for _, err := range v.Destinations(ctx, ex, model.OverEdge(Follow{}), model.Steps(2)) {
		require.NoError(t, err)
	}
	for _, err := range v.Sources(ctx, ex, model.Limit(1)) {
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		`GO FROM "v1" OVER follow YIELD edge AS e | LIMIT 5`,
		`GO FROM "v1" OVER * REVERSELY YIELD edge AS e`,
		`GO 2 STEPS FROM "v1" OVER follow YIELD $$ AS v`,
		`GO FROM "v1" OVER * REVERSELY YIELD $$ AS v | LIMIT 1`,
	}, ex.Statements())
}

func TestOutEdges(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	v := newPlayer(t, reg, "v1")
	ex := dialecttest.New().On("GO", followRow("v1", "v2", 0.5), followRow("v1", "v3", 2))

	var edges []*model.Edge
	for e, err := range v.OutEdges(context.Background(), ex) {
		require.NoError(t, err)
		edges = append(edges, e)
	}
	require.Len(t, edges, 2)
	assert.Equal(t, "v2", edges[0].Dst)
	assert.Equal(t, "v3", edges[1].Dst)
	degree, err := edges[1].Props.Get("degree")
	require.NoError(t, err)
	assert.Equal(t, 2.0, degree)
	assert.Zero(t, ex.OpenRows())
}

func TestDestinations(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	v := newPlayer(t, reg, "v1")
	ex := dialecttest.New().On("GO", personRow("v2", "b", 7))

	var got []*model.Vertex
	for d, err := range v.Destinations(context.Background(), ex, model.As(reg.MustVertex(Fan{}))) {
		require.NoError(t, err)
		got = append(got, d)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].VID())
	assert.Same(t, reg.MustVertex(Fan{}), got[0].Type())
	person, ok := got[0].Tag("person")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"name": `"b"`, "age": "7", "is_active": "false"}, person.FieldDict())
}

func TestTraversalStopsEarly(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	v := newPlayer(t, reg, "v1")
	ex := dialecttest.New().On("GO", followRow("v1", "v2", 1), followRow("v1", "v3", 1), followRow("v1", "v4", 1))

	seq := v.OutEdges(context.Background(), ex)
	n := 0
	for _, err := range seq {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
	assert.Zero(t, ex.OpenRows(), "rows are closed when the consumer stops")

	for _, err := range seq {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already consumed")
	}
	assert.Len(t, ex.Statements(), 1)
}

func TestTraversalCancel(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	v := newPlayer(t, reg, "v1")

	t.Run("Before", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ex := dialecttest.New()
		for _, err := range v.Sources(ctx, ex) {
			require.Error(t, err)
			assert.ErrorIs(t, err, context.Canceled)
			assert.True(t, carina.IsExecutionError(err))
		}
	})

	t.Run("During", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ex := dialecttest.New().On("GO", followRow("v1", "v2", 1), followRow("v1", "v3", 1))
		var errs []error
		for _, err := range v.OutEdges(ctx, ex) {
			errs = append(errs, err)
			cancel()
		}
		require.Len(t, errs, 2)
		assert.NoError(t, errs[0])
		assert.ErrorIs(t, errs[1], context.Canceled)
		assert.Zero(t, ex.OpenRows())
	})
}

func TestTraversalDecodeError(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	v := newPlayer(t, reg, "v1")
	ex := dialecttest.New().On("GO", dialect.Row{"e": &dialect.Relationship{Src: "v1", Dst: "v2", Name: "likes"}}, followRow("v1", "v3", 1))

	var errs []error
	for _, err := range v.OutEdges(context.Background(), ex) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1, "iteration ends at the first error")
	assert.True(t, carina.IsUnresolved(errs[0]))
	assert.Zero(t, ex.OpenRows())
}
