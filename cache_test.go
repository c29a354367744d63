package carina_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/owl-K/nebula-carina"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		key        carina.CacheKey
		str, prefx string
	}{
		{carina.CacheKey{Space: "main", Schema: "player", ID: "v1"}, "main:player:v1", "main:player:"},
		{carina.CacheKey{Space: "main", Schema: "follow", ID: carina.EdgeID("a", "b", 0)}, "main:follow:a->b@0", "main:follow:"},
		{carina.CacheKey{Space: "g", Schema: "serve", ID: carina.EdgeID("p1", "t1", -3)}, "g:serve:p1->t1@-3", "g:serve:"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.str, tt.key.String())
		assert.Equal(t, tt.prefx, tt.key.Prefix())
		assert.Contains(t, tt.key.String(), tt.key.Prefix())
	}
}
