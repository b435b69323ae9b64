package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_All_includes_PCTV(t *testing.T) {
	names := make(map[string]bool)
	for _, p := range All() {
		names[p.Name] = true
	}
	assert.True(t, names["pctv"])
	assert.True(t, names["necx"])
	assert.True(t, names["panasonic"])
}

func Test_DefaultRegistry_excludes_PCTV(t *testing.T) {
	r := DefaultRegistry(nil)
	_, ok := r.Lookup("pctv")
	assert.False(t, ok, "pctv is experimental and excluded from the default registry")

	_, ok = r.Lookup("necx")
	require.True(t, ok)
}

func Test_applyMetadata_sets_aliases_from_table(t *testing.T) {
	p := newNECx()
	p.Aliases = nil
	table := loadMetadata()
	applyMetadata(p, table)
	assert.NotEmpty(t, p.Aliases)
}
