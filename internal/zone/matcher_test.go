package zone

import (
	"testing"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func newTestMatcher() *Matcher {
	c := catalog.Default()
	return NewMatcher(c.Neighborhoods, catalog.Sentinel)
}

func TestMatcher_Suggest(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "empty query lists first neighborhoods",
			query: "",
			want:  []string{catalog.Sentinel, "Aeropuerto", "Alamos", "Aniversario I"},
		},
		{
			name:  "substring match",
			query: "cen",
			want:  []string{catalog.Sentinel, "Centro"},
		},
		{
			name:  "case insensitive",
			query: "SAN M",
			want:  []string{catalog.Sentinel, "San Martin", "San Mateo", "San Miguel"},
		},
		{
			name:  "capped at three matches",
			query: "san",
			want:  []string{catalog.Sentinel, "Antonia Santos", "San Eduardo", "San Luis"},
		},
		{
			name:  "no matches keeps sentinel",
			query: "zzz",
			want:  []string{catalog.Sentinel},
		},
		{
			name:  "sentinel text does not duplicate sentinel",
			query: "consultar",
			want:  []string{catalog.Sentinel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, m.Suggest(tt.query)); diff != "" {
				t.Errorf("Suggest(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestMatcher_SuggestInvariants(t *testing.T) {
	m := newTestMatcher()
	queries := []string{"", "a", "e", "o", "la", "san", "ñ", "Bocono", "   ", "x", "Prados", "ii"}

	for _, q := range queries {
		got := m.Suggest(q)
		assert.LessOrEqual(t, len(got), 4, q)
		assert.Equal(t, catalog.Sentinel, got[0], q)
	}
}

func TestMatcher_IsValid(t *testing.T) {
	m := newTestMatcher()

	for _, n := range catalog.Default().Neighborhoods {
		assert.True(t, m.IsValid(n), n)
	}

	assert.True(t, m.IsValid(catalog.Sentinel))
	assert.True(t, m.IsValid("centro"))
	assert.True(t, m.IsValid("  Centro "))
	assert.False(t, m.IsValid("Cen"))
	assert.False(t, m.IsValid(""))
	assert.False(t, m.IsValid("Centro Histórico"))
}

func TestMatcher_Resolve(t *testing.T) {
	m := newTestMatcher()

	name, ok := m.Resolve("quinta BOSCH")
	assert.True(t, ok)
	assert.Equal(t, "Quinta Bosch", name)

	name, ok = m.Resolve("no sé mi barrio (consultar)")
	assert.True(t, ok)
	assert.True(t, m.IsSentinel(name))

	_, ok = m.Resolve("Marte")
	assert.False(t, ok)
}
