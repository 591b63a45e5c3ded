package trust

import (
	"testing"

	"github.com/gmendonca/selo/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(DefaultMap(), DefaultTier)

	tests := []struct {
		name   string
		seller *string
		want   int
	}{
		{
			name:   "known trusted seller",
			seller: sptr("KABUM"),
			want:   model.TrustHigh,
		},
		{
			name:   "known suspect seller",
			seller: sptr("INKCOR"),
			want:   model.TrustSuspect,
		},
		{
			name:   "known neutral seller",
			seller: sptr("SIAD8238404"),
			want:   model.TrustNeutral,
		},
		{
			name:   "lookup is case-insensitive",
			seller: sptr("kabum"),
			want:   model.TrustHigh,
		},
		{
			name:   "lookup trims whitespace",
			seller: sptr("  Magazine Luiza  "),
			want:   model.TrustHigh,
		},
		{
			name:   "accented seller name",
			seller: sptr("outlet preçobaixo"),
			want:   model.TrustSuspect,
		},
		{
			name:   "unknown seller falls back to default",
			seller: sptr("LOJA QUALQUER"),
			want:   DefaultTier,
		},
		{
			name:   "missing seller falls back to default",
			seller: nil,
			want:   DefaultTier,
		},
		{
			name:   "blank seller falls back to default",
			seller: sptr("   "),
			want:   DefaultTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.seller))
		})
	}
}

func TestResolver_CustomMapAndDefault(t *testing.T) {
	r := NewResolver(Map{"LOJA A": model.TrustHigh}, model.TrustNeutral)

	assert.Equal(t, model.TrustHigh, r.Resolve(sptr("loja a")))
	assert.Equal(t, model.TrustNeutral, r.Resolve(sptr("loja b")))
	assert.Equal(t, model.TrustNeutral, r.Resolve(nil))
}

func sptr(s string) *string {
	return &s
}
