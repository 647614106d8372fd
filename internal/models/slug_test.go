package models_test

import (
	"testing"

	"tienda/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		name      string
		candidate string
		want      string
	}{
		{"lowercases", "TESLO", "teslo"},
		{"spaces become underscores", "Teslo T-shirt", "teslo_t-shirt"},
		{"apostrophes removed", "Men's Chill Crew Neck Sweatshirt", "mens_chill_crew_neck_sweatshirt"},
		{"other characters untouched", "kids-3d-t (v2)", "kids-3d-t_(v2)"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, models.NormalizeSlug(tc.candidate))
		})
	}
}

func TestNormalizeSlug_Idempotent(t *testing.T) {
	for _, candidate := range []string{
		"Teslo T-shirt",
		"Men's Raven Joggers",
		"already_normalized",
	} {
		once := models.NormalizeSlug(candidate)
		assert.Equal(t, once, models.NormalizeSlug(once))
	}
}
