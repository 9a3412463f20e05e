package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dbm "telecore/internal/models/db_models"
)

func TestHeuristicScorer_Satisfaction(t *testing.T) {
	s := NewHeuristicScorer()

	tests := []struct {
		name   string
		plan   dbm.Plan
		active int64
		want   float64
	}{
		{"baseline", dbm.Plan{DataAllowance: "Unlimited"}, 0, 3.0},
		{"small data", dbm.Plan{DataAllowance: "2GB"}, 0, 3.0},
		{"10GB tier", dbm.Plan{DataAllowance: "10GB"}, 0, 3.5},
		{"50GB tier", dbm.Plan{DataAllowance: "50 GB"}, 0, 4.0},
		{"100GB tier", dbm.Plan{DataAllowance: "100GB"}, 0, 4.5},
		{"popular", dbm.Plan{}, 51, 3.3},
		{"very popular", dbm.Plan{}, 101, 3.5},
		{"call minutes", dbm.Plan{CallMinutes: 501}, 0, 3.2},
		{"capped", dbm.Plan{DataAllowance: "200GB", CallMinutes: 5000}, 500, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Satisfaction(tt.plan, tt.active))
		})
	}
}

func TestHeuristicScorer_Growth(t *testing.T) {
	s := NewHeuristicScorer()
	assert.Equal(t, 0.0, s.Growth(0, 0))
	assert.Equal(t, 100.0, s.Growth(0, 3))
	assert.Equal(t, 50.0, s.Growth(2, 3))
	assert.Equal(t, -50.0, s.Growth(4, 2))
}
