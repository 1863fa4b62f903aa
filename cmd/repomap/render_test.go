package main

import (
	"testing"

	"github.com/kevinaud/repo-map/internal/plan"
)

func TestSplitBoost(t *testing.T) {
	tests := []struct {
		raw        string
		wantValue  string
		wantWeight float64
		wantErr    bool
	}{
		{"internal/auth/**", "internal/auth/**", plan.DefaultBoostWeight, false},
		{"internal/auth/**:25", "internal/auth/**", 25, false},
		{"*.go:2.5", "*.go", 2.5, false},
		{"Login", "Login", plan.DefaultBoostWeight, false},
		{"pattern:abc", "", 0, true},
		{"pattern:0", "", 0, true},
		{"pattern:-3", "", 0, true},
		{":5", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, weight, err := splitBoost(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitBoost(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if value != tt.wantValue || weight != tt.wantWeight {
				t.Errorf("splitBoost(%q) = (%q, %v), want (%q, %v)",
					tt.raw, value, weight, tt.wantValue, tt.wantWeight)
			}
		})
	}
}
