package health

import (
	"testing"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name              string
		engineInitialized bool
		storeHealthy      bool
		llmHealthy        bool
		want              Status
	}{
		{"all up", true, true, true, StatusHealthy},
		{"store down", true, false, true, StatusDegraded},
		{"llm down", true, true, false, StatusDegraded},
		{"store and llm down", true, false, false, StatusDegraded},
		{"engine uninitialized", false, true, true, StatusUnhealthy},
		{"engine uninitialized trumps probes", false, false, false, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.engineInitialized, tt.storeHealthy, tt.llmHealthy)
			if got != tt.want {
				t.Errorf("Aggregate(%v, %v, %v) = %q, want %q",
					tt.engineInitialized, tt.storeHealthy, tt.llmHealthy, got, tt.want)
			}
		})
	}
}
