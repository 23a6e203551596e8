package budget

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 2048), 512},
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%d chars): want %d, got %d", len(tt.text), tt.want, got)
		}
	}
}

func TestCheckContext(t *testing.T) {
	tests := []struct {
		name   string
		prompt int
		output int
		window int
		want   ContextStatus
	}{
		{"well under", 500, 512, 2048, ContextOK},
		{"near limit", 1300, 512, 2048, ContextNearLimit},
		{"at window", 1536, 512, 2048, ContextNearLimit},
		{"disabled", 100000, 512, 0, ContextOK},
		{"negative window disabled", 100000, 512, -1, ContextOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckContext(tt.prompt, tt.output, tt.window); got != tt.want {
				t.Fatalf("CheckContext(%d, %d, %d): want %v, got %v",
					tt.prompt, tt.output, tt.window, tt.want, got)
			}
		})
	}
}
