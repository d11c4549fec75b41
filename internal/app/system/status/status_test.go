package status

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{Active, true},
		{Disabled, true},
		{"ACTIVE", false}, // callers normalize case before checking
		{"pending", false},
		{"deleted", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := IsValid(tt.status); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	if got := Default(); got != Active {
		t.Errorf("Default() = %q, want %q", got, Active)
	}
}
