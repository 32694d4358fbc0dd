package service

import "testing"

func TestCanTakeBonus(t *testing.T) {
	tests := []struct {
		name           string
		answeredNormal int
		answeredBonus  int
		milestoneSize  int
		want           bool
	}{
		{"before first milestone", 5, 0, 10, false},
		{"at first milestone boundary", 9, 0, 10, true},
		{"bonus already taken at first milestone", 9, 1, 10, false},
		{"just past boundary window closes", 10, 0, 10, false},
		{"missed bonus is not carried over", 12, 0, 10, false},
		{"second milestone boundary", 19, 1, 10, true},
		{"second milestone with both taken", 19, 2, 10, false},
		{"second boundary with first skipped allows one", 19, 0, 10, true},
		{"no progress", 0, 0, 10, false},
		{"milestone size 1 unlocks every question", 0, 0, 1, true},
		{"milestone size 1 after taking", 0, 1, 1, false},
		{"zero milestone size disables bonus", 9, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTakeBonus(tt.answeredNormal, tt.answeredBonus, tt.milestoneSize)
			if got != tt.want {
				t.Fatalf("CanTakeBonus(%d, %d, %d) = %v, want %v",
					tt.answeredNormal, tt.answeredBonus, tt.milestoneSize, got, tt.want)
			}
		})
	}
}
