package moderation

import (
	"testing"
	"time"
)

func TestClassifyRisk(t *testing.T) {
	cfg := DefaultRiskConfig()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldAccount := now.Add(-30 * 24 * time.Hour)

	tests := []struct {
		name string
		h    History
		want RiskLevel
	}{
		{"unknown author", History{Found: false}, RiskHigh},
		{"new account", History{Found: true, CreatedAt: now.Add(-1 * time.Hour)}, RiskHigh},
		{"new account clean history still high", History{Found: true, CreatedAt: now.Add(-23 * time.Hour), TotalComments: 10}, RiskHigh},
		{"just past new account window", History{Found: true, CreatedAt: now.Add(-25 * time.Hour), TotalComments: 10}, RiskLow},
		{"no comments yet", History{Found: true, CreatedAt: oldAccount}, RiskLow},
		{"clean history", History{Found: true, CreatedAt: oldAccount, TotalComments: 100, DeletedComments: 5}, RiskLow},
		{"elevated deletions", History{Found: true, CreatedAt: oldAccount, TotalComments: 100, DeletedComments: 30}, RiskMedium},
		{"heavy deletions", History{Found: true, CreatedAt: oldAccount, TotalComments: 100, DeletedComments: 60}, RiskHigh},
		{"exactly half deleted", History{Found: true, CreatedAt: oldAccount, TotalComments: 10, DeletedComments: 5}, RiskMedium},
		{"exactly fifth deleted", History{Found: true, CreatedAt: oldAccount, TotalComments: 10, DeletedComments: 2}, RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRisk(tt.h, cfg, now); got != tt.want {
				t.Errorf("ClassifyRisk(%+v) = %v, want %v", tt.h, got, tt.want)
			}
		})
	}
}
