package services

import (
	"testing"

	"arcade-room-system/models"
)

func thresholds(values ...int) []models.Achievement {
	achievements := make([]models.Achievement, 0, len(values))
	for i, v := range values {
		achievements = append(achievements, models.Achievement{
			ID:            string(rune('a' + i)),
			PlaysRequired: v,
		})
	}
	return achievements
}

func TestEligibleAchievementsBelowEveryThreshold(t *testing.T) {
	t.Parallel()

	if got := EligibleAchievements(2, thresholds(3, 10)); len(got) != 0 {
		t.Fatalf("eligible = %d, want 0", len(got))
	}
}

func TestEligibleAchievementsExactThreshold(t *testing.T) {
	t.Parallel()

	got := EligibleAchievements(3, thresholds(3, 10))
	if len(got) != 1 || got[0].PlaysRequired != 3 {
		t.Fatalf("eligible = %+v, want the 3-play milestone only", got)
	}
}

func TestEligibleAchievementsNoUpperBound(t *testing.T) {
	t.Parallel()

	// exceeding every threshold qualifies every achievement in one pass
	if got := EligibleAchievements(100, thresholds(3, 10, 25)); len(got) != 3 {
		t.Fatalf("eligible = %d, want all 3", len(got))
	}
}

func TestEligibleAchievementsTiesBothQualify(t *testing.T) {
	t.Parallel()

	if got := EligibleAchievements(5, thresholds(5, 5)); len(got) != 2 {
		t.Fatalf("eligible = %d, want both tied milestones", len(got))
	}
}

func TestEligibleAchievementsEmptySet(t *testing.T) {
	t.Parallel()

	if got := EligibleAchievements(10, nil); len(got) != 0 {
		t.Fatalf("eligible = %d, want 0 for a game with no milestones", len(got))
	}
}
