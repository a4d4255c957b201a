package domain

import "testing"

func TestUnlockAchievementsThresholds(t *testing.T) {
	none := UnlockAchievements(RewardCounts{})
	for _, a := range none {
		if a.Unlocked {
			t.Fatalf("achievement %s unlocked with zero counts", a.ID)
		}
	}

	all := UnlockAchievements(RewardCounts{CompletedTasks: 5, JournalEntries: 10, CompletedDays: 7})
	for _, a := range all {
		if !a.Unlocked {
			t.Fatalf("achievement %s locked with maxed counts", a.ID)
		}
	}

	partial := UnlockAchievements(RewardCounts{CompletedTasks: 1, JournalEntries: 3})
	want := map[string]bool{"1": true, "2": true, "3": false, "4": true, "5": false, "6": false}
	for _, a := range partial {
		if a.Unlocked != want[a.ID] {
			t.Fatalf("achievement %s: unlocked=%v, want %v", a.ID, a.Unlocked, want[a.ID])
		}
	}
}

func TestUnlockAchievementsMonotonic(t *testing.T) {
	unlockedAt := func(c RewardCounts) int {
		n := 0
		for _, a := range UnlockAchievements(c) {
			if a.Unlocked {
				n++
			}
		}
		return n
	}

	prev := 0
	for tasks := int64(0); tasks <= 6; tasks++ {
		n := unlockedAt(RewardCounts{CompletedTasks: tasks, JournalEntries: tasks, CompletedDays: int(tasks)})
		if n < prev {
			t.Fatalf("unlock count regressed from %d to %d at %d", prev, n, tasks)
		}
		prev = n
	}
}

func TestUnlockAchievementsDoesNotMutateCatalog(t *testing.T) {
	_ = UnlockAchievements(RewardCounts{CompletedTasks: 100, JournalEntries: 100, CompletedDays: 100})
	for _, a := range achievementCatalog {
		if a.Unlocked {
			t.Fatalf("catalog entry %s mutated", a.ID)
		}
	}
}

func TestTotalPoints(t *testing.T) {
	if got := TotalPoints(RewardCounts{CompletedTasks: 3, JournalEntries: 2}); got != 40 {
		t.Fatalf("TotalPoints = %d, want 40", got)
	}
	if got := TotalPoints(RewardCounts{}); got != 0 {
		t.Fatalf("TotalPoints = %d, want 0", got)
	}
}
