package domain

// IconName references a client-side icon for an achievement.
type IconName string

const (
	IconStar           IconName = "Star"
	IconBookOpen       IconName = "BookOpen"
	IconAward          IconName = "Award"
	IconCalendarCheck2 IconName = "CalendarCheck2"
)

// Achievement is a statically defined milestone. The Unlocked flag is derived
// from live counts on every read and is never persisted.
type Achievement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Unlocked    bool     `json:"unlocked"`
	Icon        IconName `json:"icon"`
}

// RewardCounts are the aggregates achievements are derived from.
type RewardCounts struct {
	CompletedTasks int64
	JournalEntries int64
	// CompletedDays counts distinct calendar days with at least one completed
	// task. It is not a consecutive-day streak even though the product calls
	// it one.
	CompletedDays int
}

// achievementCatalog is the fixed set of milestones, loaded once and never
// mutated. Unlock state is computed per request by UnlockAchievements.
var achievementCatalog = []Achievement{
	{ID: "1", Title: "First Task Completed", Description: "You completed your very first task!", Icon: IconStar},
	{ID: "2", Title: "Journal Entry", Description: "You wrote your first journal entry.", Icon: IconBookOpen},
	{ID: "3", Title: "Task Master", Description: "Complete 5 tasks.", Icon: IconAward},
	{ID: "4", Title: "Consistent Journalist", Description: "Write in your journal for 3 days.", Icon: IconCalendarCheck2},
	{ID: "5", Title: "Mindful Streak", Description: "Complete tasks for 7 consecutive days.", Icon: IconStar},
	{ID: "6", Title: "Emotion Explorer", Description: "Log 10 different mood entries.", Icon: IconBookOpen},
}

// UnlockAchievements returns a copy of the catalog with unlock state derived
// from the given counts. Thresholds only ever unlock; they never relock as
// counts grow.
func UnlockAchievements(c RewardCounts) []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	for i := range out {
		switch out[i].ID {
		case "1":
			out[i].Unlocked = c.CompletedTasks >= 1
		case "2":
			out[i].Unlocked = c.JournalEntries >= 1
		case "3":
			out[i].Unlocked = c.CompletedTasks >= 5
		case "4":
			out[i].Unlocked = c.JournalEntries >= 3
		case "5":
			out[i].Unlocked = c.CompletedDays >= 7
		case "6":
			out[i].Unlocked = c.JournalEntries >= 10
		}
	}
	return out
}

// TotalPoints is the reward score: 10 points per completed task plus 5 per
// journal entry.
func TotalPoints(c RewardCounts) int64 {
	return c.CompletedTasks*10 + c.JournalEntries*5
}
