package achievements

// Category groups achievements in listings
type Category string

const (
	CategoryTime     Category = "time"
	CategoryPomodoro Category = "pomodoro"
	CategoryStreak   Category = "streak"
	CategoryMisc     Category = "misc"
)

// Achievement is a one-time unlockable milestone
type Achievement struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	XP          int      `json:"xp"`
	Category    Category `json:"category"`
	IsSecret    bool     `json:"isSecret,omitempty"`
}

// Catalog lists every achievement in display order
var Catalog = []Achievement{
	{ID: "first-step", Title: "First Step", Description: "Complete your first Pomodoro session.", XP: 50, Category: CategoryPomodoro},
	{ID: "focus-master", Title: "Focus Master", Description: "Complete 10 Pomodoro sessions.", XP: 200, Category: CategoryPomodoro},
	{ID: "time-flies", Title: "Time Flies", Description: "Track 1 hour of activity in a single day.", XP: 100, Category: CategoryTime},
	{ID: "marathon-runner", Title: "Marathon Runner", Description: "Track 5 hours of activity in a single day.", XP: 300, Category: CategoryTime},
	{ID: "streak-starter", Title: "Streak Starter", Description: "Use FocusOS for 3 consecutive days.", XP: 150, Category: CategoryStreak},
	{ID: "daily-habit", Title: "Daily Habit", Description: "Use FocusOS for 7 consecutive days.", XP: 400, Category: CategoryStreak},
	{ID: "click-master", Title: "Click Master", Description: "Visit 50 different websites in a day.", XP: 100, Category: CategoryMisc},
	{ID: "guardian", Title: "Guardian", Description: "Hit a daily limit on a blocked site.", XP: 75, Category: CategoryMisc},
	{ID: "break-time", Title: "Break Time", Description: "Complete a Pomodoro break fully.", XP: 50, Category: CategoryPomodoro},
	{ID: "super-user", Title: "Super User", Description: "Reach 1000 Total XP.", XP: 500, Category: CategoryMisc},
	{ID: "deep-focus", Title: "Deep Focus", Description: "Complete 4 Pomodoro sessions in a row.", XP: 100, Category: CategoryPomodoro},
	{ID: "early-bird", Title: "Early Bird", Description: "Start working before 8 AM.", XP: 50, Category: CategoryTime},
	{ID: "night-owl", Title: "Night Owl", Description: "Track time after 10 PM.", XP: 50, Category: CategoryTime},
	{ID: "weekend-warrior", Title: "Weekend Warrior", Description: "Use FocusOS on both Saturday and Sunday.", XP: 150, Category: CategoryStreak},
	{ID: "productivity-god", Title: "Productivity God", Description: "Track 8+ hours in a single day.", XP: 500, Category: CategoryTime},
	{ID: "the-glitch", Title: "The Glitch", Description: "You found a glitch in the system!", XP: 1000, Category: CategoryMisc, IsSecret: true},
	{ID: "midnight-coder", Title: "Midnight Coder", Description: "Checked stats between 12 AM and 1 AM.", XP: 200, Category: CategoryMisc, IsSecret: true},
	{ID: "clean-slate", Title: "Clean Slate", Description: "Cleared all whitelist entries.", XP: 100, Category: CategoryMisc, IsSecret: true},
}

var catalogByID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(Catalog))
	for _, a := range Catalog {
		m[a.ID] = a
	}
	return m
}()

// Lookup returns the achievement with id
func Lookup(id string) (Achievement, bool) {
	a, ok := catalogByID[id]
	return a, ok
}

// XPFor sums the XP of ids, ignoring unknown ids
func XPFor(ids []string) int {
	total := 0
	for _, id := range ids {
		if a, ok := catalogByID[id]; ok {
			total += a.XP
		}
	}
	return total
}
