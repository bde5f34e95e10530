package game

import "time"

// Achievement is unlocked at most once and contributes its points to
// the score at unlock time only.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
	Points      int       `json:"points"`
}

type achievementDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Points      int
	// Condition is evaluated against the current state after every
	// mutation. Order in the table is the order conditions are checked.
	Condition func(st *State) bool
}

var achievementDefs = []achievementDef{
	{
		ID: "first_blood", Name: "First Blood", Icon: "*1",
		Description: "Solve your first challenge.", Points: 25,
		Condition: func(st *State) bool { return st.Stats.ChallengesSolved >= 1 },
	},
	{
		ID: "script_kiddie", Name: "Script Kiddie", Icon: ">_",
		Description: "Execute 10 commands.", Points: 10,
		Condition: func(st *State) bool { return st.Stats.CommandsExecuted >= 10 },
	},
	{
		ID: "power_user", Name: "Power User", Icon: "#!",
		Description: "Execute 100 commands.", Points: 30,
		Condition: func(st *State) bool { return st.Stats.CommandsExecuted >= 100 },
	},
	{
		ID: "egg_hunter", Name: "Egg Hunter", Icon: "o0",
		Description: "Discover 3 easter eggs.", Points: 20,
		Condition: func(st *State) bool { return st.Stats.EasterEggsFound >= 3 },
	},
	{
		ID: "easter_bunny", Name: "Easter Bunny", Icon: "oO",
		Description: "Discover 10 easter eggs.", Points: 50,
		Condition: func(st *State) bool { return st.Stats.EasterEggsFound >= 10 },
	},
	{
		ID: "climber", Name: "Climber", Icon: "/\\",
		Description: "Reach level 5.", Points: 40,
		Condition: func(st *State) bool { return st.Level >= 5 },
	},
	{
		ID: "hot_streak", Name: "Hot Streak", Icon: "~3",
		Description: "Solve 3 challenges in a row.", Points: 30,
		Condition: func(st *State) bool { return st.BestStreak >= 3 },
	},
	{
		ID: "unstoppable", Name: "Unstoppable", Icon: "~5",
		Description: "Solve 5 challenges in a row.", Points: 60,
		Condition: func(st *State) bool { return st.BestStreak >= 5 },
	},
	{
		ID: "high_roller", Name: "High Roller", Icon: "$$",
		Description: "Reach a score of 300.", Points: 50,
		Condition: func(st *State) bool { return st.Score >= 300 },
	},
	{
		ID: "persistent", Name: "Persistent", Icon: "5x",
		Description: "Attempt login 5 times.", Points: 15,
		Condition: func(st *State) bool { return st.Stats.LoginAttempts >= 5 },
	},
}

// AchievementCount returns how many achievements exist to unlock.
func AchievementCount() int { return len(achievementDefs) }

// UnlockAchievement unlocks an achievement by id if its definition
// exists and it is not already held. Returns the new achievement, or
// nil when nothing changed.
func (s *Store) UnlockAchievement(id string) *Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.unlockAchievementLocked(id)
	if a != nil {
		s.touchAndSave()
	}
	return a
}

func (s *Store) unlockAchievementLocked(id string) *Achievement {
	for i := range s.state.Achievements {
		if s.state.Achievements[i].ID == id {
			return nil
		}
	}
	for _, def := range achievementDefs {
		if def.ID != id {
			continue
		}
		a := Achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			UnlockedAt:  s.now(),
			Points:      def.Points,
		}
		s.state.Achievements = append(s.state.Achievements, a)
		s.state.Score += def.Points
		return &a
	}
	return nil
}

// evaluateAchievementsLocked checks all conditions until a fixpoint:
// unlock points raise the score, which can itself satisfy a score
// threshold in the same pass.
func (s *Store) evaluateAchievementsLocked() []Achievement {
	var unlocked []Achievement
	for {
		progressed := false
		for _, def := range achievementDefs {
			if !def.Condition(&s.state) {
				continue
			}
			if a := s.unlockAchievementLocked(def.ID); a != nil {
				unlocked = append(unlocked, *a)
				progressed = true
			}
		}
		if !progressed {
			return unlocked
		}
	}
}
