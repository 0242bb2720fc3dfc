package reward

import "sort"

// Action identifies a rewardable action. Rules are declarative data so
// the ledger engine stays free of action-specific branches; adding a
// reward type is a table entry, not code.
type Action string

const (
	ActionWelcome            Action = "welcome"
	ActionEventParticipation Action = "eventParticipation"
	ActionEventApplication   Action = "eventApplication"
	ActionFirstDonation      Action = "firstDonation"
	ActionDonation           Action = "donation"
	ActionEventCompletion    Action = "eventCompletion"
)

type Rule struct {
	Action Action
	Points int
	Coins  int
}

// Badge tiers, ordinal.
const (
	TierBronze = 1
	TierSilver = 2
	TierGold   = 3
)

// Badge is a static definition unlocked when points cross Threshold.
type Badge struct {
	ID        string
	Name      string
	Tier      int
	Threshold int
}

var defaultRules = []Rule{
	{Action: ActionWelcome, Points: 0, Coins: 10},
	{Action: ActionEventParticipation, Points: 50, Coins: 0},
	{Action: ActionEventApplication, Points: 10, Coins: 0},
	{Action: ActionFirstDonation, Points: 25, Coins: 0},
	{Action: ActionDonation, Points: 0, Coins: 5},
	{Action: ActionEventCompletion, Points: 100, Coins: 20},
}

var defaultBadges = []Badge{
	{ID: "first-steps", Name: "First Steps", Tier: TierBronze, Threshold: 50},
	{ID: "helping-hand", Name: "Helping Hand", Tier: TierBronze, Threshold: 100},
	{ID: "event-enthusiast", Name: "Event Enthusiast", Tier: TierSilver, Threshold: 250},
	{ID: "community-pillar", Name: "Community Pillar", Tier: TierSilver, Threshold: 500},
	{ID: "local-legend", Name: "Local Legend", Tier: TierGold, Threshold: 1000},
}

// Rules is the in-memory lookup table the ledger engine consults. Loaded
// once at startup; never mutated afterwards.
type Rules struct {
	levelSize int
	actions   map[Action]Rule
	badges    []Badge // sorted by ascending threshold
}

func New(levelSize int, rules []Rule, badges []Badge) *Rules {
	actions := make(map[Action]Rule, len(rules))
	for _, rule := range rules {
		actions[rule.Action] = rule
	}

	sorted := make([]Badge, len(badges))
	copy(sorted, badges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})

	return &Rules{
		levelSize: levelSize,
		actions:   actions,
		badges:    sorted,
	}
}

// Default returns the built-in rule and badge tables.
func Default(levelSize int) *Rules {
	return New(levelSize, defaultRules, defaultBadges)
}

func (r *Rules) Lookup(action Action) (Rule, bool) {
	rule, ok := r.actions[action]
	return rule, ok
}

func (r *Rules) LevelSize() int {
	return r.levelSize
}

func (r *Rules) Level(points int) int {
	return points/r.levelSize + 1
}

func (r *Rules) Badges() []Badge {
	return r.badges
}

// Eligible returns the badges whose threshold is met by points and which
// are not in held, in ascending threshold order.
func (r *Rules) Eligible(points int, held map[string]bool) []Badge {
	var unlocked []Badge
	for _, b := range r.badges {
		if b.Threshold > points {
			break
		}
		if held[b.ID] {
			continue
		}
		unlocked = append(unlocked, b)
	}

	return unlocked
}
