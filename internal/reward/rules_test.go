package reward_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunthub/volunthub-api/internal/reward"
)

func TestRules_Lookup(t *testing.T) {
	rules := reward.Default(100)

	rule, ok := rules.Lookup(reward.ActionEventParticipation)
	require.True(t, ok)
	assert.Equal(t, 50, rule.Points)
	assert.Equal(t, 0, rule.Coins)

	rule, ok = rules.Lookup(reward.ActionWelcome)
	require.True(t, ok)
	assert.Equal(t, 0, rule.Points)
	assert.Equal(t, 10, rule.Coins)

	_, ok = rules.Lookup(reward.Action("referral"))
	assert.False(t, ok)
}

func TestRules_Level(t *testing.T) {
	rules := reward.Default(100)

	tests := []struct {
		points int
		want   int
	}{
		{points: 0, want: 1},
		{points: 99, want: 1},
		{points: 100, want: 2},
		{points: 250, want: 3},
		{points: 1000, want: 11},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, rules.Level(tc.points), "points=%d", tc.points)
	}
}

func TestRules_Eligible(t *testing.T) {
	rules := reward.Default(100)

	t.Run("below first threshold earns nothing", func(t *testing.T) {
		assert.Empty(t, rules.Eligible(49, nil))
	})

	t.Run("crossing a threshold unlocks in ascending order", func(t *testing.T) {
		unlocked := rules.Eligible(120, nil)
		require.Len(t, unlocked, 2)
		assert.Equal(t, "first-steps", unlocked[0].ID)
		assert.Equal(t, "helping-hand", unlocked[1].ID)
	})

	t.Run("held badges are not unlocked twice", func(t *testing.T) {
		held := map[string]bool{"first-steps": true}
		unlocked := rules.Eligible(120, held)
		require.Len(t, unlocked, 1)
		assert.Equal(t, "helping-hand", unlocked[0].ID)
	})

	t.Run("exact threshold counts", func(t *testing.T) {
		unlocked := rules.Eligible(250, map[string]bool{"first-steps": true, "helping-hand": true})
		require.Len(t, unlocked, 1)
		assert.Equal(t, "event-enthusiast", unlocked[0].ID)
		assert.Equal(t, reward.TierSilver, unlocked[0].Tier)
	})
}

func TestRules_BadgesSortedByThreshold(t *testing.T) {
	rules := reward.New(100, nil, []reward.Badge{
		{ID: "b", Threshold: 500},
		{ID: "a", Threshold: 50},
		{ID: "c", Threshold: 1000},
	})

	badges := rules.Badges()
	require.Len(t, badges, 3)
	assert.Equal(t, "a", badges[0].ID)
	assert.Equal(t, "b", badges[1].ID)
	assert.Equal(t, "c", badges[2].ID)
}
