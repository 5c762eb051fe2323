package querylang

import (
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	"go-spotscout/types"
)

func TestParseFilterCues(t *testing.T) {
	parsed := Parse("quiet open cafe for studying")

	assert.Equal(t, "quiet", parsed.Filter.NoiseLevel)
	assert.True(t, parsed.Filter.OpenNow)
	assert.True(t, parsed.Filter.GoodForStudying)
	assert.Contains(t, parsed.Terms, "cafe")
}

func TestParseNotCrowdedPhrase(t *testing.T) {
	parsed := Parse("coffee not crowded")
	assert.True(t, parsed.Filter.NotCrowded)
}

func TestParseIntentCues(t *testing.T) {
	parsed := Parse("somewhere to focus on my deadline")

	assert.Equal(t, types.IntentDeepWork, parsed.Intent)
	assert.Greater(t, parsed.IntentConfidence, 0.0)
}

func TestParseEmptyQuery(t *testing.T) {
	parsed := Parse("")

	assert.Equal(t, types.IntentAny, parsed.Intent)
	assert.Empty(t, parsed.Terms)
	assert.Equal(t, types.NoiseAny, parsed.Filter.NoiseLevel)
}

func TestParseStripsPunctuationAndStopWords(t *testing.T) {
	parsed := Parse("a pretty place for matcha, near me!")

	assert.Contains(t, parsed.Terms, "matcha")
	assert.NotContains(t, parsed.Terms, "a")
	assert.NotContains(t, parsed.Terms, "near")
	assert.Equal(t, types.IntentAesthetic, parsed.Intent)
}

func TestBoostNameMatchOutweighsTagMatch(t *testing.T) {
	parsed := Parse("matcha")

	byName := types.SpotAggregate{Name: "Matcha House"}
	byTag := types.SpotAggregate{Name: "Green Cafe", Tags: []string{"matcha"}}
	neither := types.SpotAggregate{Name: "Burger Barn"}

	assert.Greater(t, Boost(byName, parsed), Boost(byTag, parsed))
	assert.Greater(t, Boost(byTag, parsed), Boost(neither, parsed))
	assert.Zero(t, Boost(neither, parsed))
}

func TestBoostIntentVotes(t *testing.T) {
	parsed := Parse("focus time")

	voted := types.SpotAggregate{
		Name:         "Study Hall",
		CheckinCount: 10,
		IntentScores: map[string]int{string(types.IntentDeepWork): 8},
	}
	unvoted := types.SpotAggregate{Name: "Study Hall", CheckinCount: 10}

	assert.Greater(t, Boost(voted, parsed), Boost(unvoted, parsed))
}

func TestClassifiedIntent(t *testing.T) {
	intent, conf := classifiedIntent(nil)
	assert.Equal(t, types.IntentAny, intent, "empty choice list must not panic")
	assert.Zero(t, conf)

	intent, conf = classifiedIntent([]openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: " Deep-Work\n"}},
	})
	assert.Equal(t, types.IntentDeepWork, intent)
	assert.Equal(t, 0.85, conf)

	intent, conf = classifiedIntent([]openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: "espresso"}},
	})
	assert.Equal(t, types.IntentAny, intent)
	assert.Zero(t, conf)
}

func TestBoostDeterministic(t *testing.T) {
	parsed := Parse("quiet matcha spot")
	spot := types.SpotAggregate{Name: "Matcha House", Tags: []string{"tea"}}

	assert.Equal(t, Boost(spot, parsed), Boost(spot, parsed))
}
