// Package emotion infers which emotion marker a committed chat message should
// carry, from the text of the exchange alone.
package emotion

import "strings"

// Label is an emotion marker understood by the avatar layer.
type Label string

const (
	Neutral    Label = "neutral"
	Happy      Label = "happy"
	Excited    Label = "excited"
	Thoughtful Label = "thoughtful"
	Confused   Label = "confused"
)

// Decision is the analysis outcome with a 1-5 intensity.
type Decision struct {
	Emotion Label
	Scale   float32
	Score   int
}

var keywordBuckets = map[Label][]string{
	Happy: {
		"glad", "happy", "great", "awesome", "wonderful", "thanks", "thank you",
		"love", "haha", "lol", "nice", "welcome", "delighted", "pleasure", "enjoy",
	},
	Excited: {
		"amazing", "incredible", "can't wait", "cant wait", "wow", "let's go",
		"lets go", "epic", "hype", "excited", "thrilled", "unbelievable", "stoked",
	},
	Thoughtful: {
		"hmm", "let me think", "consider", "perhaps", "ponder", "wonder",
		"interesting question", "reflect", "suppose", "curious", "on the other hand",
	},
	Confused: {
		"not sure", "don't understand", "dont understand", "confused", "unclear",
		"what do you mean", "no idea", "huh", "lost me", "doesn't make sense",
	},
}

var punctuationBoost = map[Label]int{
	Happy:   2,
	Excited: 3,
}

// Analyze infers the emotion for a committed assistant message from both
// sides of the exchange. The assistant text wins; when it carries no signal,
// the user's mood picks a sympathetic response label instead.
func Analyze(userUtterance, assistantUtterance string) Decision {
	userScore := scoreText(userUtterance)
	assistantScore := scoreText(assistantUtterance)

	final := assistantScore
	if final.Score == 0 && userScore.Score > 0 {
		final = coerceFromUser(userScore)
	}

	if final.Score == 0 {
		return Decision{Emotion: Neutral, Scale: 3, Score: 0}
	}

	scale := 2 + float32(final.Score)/4
	if final.Emotion == Excited {
		scale += 1
	}
	if scale < 1 {
		scale = 1
	}
	if scale > 5 {
		scale = 5
	}

	return Decision{Emotion: final.Emotion, Scale: scale, Score: final.Score}
}

// coerceFromUser maps a visitor's mood onto the label a host reply should
// carry: confusion is met with a thoughtful tone, everything else mirrored.
func coerceFromUser(user Decision) Decision {
	if user.Emotion == Confused {
		return Decision{Emotion: Thoughtful, Scale: user.Scale, Score: user.Score}
	}
	return user
}

func scoreText(text string) Decision {
	normalized := strings.TrimSpace(strings.ToLower(text))
	if normalized == "" {
		return Decision{Emotion: Neutral}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += 3
			}
		}
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 0 {
		scores[Excited] += exclamations * punctuationBoost[Excited]
		if exclamations == 1 {
			scores[Happy] += punctuationBoost[Happy]
		}
	}
	if strings.Count(text, "?") >= 2 {
		scores[Confused] += 2
	}

	bestLabel := Neutral
	bestScore := 0
	for label, s := range scores {
		if s > bestScore {
			bestScore = s
			bestLabel = label
		}
	}

	return Decision{Emotion: bestLabel, Score: bestScore}
}
