package profile

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAnswer = errors.New("invalid questionnaire answer")

// RiskProfile is the investor category derived from the questionnaire.
type RiskProfile string

const (
	Conservative   RiskProfile = "Conservative"
	Moderate       RiskProfile = "Moderate"
	Aggressive     RiskProfile = "Aggressive"
	VeryAggressive RiskProfile = "Very Aggressive"
)

// Question is one multiple-choice item. Option i scores i+1 points.
type Question struct {
	Text    string
	Options []string
}

// Questions is the four-item risk questionnaire.
var Questions = []Question{
	{
		Text: "What is the main goal of your investment?",
		Options: []string{
			"Capital preservation (low risk)",
			"Moderate capital growth",
			"Aggressive capital growth",
			"High speculative income",
		},
	},
	{
		Text: "How long is your investment horizon?",
		Options: []string{
			"Less than 1 year",
			"1-3 years",
			"3-5 years",
			"More than 5 years",
		},
	},
	{
		Text: "How would you react to a 20% portfolio drop within one month?",
		Options: []string{
			"Sell everything",
			"Sell some",
			"Hold and monitor",
			"Buy more",
		},
	},
	{
		Text: "How much investing experience do you have?",
		Options: []string{
			"Beginner (just started)",
			"Intermediate (1-3 years)",
			"Experienced (3-5 years)",
			"Very experienced (>5 years)",
		},
	},
}

// profileTiers maps a total score to a profile; first match wins.
var profileTiers = []struct {
	MaxScore int
	Profile  RiskProfile
}{
	{6, Conservative},
	{10, Moderate},
	{14, Aggressive},
}

// Evaluate scores the answers (1..4 each, one per question) and returns the profile.
func Evaluate(answers []int) (RiskProfile, int, error) {
	if len(answers) != len(Questions) {
		return "", 0, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidAnswer, len(Questions), len(answers))
	}
	total := 0
	for i, a := range answers {
		if a < 1 || a > len(Questions[i].Options) {
			return "", 0, fmt.Errorf("%w: question %d answer %d out of range", ErrInvalidAnswer, i+1, a)
		}
		total += a
	}
	return classify(total), total, nil
}

func classify(total int) RiskProfile {
	for _, t := range profileTiers {
		if total <= t.MaxScore {
			return t.Profile
		}
	}
	return VeryAggressive
}

// Parse accepts a profile name case-insensitively.
func Parse(name string) (RiskProfile, error) {
	for _, p := range []RiskProfile{Conservative, Moderate, Aggressive, VeryAggressive} {
		if strings.EqualFold(string(p), strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown profile %q", ErrInvalidAnswer, name)
}
