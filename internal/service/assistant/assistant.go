// Package assistant generates the canned sales reply for an intent and
// sentiment label.
package assistant

import "speech-analyzer-service/internal/models"

type rule struct {
	matches  func(intent models.Intent, sentimentLabel string) bool
	response models.SalesResponse
}

func forIntent(want models.Intent) func(models.Intent, string) bool {
	return func(intent models.Intent, _ string) bool { return intent == want }
}

// rules is evaluated top to bottom. Intent-specific replies come before the
// sentiment-based one.
var rules = []rule{
	{
		matches: forIntent(models.IntentPurchaseInterest),
		response: models.SalesResponse{
			NextQuestion:   "Would you like to know the available models or pricing?",
			SoftHandling:   "Great! Let me help you choose the best option.",
			Recommendation: "Our latest model offers excellent value for buyers.",
		},
	},
	{
		matches: forIntent(models.IntentAskForPrice),
		response: models.SalesResponse{
			NextQuestion:   "Do you have any budget range in mind?",
			SoftHandling:   "I'll help you find the best model in your range.",
			Recommendation: "We have offers and EMI options you might like.",
		},
	},
	{
		matches: forIntent(models.IntentComplaint),
		response: models.SalesResponse{
			NextQuestion:   "Could you explain the issue you're facing?",
			SoftHandling:   "I truly apologize for the inconvenience.",
			Recommendation: "We can quickly guide you through a solution.",
		},
	},
	{
		matches: func(_ models.Intent, sentimentLabel string) bool {
			return sentimentLabel == models.SentimentNegative
		},
		response: models.SalesResponse{
			NextQuestion:   "What would you like us to improve?",
			SoftHandling:   "I understand your concern — I'm here to help.",
			Recommendation: "We can offer alternatives that better fit your needs.",
		},
	},
}

var fallback = models.SalesResponse{
	NextQuestion:   "How can I assist you further?",
	SoftHandling:   "I'm right here to help.",
	Recommendation: "Let me know your preference and I'll recommend the best option.",
}

// Generate returns the reply of the first matching rule, or the generic reply.
// The sentiment label is compared exactly; only "NEGATIVE" changes the result.
func Generate(intent models.Intent, sentimentLabel string) models.SalesResponse {
	for _, r := range rules {
		if r.matches(intent, sentimentLabel) {
			return r.response
		}
	}
	return fallback
}
