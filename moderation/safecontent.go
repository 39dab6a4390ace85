package moderation

import "github.com/studymesh/tutorcore/core"

// SafeContent maps a moderation verdict to a canned, non-judgmental
// redirect message. Deterministic: the same inputs always produce the same
// text. Phrasing differs for learners under age 10.
func SafeContent(original string, result core.ModerationResult, profile *core.LearnerProfile) string {
	young := profile != nil && profile.Age > 0 && profile.Age < 10

	category := ""
	if len(result.Categories) > 0 {
		category = result.Categories[0]
	}

	switch category {
	case "age_inappropriate":
		if young {
			return "That's a question for when you're a bit older! Let's find something fun to learn right now. What's your favorite subject?"
		}
		return "This topic is meant for older learners. How about we explore something from your current lessons instead?"
	case "academic_integrity":
		if young {
			return "I can't do your work for you, but I love helping you figure it out! Which part is tricky?"
		}
		return "I can't complete assignments for you, but I can help you understand the material so you can do it yourself. Where would you like to start?"
	case "profanity":
		if young {
			return "Let's use kind words! What would you like to learn about today?"
		}
		return "Let's keep our conversation respectful. What topic can I help you with?"
	default:
		if young {
			return "Let's talk about something else! What are you learning about in school?"
		}
		return "I can't help with that topic, but I'm happy to help with your studies. What subject are you working on?"
	}
}
