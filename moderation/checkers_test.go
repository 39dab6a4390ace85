package moderation

import (
	"strings"
	"testing"

	"github.com/studymesh/tutorcore/core"
)

func TestProfanityChecker(t *testing.T) {
	c := NewProfanityChecker()

	if check := c.Check("What the hell is calculus", Context{}); check.Passed {
		t.Error("banned word should fail the check")
	}
	// Substring matches are not violations: words are matched whole.
	if check := c.Check("The class on assessment hello", Context{}); !check.Passed {
		t.Errorf("clean text failed: %s", check.Details)
	}

	extra := NewProfanityChecker("flibber")
	if check := extra.Check("what is a FLIBBER", Context{}); check.Passed {
		t.Error("configured extra word should fail the check")
	}
}

func TestTopicCheckerSplitsHarmfulIntent(t *testing.T) {
	c := NewTopicChecker()

	harm := c.Check("I want to hurt someone at school", Context{})
	if harm.Passed || harm.Type != "harmful_intent" {
		t.Errorf("harmful phrase: got type %s passed %t", harm.Type, harm.Passed)
	}

	topic := c.Check("what are the best betting odds today", Context{})
	if topic.Passed || topic.Type != "inappropriate_topic" {
		t.Errorf("restricted topic: got type %s passed %t", topic.Type, topic.Passed)
	}

	if check := c.Check("explain the water cycle", Context{}); !check.Passed {
		t.Errorf("benign query failed: %s", check.Details)
	}
}

func TestAgeCheckerUsesLearnerAge(t *testing.T) {
	c := NewAgeChecker()

	// No profile: nothing to compare against.
	if check := c.Check("tell me about the war", Context{}); !check.Passed {
		t.Error("missing profile should pass")
	}

	young := Context{Learner: &core.LearnerProfile{Age: 9}}
	if check := c.Check("tell me about the war of 1812", young); check.Passed {
		t.Error("war content should fail for a 9 year old")
	}

	older := Context{Learner: &core.LearnerProfile{Age: 15}}
	if check := c.Check("tell me about the war of 1812", older); !check.Passed {
		t.Errorf("war content should pass for a 15 year old: %s", check.Details)
	}
}

func TestParentalChecker(t *testing.T) {
	c := NewParentalChecker()

	if check := c.Check("tell me about dinosaurs", Context{}); !check.Passed {
		t.Error("empty restriction list should pass")
	}

	restricted := Context{RestrictedTopics: []string{"Dinosaurs"}}
	if check := c.Check("tell me about dinosaurs", restricted); check.Passed {
		t.Error("restricted topic should fail regardless of case")
	}
	if check := c.Check("tell me about volcanoes", restricted); !check.Passed {
		t.Error("unrelated topic should pass")
	}
}

func TestIntegrityChecker(t *testing.T) {
	c := NewIntegrityChecker()

	if check := c.Check("Can you do my homework for me", Context{}); check.Passed {
		t.Error("direct-answer request should fail")
	}
	if check := c.Check("help me understand how to factor this", Context{}); !check.Passed {
		t.Errorf("guided-help request failed: %s", check.Details)
	}
}

func TestPIIChecker(t *testing.T) {
	c := NewPIIChecker()

	cases := map[string]string{
		"email my tutor at kid@example.com": "email",
		"call me at 555-123-4567":           "phone",
		"my ssn is 123-45-6789":             "government_id",
		"I live at 42 Maple Street":         "street_address",
	}
	for text, kind := range cases {
		check := c.Check(text, Context{})
		if check.Passed {
			t.Errorf("%q should fail (%s)", text, kind)
			continue
		}
		if !strings.Contains(check.Details, kind) {
			t.Errorf("%q: details %q missing %s", text, check.Details, kind)
		}
	}

	if check := c.Check("what is the capital of France", Context{}); !check.Passed {
		t.Errorf("clean text failed: %s", check.Details)
	}
}

func TestEducationalChecker(t *testing.T) {
	c := NewEducationalChecker()

	// Short content is too small to judge.
	if check := c.Check("ok", Context{}); !check.Passed {
		t.Error("short content should pass")
	}

	educational := strings.Repeat("this example helps you learn the concept and understand the method ", 5)
	if check := c.Check(educational, Context{}); !check.Passed {
		t.Errorf("educational content failed: %s", check.Details)
	}

	filler := strings.Repeat("stuff things random words here nothing useful at all today ", 5)
	if check := c.Check(filler, Context{}); check.Passed {
		t.Error("keyword-free long content should fail")
	}
}

func TestBiasCheckerThreshold(t *testing.T) {
	c := NewBiasChecker()

	two := "Everyone knows this. Obviously simple."
	if check := c.Check(two, Context{}); !check.Passed {
		t.Error("two generalizing phrases should stay under the threshold")
	}

	three := "Everyone knows this. Obviously. Those people never get it."
	if check := c.Check(three, Context{}); check.Passed {
		t.Error("three generalizing phrases should fail")
	}
}

func TestSourceChecker(t *testing.T) {
	c := NewSourceChecker()

	// Input side is out of scope.
	if check := c.Check("whatever", Context{Direction: DirectionInput}); !check.Passed {
		t.Error("input direction should pass")
	}

	out := Context{Direction: DirectionOutput}
	if check := c.Check("The sky is blue.", out); check.Passed {
		t.Error("uncited factual output should fail")
	}
	if check := c.Check("According to NASA, the sky scatters blue light.", out); !check.Passed {
		t.Error("inline citation should pass")
	}

	sourced := Context{Direction: DirectionOutput, Sources: []string{"nasa.gov"}}
	if check := c.Check("The sky is blue.", sourced); !check.Passed {
		t.Error("metadata sources should pass")
	}
}
