package responder

import (
	"regexp"
	"strings"
)

const (
	IntentOutOfOffice   = "out_of_office"
	IntentNotInterested = "not_interested"
	IntentMeetingRequest = "meeting_request"
	IntentObjection     = "objection"
	IntentQuestion      = "question"
	IntentInterested    = "interested"
	IntentFollowUp      = "follow_up"

	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

var intentPatterns = []struct {
	intent  string
	pattern *regexp.Regexp
}{
	{IntentOutOfOffice, regexp.MustCompile(`(?i)out of (the )?office|ooo\b|on leave|annual leave|automatic reply|auto-?reply|currently away`)},
	{IntentMeetingRequest, regexp.MustCompile(`(?i)book a (call|time|meeting)|schedule a (call|meeting|demo)|calendly|grab (15|30) minutes|set up (a )?time|available (to talk|for a call)`)},
	{IntentNotInterested, regexp.MustCompile(`(?i)not interested|please remove|unsubscribe|stop (emailing|contacting)|do not contact|no thank(s| you)|not a (fit|priority) (right now|at this time)`)},
	{IntentObjection, regexp.MustCompile(`(?i)already (using|have|work with)|we use\b|too expensive|no budget|not in (the )?budget|happy with our current`)},
	{IntentQuestion, regexp.MustCompile(`\?\s*$|(?i)^\s*(what|how|why|when|where|who|can you|could you|do you)\b`)},
	{IntentInterested, regexp.MustCompile(`(?i)tell me more|sounds interesting|would love to (learn|hear)|send (me )?more (info|information)|let's talk|i'm interested|keen to`)},
}

var competitorPattern = regexp.MustCompile(`(?i)\b(we use|using|currently on|already with)\s+([A-Z][A-Za-z0-9&.\- ]{1,40})`)

var negativeWords = []string{"not interested", "stop", "unsubscribe", "no thanks", "too expensive", "don't contact", "annoyed", "frustrat"}
var positiveWords = []string{"thanks", "great", "sounds good", "interested", "love to", "excited", "appreciate"}

// Classification is the result of pattern-based intent and sentiment
// detection on an inbound message body.
type Classification struct {
	Intent     string
	Sentiment  string
	Competitor string
}

// Classify applies ordered pattern rules to the inbound message body.
// Earlier rules take precedence over later ones when multiple match, since
// out-of-office and meeting-request/not-interested signals are higher
// confidence than a generic question or interest match. Anything matching
// nothing falls through to follow_up.
func Classify(body string) Classification {
	trimmed := strings.TrimSpace(body)
	c := Classification{Intent: IntentFollowUp}

	for _, p := range intentPatterns {
		if p.pattern.MatchString(trimmed) {
			c.Intent = p.intent
			break
		}
	}

	c.Sentiment = classifySentiment(trimmed, c.Intent)

	if c.Intent == IntentObjection {
		if m := competitorPattern.FindStringSubmatch(trimmed); len(m) >= 3 {
			c.Competitor = strings.TrimSpace(m[2])
		}
	}

	return c
}

// classifySentiment defers to the already-resolved intent for the
// not-interested case, since its pattern set (please remove, stop
// contacting, etc.) covers phrasing the word list below would otherwise
// have to duplicate.
func classifySentiment(body, intent string) string {
	if intent == IntentNotInterested {
		return SentimentNegative
	}

	lower := strings.ToLower(body)
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			return SentimentNegative
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return SentimentPositive
		}
	}
	return SentimentNeutral
}

// ExcludedIntents lists intents that terminate the pipeline after the
// inbound message is recorded, with no AI reply generated.
var ExcludedIntents = map[string]struct{}{
	IntentOutOfOffice:   {},
	IntentNotInterested: {},
}

func IsExcluded(intent string) bool {
	_, ok := ExcludedIntents[intent]
	return ok
}
