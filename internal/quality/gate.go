package quality

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

const (
	RecommendationAllow = "allow"
	RecommendationWarn  = "warn"
	RecommendationBlock = "block"
)

type ScoreInput struct {
	Contact Contact
	Message Message
	Timing  Timing
}

type ScoreResult struct {
	Overall        float64
	Recommendation string
	Reasons        []string
	DataScore      float64
	MessageScore   float64
	TimingScore    float64
}

type Gate struct {
	validator *ContactValidator
	group     singleflight.Group
}

func NewGate(validator *ContactValidator) *Gate {
	return &Gate{validator: validator}
}

// ScoreOutreach implements the weighted pre-send contract: 0.4*dataScore +
// 0.4*messageScore + 0.2*timingScore, with any hard-block reason forcing
// "block" regardless of the composite score.
func (g *Gate) ScoreOutreach(ctx context.Context, in ScoreInput) ScoreResult {
	dataVal := g.validator.Validate(ctx, in.Contact)
	msgVal := ScoreMessage(in.Message)
	timingScore := ScoreTiming(in.Timing)

	overall := 0.4*dataVal.DataScore + 0.4*msgVal.MessageScore + 0.2*timingScore

	reasons := append([]string{}, dataVal.Reasons...)
	reasons = append(reasons, msgVal.Reasons...)

	recommendation := recommendationFor(overall)
	if dataVal.HardBlock || msgVal.HardBlock {
		recommendation = RecommendationBlock
	}

	return ScoreResult{
		Overall:        overall,
		Recommendation: recommendation,
		Reasons:        reasons,
		DataScore:      dataVal.DataScore,
		MessageScore:   msgVal.MessageScore,
		TimingScore:    timingScore,
	}
}

func recommendationFor(overall float64) string {
	switch {
	case overall >= 70:
		return RecommendationAllow
	case overall >= 50:
		return RecommendationWarn
	default:
		return RecommendationBlock
	}
}

type BatchItem struct {
	Key     string
	Input   ScoreInput
}

type BatchResult struct {
	Scores      map[string]ScoreResult
	AllowCount  int
	WarnCount   int
	BlockCount  int
}

// ScoreBatch validates each unique contact email once per batch (a
// batch-local cache behind singleflight, so concurrent duplicate lookups
// within the batch collapse into a single MX check and later ones reuse the
// result), then scores every item in parallel.
func (g *Gate) ScoreBatch(ctx context.Context, items []BatchItem) BatchResult {
	result := BatchResult{Scores: make(map[string]ScoreResult, len(items))}
	var mu sync.Mutex
	var wg sync.WaitGroup
	validated := map[string]ContactValidation{}

	for _, item := range items {
		wg.Add(1)
		go func(item BatchItem) {
			defer wg.Done()
			email := item.Input.Contact.Email
			v, _, _ := g.group.Do(email, func() (interface{}, error) {
				mu.Lock()
				cached, ok := validated[email]
				mu.Unlock()
				if ok {
					return cached, nil
				}
				cv := g.validator.Validate(ctx, item.Input.Contact)
				mu.Lock()
				validated[email] = cv
				mu.Unlock()
				return cv, nil
			})
			dataVal := v.(ContactValidation)

			msgVal := ScoreMessage(item.Input.Message)
			timingScore := ScoreTiming(item.Input.Timing)
			overall := 0.4*dataVal.DataScore + 0.4*msgVal.MessageScore + 0.2*timingScore

			recommendation := recommendationFor(overall)
			if dataVal.HardBlock || msgVal.HardBlock {
				recommendation = RecommendationBlock
			}

			reasons := append([]string{}, dataVal.Reasons...)
			reasons = append(reasons, msgVal.Reasons...)

			sr := ScoreResult{
				Overall:        overall,
				Recommendation: recommendation,
				Reasons:        reasons,
				DataScore:      dataVal.DataScore,
				MessageScore:   msgVal.MessageScore,
				TimingScore:    timingScore,
			}

			mu.Lock()
			result.Scores[item.Key] = sr
			switch sr.Recommendation {
			case RecommendationAllow:
				result.AllowCount++
			case RecommendationWarn:
				result.WarnCount++
			default:
				result.BlockCount++
			}
			mu.Unlock()
		}(item)
	}

	wg.Wait()
	return result
}
