package domain

import "time"

// Cafe is the admin-side cafe aggregate.
// ID は作成後不変で、編集を跨いでも安定している。
type Cafe struct {
	ID        string
	Name      CafeName
	City      City
	Score     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category is a rated dimension. Weight はバックエンドの総合点計算で使う。
type Category struct {
	ID     string
	Name   string
	Weight float64
}

// Evaluator is a fixed reviewer identity.
type Evaluator struct {
	ID   string
	Name string
}

// RequiredEvaluatorNames are the two evaluators every complete review set needs.
var RequiredEvaluatorNames = []string{"I", "F"}

// FindEvaluator returns the evaluator with the given name from the lookup set.
func FindEvaluator(evaluators []Evaluator, name string) (Evaluator, bool) {
	for _, evaluator := range evaluators {
		if evaluator.Name == name {
			return evaluator, true
		}
	}
	return Evaluator{}, false
}
