package model

// OppStatus is the lifecycle state of an opportunity or stage.
type OppStatus string

const (
	OppOpen OppStatus = "Open"
	OppWon  OppStatus = "Won"
	OppLost OppStatus = "Lost"
)

// IsValid reports whether s is a known status.
func (s OppStatus) IsValid() bool {
	switch s {
	case OppOpen, OppWon, OppLost:
		return true
	}
	return false
}

// Priority of a task or template task.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityVeryHigh Priority = "Very High"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityVeryHigh:
		return true
	}
	return false
}

// TaskStatus is the progress of a task.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
)

// IsValid reports whether s is a known task status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskNotStarted, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// Algorithm selects the opportunity scoring model.
type Algorithm string

const (
	CatBoost Algorithm = "catboost"
	LightGBM Algorithm = "lightgbm"
)

// IsValid reports whether a is a supported algorithm.
func (a Algorithm) IsValid() bool {
	return a == CatBoost || a == LightGBM
}

// Scoring is the metric a hyperparameter search optimizes.
type Scoring string

const (
	ScoreAccuracy  Scoring = "accuracy"
	ScoreF1        Scoring = "f1"
	ScorePrecision Scoring = "precision"
	ScoreRecall    Scoring = "recall"
)

// IsValid reports whether s is a supported metric.
func (s Scoring) IsValid() bool {
	switch s {
	case ScoreAccuracy, ScoreF1, ScorePrecision, ScoreRecall:
		return true
	}
	return false
}
