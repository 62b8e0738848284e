package models

import "time"

// HydrationEntry - порция воды в унциях
type HydrationEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Amount    float64   `json:"amount"`
}

// BioFeedbackEntry - самочувствие по шкале 1–10
type BioFeedbackEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Energy      int       `json:"energy"`
	Bloating    int       `json:"bloating"`
	SkinClarity int       `json:"skinClarity"`
	Mood        int       `json:"mood"`
	Notes       string    `json:"notes"`
}
