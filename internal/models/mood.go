package models

// Mood is a three-way sentiment label.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// Valid reports whether m is one of the three known labels.
func (m Mood) Valid() bool {
	switch m {
	case MoodPositive, MoodNeutral, MoodNegative:
		return true
	}
	return false
}

func (m Mood) String() string {
	return string(m)
}
