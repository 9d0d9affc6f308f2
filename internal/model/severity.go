package model

// Severity of one diagnosis as printed by the analyzer.
type Severity int

const (
	SeverityHigh Severity = iota
	SeverityMedium
	SeverityLow
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	default:
		return "High"
	}
}

// SeverityCounts is the per job sum of diagnoses by severity.
type SeverityCounts struct {
	High int
	Mid  int
	Low  int
}

func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityLow:
		c.Low++
	case SeverityMedium:
		c.Mid++
	default:
		c.High++
	}
}

func (c SeverityCounts) Total() int {
	return c.High + c.Mid + c.Low
}
