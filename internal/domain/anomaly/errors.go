package anomaly

import "errors"

// Anomaly domain errors
var (
	ErrEventNotFound    = errors.New("anomaly event not found")
	ErrAlreadyProcessed = errors.New("anomaly event is no longer open")
	ErrRuleNotFound     = errors.New("anomaly rule not found")
)
