package models

// SwitchOutcome classifies the result of one avatar switch attempt.
type SwitchOutcome string

const (
	SwitchOutcomeSuccess      SwitchOutcome = "success"
	SwitchOutcomeNotFound     SwitchOutcome = "not_found"
	SwitchOutcomeAuthRequired SwitchOutcome = "auth_required"
	SwitchOutcomeTransient    SwitchOutcome = "transient_failure"
	SwitchOutcomeFatal        SwitchOutcome = "fatal_failure"
)

// SwitchResult reports what one switch operation did.
type SwitchResult struct {
	Outcome  SwitchOutcome `json:"outcome"`
	Avatar   Avatar        `json:"avatar"`
	Attempts int           `json:"attempts"`
}

// SwitchRecord is one persisted switch attempt.
type SwitchRecord struct {
	ID         string        `json:"id"`
	Query      string        `json:"query"`
	AvatarID   string        `json:"avatar_id,omitempty"`
	AvatarName string        `json:"avatar_name,omitempty"`
	Outcome    SwitchOutcome `json:"outcome"`
	Attempts   int           `json:"attempts"`
	Detail     string        `json:"detail,omitempty"`
	CreatedAt  int64         `json:"created_at"`
}
