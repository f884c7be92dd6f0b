package types

// ResilienceState is the observable side of the failure tracker.
type ResilienceState struct {
	ConsecutiveFailures int      `json:"consecutiveFailures"`
	IsInRecoveryMode    bool     `json:"isInRecoveryMode"`
	LastError           string   `json:"lastError,omitempty"`
	FailedImages        []string `json:"failedImages,omitempty"`
}

func (r ResilienceState) Copy() ResilienceState {
	r.FailedImages = append([]string(nil), r.FailedImages...)
	return r
}

// Snapshot is the read-only view published after every session transition.
type Snapshot struct {
	SessionID      string          `json:"sessionId"`
	Sequence       uint64          `json:"sequence"`
	Status         SessionStatus   `json:"status"`
	State          GameState       `json:"state"`
	Challenge      *Challenge      `json:"challenge,omitempty"`
	Feedback       Feedback        `json:"feedback"`
	PickedSlot     int             `json:"pickedSlot"`
	LivesRemaining int             `json:"livesRemaining"`
	HighScore      int             `json:"highScore"`
	Resilience     ResilienceState `json:"resilience"`
	Persistence    bool            `json:"persistence"`
	Audio          bool            `json:"audio"`
}
