package combat

import "fmt"

// RejectReason identifies which validation check failed.
type RejectReason int

const (
	ReasonUnknownEntity RejectReason = iota
	ReasonMissingStats
	ReasonDeadAttacker
	ReasonDeadTarget
	ReasonSameTeam
	ReasonOutOfRange
	ReasonInsufficientMP
	ReasonUnknownKind
	ReasonUnknownAbility
)

// String returns the machine-stable reason label a UI can key messages off.
func (r RejectReason) String() string {
	switch r {
	case ReasonUnknownEntity:
		return "unknown_entity"
	case ReasonMissingStats:
		return "missing_stats"
	case ReasonDeadAttacker:
		return "dead_attacker"
	case ReasonDeadTarget:
		return "dead_target"
	case ReasonSameTeam:
		return "same_team"
	case ReasonOutOfRange:
		return "out_of_range"
	case ReasonInsufficientMP:
		return "insufficient_mp"
	case ReasonUnknownKind:
		return "unknown_kind"
	case ReasonUnknownAbility:
		return "unknown_ability"
	default:
		return "unknown"
	}
}

// Rejection is the structured "the action could not be taken" result. It is a
// value, not an error: rejections are expected, frequent, and handled as
// normal control flow by callers (a UI greys the action out).
type Rejection struct {
	Reason RejectReason
	Detail string
}

// String returns a human-readable rejection description.
func (r Rejection) String() string {
	if r.Detail == "" {
		return r.Reason.String()
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

func reject(reason RejectReason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
