package domain

// Observation records which of the three library slots exist on disk.
type Observation struct {
	Current bool
	New     bool
	Old     bool
}

// RotationState is the crash-recovery state inferred from an Observation.
type RotationState int

const (
	// Stable means there is nothing to recover.
	Stable RotationState = iota
	// StaleStaging means a run died before promoting its staging generation.
	StaleStaging
	// PromotionPending means a run died between the two swap renames.
	PromotionPending
	// CleanupPending means a run promoted its generation but did not delete the old one.
	CleanupPending
	// Corrupted means only the old generation survived; it is restored.
	Corrupted
)

// String returns the state name.
func (s RotationState) String() string {
	switch s {
	case Stable:
		return "stable"
	case StaleStaging:
		return "stale-staging"
	case PromotionPending:
		return "promotion-pending"
	case CleanupPending:
		return "cleanup-pending"
	case Corrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// RecoveryAction is a single filesystem step taken by recovery.
type RecoveryAction int

const (
	// DiscardNew deletes the staging-new slot.
	DiscardNew RecoveryAction = iota
	// PromoteNew renames staging-new to current.
	PromoteNew
	// DiscardOld deletes the staging-old slot.
	DiscardOld
	// RestoreOld renames staging-old back to current.
	RestoreOld
)

// String returns the action name.
func (a RecoveryAction) String() string {
	switch a {
	case DiscardNew:
		return "discard-new"
	case PromoteNew:
		return "promote-new"
	case DiscardOld:
		return "discard-old"
	case RestoreOld:
		return "restore-old"
	default:
		return "unknown"
	}
}

// Classify infers the rotation state from the slots present on disk.
func Classify(obs Observation) RotationState {
	switch {
	case obs.New && obs.Current:
		return StaleStaging
	case obs.New:
		return PromotionPending
	case obs.Old && obs.Current:
		return CleanupPending
	case obs.Old:
		return Corrupted
	default:
		return Stable
	}
}

// RecoveryActions returns the steps that bring the slots back to a stable state.
func RecoveryActions(obs Observation) []RecoveryAction {
	var actions []RecoveryAction
	switch Classify(obs) {
	case StaleStaging:
		actions = append(actions, DiscardNew)
		if obs.Old {
			actions = append(actions, DiscardOld)
		}
	case PromotionPending:
		actions = append(actions, PromoteNew)
		if obs.Old {
			actions = append(actions, DiscardOld)
		}
	case CleanupPending:
		actions = append(actions, DiscardOld)
	case Corrupted:
		actions = append(actions, RestoreOld)
	case Stable:
	}
	return actions
}

// Apply returns the observation that results from performing an action.
func (obs Observation) Apply(action RecoveryAction) Observation {
	switch action {
	case DiscardNew:
		obs.New = false
	case PromoteNew:
		obs.New = false
		obs.Current = true
	case DiscardOld:
		obs.Old = false
	case RestoreOld:
		obs.Old = false
		obs.Current = true
	}
	return obs
}
