package booking

// transition is one row of the permitted-transition table from the
// state diagram. The table is the single source of truth; CanTransition is a
// pure lookup against it and nothing else gates legality at this layer.
type transition struct {
	from Status
	to   Status
	role Role
}

// transitionTable encodes every permitted (from, to, role) triple. It is data,
// not branching code, per the design note that the state machine must be
// encoded as an immutable lookup structure.
var transitionTable = []transition{
	{"", StatusPendingPayment, RoleUser},
	{StatusPendingPayment, StatusPaidSearching, RoleSystem},
	{StatusPendingPayment, StatusCancelled, RoleUser},
	{StatusPendingPayment, StatusExpired, RoleSystem},
	{StatusPaidSearching, StatusAccepted, RoleProvider},
	{StatusPaidSearching, StatusCancelled, RoleUser},
	{StatusPaidSearching, StatusExpired, RoleSystem},
	{StatusAccepted, StatusEnRoute, RoleProvider},
	{StatusAccepted, StatusPaidSearching, RoleProvider},
	{StatusAccepted, StatusCancelled, RoleUser},
	{StatusAccepted, StatusCancelled, RoleProvider},
	{StatusEnRoute, StatusArrived, RoleProvider},
	{StatusEnRoute, StatusPaidSearching, RoleProvider},
	{StatusEnRoute, StatusCancelled, RoleUser},
	{StatusEnRoute, StatusCancelled, RoleProvider},
	{StatusArrived, StatusInProgress, RoleProvider},
	{StatusArrived, StatusCancelled, RoleUser},
	{StatusArrived, StatusCancelled, RoleProvider},
	{StatusInProgress, StatusCompletePending, RoleProvider},
	{StatusCompletePending, StatusClosed, RoleSystem},
	{StatusCompletePending, StatusNeedsReview, RoleUser},
	{StatusNeedsReview, StatusClosed, RoleAdmin},
	{StatusNeedsReview, StatusCancelled, RoleAdmin},
}

// terminalStatuses are states with no outgoing transitions.
var terminalStatuses = map[Status]bool{
	StatusClosed:    true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// CanTransition reports whether the given role may move a booking from one
// status to another. Additional semantic gates (OTP validity, candidate
// membership, provider ownership, grace-window expiry) are applied by the
// booking engine in addition to this table; they never relax it.
func CanTransition(from, to Status, role Role) bool {
	for _, t := range transitionTable {
		if t.from == from && t.to == to && t.role == role {
			return true
		}
	}
	return false
}

// IsTerminal reports whether status has no further legal transitions.
func IsTerminal(s Status) bool {
	return terminalStatuses[s]
}

// IsEligibleForPayout reports payout eligibility: exactly state == CLOSED.
// Kept as its own predicate (rather than inlined) so it stays provably
// consistent with the transition table it is derived from.
func IsEligibleForPayout(s Status) bool {
	return s == StatusClosed
}

// IsEligibleForRefund reports refund eligibility (void of the main
// authorization without a fee): exactly state == PAID_SEARCHING.
func IsEligibleForRefund(s Status) bool {
	return s == StatusPaidSearching
}
