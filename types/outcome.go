package types

type AccountState string

const (
	AccountSkipped                     AccountState = "skipped"
	AccountConfirmed                   AccountState = "confirmed"
	AccountAnnouncedPendingCosignature AccountState = "announced-pending-cosignature"
	AccountFailed                      AccountState = "failed"
)

// AccountOutcome is the terminal state of one account in a run.
type AccountOutcome struct {
	Node    string
	Address string
	State   AccountState
	Reason  string
	Hashes  []string
}

func Skipped(node, address, reason string) AccountOutcome {
	return AccountOutcome{Node: node, Address: address, State: AccountSkipped, Reason: reason}
}

func Failed(node, address, reason string) AccountOutcome {
	return AccountOutcome{Node: node, Address: address, State: AccountFailed, Reason: reason}
}
