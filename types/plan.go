package types

import (
	sdkmath "cosmossdk.io/math"
)

type PlanKind string

const (
	PlanSimple            PlanKind = "simple"
	PlanAggregateComplete PlanKind = "aggregate-complete"
	PlanAggregateBonded   PlanKind = "aggregate-bonded"
)

func (k PlanKind) String() string {
	return string(k)
}

// SubmissionPlan is the submission shape chosen for one account.
// Signer initiates and pays for the transactions; Cosigners add their
// signatures to aggregates.
type SubmissionPlan struct {
	Kind       PlanKind
	Account    PublicAccount
	Operations []Operation
	Signer     Signer
	Cosigners  []Signer
	Multisig   bool

	// set for PlanAggregateBonded only
	LockMosaicID string
	LockAmount   sdkmath.Int
	LockDuration uint64
}

// Fee is the sum of the operation fees of the plan.
func (p *SubmissionPlan) Fee() uint64 {
	var fee uint64
	for _, op := range p.Operations {
		fee += op.Fee
	}

	return fee
}
