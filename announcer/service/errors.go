package service

import "errors"

var (
	ErrNoHealthyEndpoint = errors.New("none of the candidate endpoints answered")
	ErrWrongNetwork      = errors.New("the endpoint serves a different network")
	ErrMissingFeeMosaic  = errors.New("the network reports no currency mosaic to pay fees with")
	ErrNoCosigner        = errors.New("no cosigner provided")
	ErrNoSolventCosigner = errors.New("no cosigner has enough tokens to pay the fees")
	ErrMissingSigningKey = errors.New("no private key is known for the account")
	ErrNoOperations      = errors.New("no operations to announce")
	ErrDeclined          = errors.New("declined by the operator")
)
