package types

// Endpoint is the result of probing a candidate ledger endpoint.
// A nil ChainHeight means the probe failed.
type Endpoint struct {
	URL                   string
	NetworkGenerationHash string
	ChainHeight           *uint64
	Err                   error
}

func (e Endpoint) IsHealthy() bool {
	return e.ChainHeight != nil
}

func (e Endpoint) Height() uint64 {
	if e.ChainHeight == nil {
		return 0
	}

	return *e.ChainHeight
}
