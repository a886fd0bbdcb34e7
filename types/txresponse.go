package types

type TxResponse struct {
	TxHash  string
	Message string
}
