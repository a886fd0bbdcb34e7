package rest

import "encoding/json"

type nodeInfoResponse struct {
	NetworkGenerationHashSeed string `json:"networkGenerationHashSeed"`
}

type chainInfoResponse struct {
	Height string `json:"height"`
}

type networkPropertiesResponse struct {
	Chain struct {
		CurrencyMosaicID string `json:"currencyMosaicId"`
	} `json:"chain"`
}

type mosaicResponse struct {
	Mosaic struct {
		ID           string `json:"id"`
		Divisibility uint8  `json:"divisibility"`
	} `json:"mosaic"`
}

type mosaicAmount struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

type accountResponse struct {
	Account struct {
		Address   string         `json:"address"`
		PublicKey string         `json:"publicKey"`
		Mosaics   []mosaicAmount `json:"mosaics"`
	} `json:"account"`
}

type multisigResponse struct {
	Multisig struct {
		AccountAddress       string   `json:"accountAddress"`
		MinApproval          uint32   `json:"minApproval"`
		MinRemoval           uint32   `json:"minRemoval"`
		CosignatoryAddresses []string `json:"cosignatoryAddresses"`
	} `json:"multisig"`
}

type announceRequest struct {
	Payload string `json:"payload"`
}

type announceResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// websocket messages

type uidMessage struct {
	UID string `json:"uid"`
}

type subscribeMessage struct {
	UID       string `json:"uid"`
	Subscribe string `json:"subscribe"`
}

type eventMessage struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

type transactionEvent struct {
	Meta struct {
		Hash string `json:"hash"`
	} `json:"meta"`
}

type statusEvent struct {
	Hash string `json:"hash"`
	Code string `json:"code"`
}
