package message

import "google.golang.org/protobuf/encoding/protowire"

// OnchainReceiveRequest asks for a fresh on-chain funding address.
type OnchainReceiveRequest struct{}

func (m *OnchainReceiveRequest) Marshal() []byte { return nil }

func (m *OnchainReceiveRequest) Unmarshal(data []byte) error {
	*m = OnchainReceiveRequest{}
	return unmarshalEmpty(data)
}

type OnchainReceiveResponse struct {
	Address string `json:"address,omitempty"`
}

func (m *OnchainReceiveResponse) Marshal() []byte {
	return appendString(nil, 1, m.Address)
}

func (m *OnchainReceiveResponse) Unmarshal(data []byte) error {
	*m = OnchainReceiveResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Address)
		}
		return 0, nil
	})
}

// OnchainSendRequest sends an on-chain payment to Address. Either AmountSats is
// set, or SendAll is true and the whole spendable balance is swept.
type OnchainSendRequest struct {
	Address    string  `json:"address,omitempty"`
	AmountSats *uint64 `json:"amount_sats,omitempty"`
	SendAll    *bool   `json:"send_all,omitempty"`
}

func (m *OnchainSendRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Address)
	b = appendOptUint64(b, 2, m.AmountSats)
	b = appendOptBool(b, 3, m.SendAll)
	return b
}

func (m *OnchainSendRequest) Unmarshal(data []byte) error {
	*m = OnchainSendRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Address)
		case 2:
			return consumeOptUint64(typ, b, &m.AmountSats)
		case 3:
			return consumeOptBool(typ, b, &m.SendAll)
		}
		return 0, nil
	})
}

type OnchainSendResponse struct {
	Txid string `json:"txid,omitempty"`
}

func (m *OnchainSendResponse) Marshal() []byte {
	return appendString(nil, 1, m.Txid)
}

func (m *OnchainSendResponse) Unmarshal(data []byte) error {
	*m = OnchainSendResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Txid)
		}
		return 0, nil
	})
}
