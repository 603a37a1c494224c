package message

import "google.golang.org/protobuf/encoding/protowire"

// Bolt12ReceiveRequest asks for a BOLT12 offer. A nil AmountMsat produces a
// variable-amount offer.
type Bolt12ReceiveRequest struct {
	Description string  `json:"description,omitempty"`
	AmountMsat  *uint64 `json:"amount_msat,omitempty"`
}

func (m *Bolt12ReceiveRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Description)
	b = appendOptUint64(b, 2, m.AmountMsat)
	return b
}

func (m *Bolt12ReceiveRequest) Unmarshal(data []byte) error {
	*m = Bolt12ReceiveRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Description)
		case 2:
			return consumeOptUint64(typ, b, &m.AmountMsat)
		}
		return 0, nil
	})
}

type Bolt12ReceiveResponse struct {
	Offer string `json:"offer,omitempty"`
}

func (m *Bolt12ReceiveResponse) Marshal() []byte {
	return appendString(nil, 1, m.Offer)
}

func (m *Bolt12ReceiveResponse) Unmarshal(data []byte) error {
	*m = Bolt12ReceiveResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Offer)
		}
		return 0, nil
	})
}

type Bolt12SendRequest struct {
	Offer      string  `json:"offer,omitempty"`
	AmountMsat *uint64 `json:"amount_msat,omitempty"`
	PayerNote  *string `json:"payer_note,omitempty"`
}

func (m *Bolt12SendRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Offer)
	b = appendOptUint64(b, 2, m.AmountMsat)
	b = appendOptString(b, 3, m.PayerNote)
	return b
}

func (m *Bolt12SendRequest) Unmarshal(data []byte) error {
	*m = Bolt12SendRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Offer)
		case 2:
			return consumeOptUint64(typ, b, &m.AmountMsat)
		case 3:
			return consumeOptString(typ, b, &m.PayerNote)
		}
		return 0, nil
	})
}

type Bolt12SendResponse struct {
	PaymentID []byte `json:"payment_id,omitempty"`
}

func (m *Bolt12SendResponse) Marshal() []byte {
	return appendBytes(nil, 1, m.PaymentID)
}

func (m *Bolt12SendResponse) Unmarshal(data []byte) error {
	*m = Bolt12SendResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.PaymentID)
		}
		return 0, nil
	})
}
