package message

import "google.golang.org/protobuf/encoding/protowire"

// Bolt11ReceiveRequest asks for a BOLT11 invoice. A nil AmountMsat produces a
// variable-amount invoice.
type Bolt11ReceiveRequest struct {
	AmountMsat  *uint64 `json:"amount_msat,omitempty"`
	Description string  `json:"description,omitempty"`
	ExpirySecs  uint32  `json:"expiry_secs,omitempty"`
}

func (m *Bolt11ReceiveRequest) Marshal() []byte {
	var b []byte
	b = appendOptUint64(b, 1, m.AmountMsat)
	b = appendString(b, 2, m.Description)
	b = appendUint32(b, 3, m.ExpirySecs)
	return b
}

func (m *Bolt11ReceiveRequest) Unmarshal(data []byte) error {
	*m = Bolt11ReceiveRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeOptUint64(typ, b, &m.AmountMsat)
		case 2:
			return consumeString(typ, b, &m.Description)
		case 3:
			return consumeUint32(typ, b, &m.ExpirySecs)
		}
		return 0, nil
	})
}

type Bolt11ReceiveResponse struct {
	Invoice string `json:"invoice,omitempty"`
}

func (m *Bolt11ReceiveResponse) Marshal() []byte {
	return appendString(nil, 1, m.Invoice)
}

func (m *Bolt11ReceiveResponse) Unmarshal(data []byte) error {
	*m = Bolt11ReceiveResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Invoice)
		}
		return 0, nil
	})
}

// Bolt11SendRequest pays Invoice. AmountMsat is required for
// variable-amount invoices and overrides nothing otherwise.
type Bolt11SendRequest struct {
	Invoice    string  `json:"invoice,omitempty"`
	AmountMsat *uint64 `json:"amount_msat,omitempty"`
}

func (m *Bolt11SendRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Invoice)
	b = appendOptUint64(b, 2, m.AmountMsat)
	return b
}

func (m *Bolt11SendRequest) Unmarshal(data []byte) error {
	*m = Bolt11SendRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Invoice)
		case 2:
			return consumeOptUint64(typ, b, &m.AmountMsat)
		}
		return 0, nil
	})
}

type Bolt11SendResponse struct {
	PaymentID []byte `json:"payment_id,omitempty"`
}

func (m *Bolt11SendResponse) Marshal() []byte {
	return appendBytes(nil, 1, m.PaymentID)
}

func (m *Bolt11SendResponse) Unmarshal(data []byte) error {
	*m = Bolt11SendResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeBytes(typ, b, &m.PaymentID)
		}
		return 0, nil
	})
}
