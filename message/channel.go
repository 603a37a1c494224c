package message

import "google.golang.org/protobuf/encoding/protowire"

// OpenChannelRequest connects to NodePubkey at Address and opens an outbound
// channel funded with ChannelAmountSats.
type OpenChannelRequest struct {
	NodePubkey             string  `json:"node_pubkey,omitempty"`
	Address                string  `json:"address,omitempty"`
	ChannelAmountSats      uint64  `json:"channel_amount_sats,omitempty"`
	PushToCounterpartyMsat *uint64 `json:"push_to_counterparty_msat,omitempty"`
	AnnounceChannel        bool    `json:"announce_channel,omitempty"`
}

func (m *OpenChannelRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.NodePubkey)
	b = appendString(b, 2, m.Address)
	b = appendUint64(b, 3, m.ChannelAmountSats)
	b = appendOptUint64(b, 4, m.PushToCounterpartyMsat)
	b = appendBool(b, 5, m.AnnounceChannel)
	return b
}

func (m *OpenChannelRequest) Unmarshal(data []byte) error {
	*m = OpenChannelRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.NodePubkey)
		case 2:
			return consumeString(typ, b, &m.Address)
		case 3:
			return consumeUint64(typ, b, &m.ChannelAmountSats)
		case 4:
			return consumeOptUint64(typ, b, &m.PushToCounterpartyMsat)
		case 5:
			return consumeBool(typ, b, &m.AnnounceChannel)
		}
		return 0, nil
	})
}

type OpenChannelResponse struct {
	UserChannelID string `json:"user_channel_id,omitempty"`
}

func (m *OpenChannelResponse) Marshal() []byte {
	return appendString(nil, 1, m.UserChannelID)
}

func (m *OpenChannelResponse) Unmarshal(data []byte) error {
	*m = OpenChannelResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserChannelID)
		}
		return 0, nil
	})
}

// CloseChannelRequest closes the channel identified by UserChannelID with
// CounterpartyNodeID, cooperatively unless ForceClose is set.
type CloseChannelRequest struct {
	UserChannelID      string `json:"user_channel_id,omitempty"`
	CounterpartyNodeID string `json:"counterparty_node_id,omitempty"`
	ForceClose         bool   `json:"force_close,omitempty"`
}

func (m *CloseChannelRequest) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.UserChannelID)
	b = appendString(b, 2, m.CounterpartyNodeID)
	b = appendBool(b, 3, m.ForceClose)
	return b
}

func (m *CloseChannelRequest) Unmarshal(data []byte) error {
	*m = CloseChannelRequest{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserChannelID)
		case 2:
			return consumeString(typ, b, &m.CounterpartyNodeID)
		case 3:
			return consumeBool(typ, b, &m.ForceClose)
		}
		return 0, nil
	})
}

type CloseChannelResponse struct{}

func (m *CloseChannelResponse) Marshal() []byte { return nil }

func (m *CloseChannelResponse) Unmarshal(data []byte) error {
	*m = CloseChannelResponse{}
	return unmarshalEmpty(data)
}

type ListChannelsRequest struct{}

func (m *ListChannelsRequest) Marshal() []byte { return nil }

func (m *ListChannelsRequest) Unmarshal(data []byte) error {
	*m = ListChannelsRequest{}
	return unmarshalEmpty(data)
}

type ListChannelsResponse struct {
	Channels []*Channel `json:"channels,omitempty"`
}

func (m *ListChannelsResponse) Marshal() []byte {
	var b []byte
	for _, c := range m.Channels {
		if c == nil {
			continue
		}
		b = appendMessage(b, 1, c)
	}
	return b
}

func (m *ListChannelsResponse) Unmarshal(data []byte) error {
	*m = ListChannelsResponse{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			c := new(Channel)
			n, err := consumeMessage(typ, b, c)
			if err != nil {
				return 0, err
			}
			m.Channels = append(m.Channels, c)
			return n, nil
		}
		return 0, nil
	})
}

// Channel describes one channel as reported by the node.
type Channel struct {
	ChannelID            string    `json:"channel_id,omitempty"`
	CounterpartyNodeID   string    `json:"counterparty_node_id,omitempty"`
	FundingTxo           *OutPoint `json:"funding_txo,omitempty"`
	UserChannelID        string    `json:"user_channel_id,omitempty"`
	ChannelValueSats     uint64    `json:"channel_value_sats,omitempty"`
	OutboundCapacityMsat uint64    `json:"outbound_capacity_msat,omitempty"`
	InboundCapacityMsat  uint64    `json:"inbound_capacity_msat,omitempty"`
	Confirmations        *uint32   `json:"confirmations,omitempty"`
	IsOutbound           bool      `json:"is_outbound,omitempty"`
	IsChannelReady       bool      `json:"is_channel_ready,omitempty"`
	IsUsable             bool      `json:"is_usable,omitempty"`
	IsPublic             bool      `json:"is_public,omitempty"`
}

func (m *Channel) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.ChannelID)
	b = appendString(b, 2, m.CounterpartyNodeID)
	if m.FundingTxo != nil {
		b = appendMessage(b, 3, m.FundingTxo)
	}
	b = appendString(b, 4, m.UserChannelID)
	b = appendUint64(b, 5, m.ChannelValueSats)
	b = appendUint64(b, 6, m.OutboundCapacityMsat)
	b = appendUint64(b, 7, m.InboundCapacityMsat)
	b = appendOptUint32(b, 8, m.Confirmations)
	b = appendBool(b, 9, m.IsOutbound)
	b = appendBool(b, 10, m.IsChannelReady)
	b = appendBool(b, 11, m.IsUsable)
	b = appendBool(b, 12, m.IsPublic)
	return b
}

func (m *Channel) Unmarshal(data []byte) error {
	*m = Channel{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ChannelID)
		case 2:
			return consumeString(typ, b, &m.CounterpartyNodeID)
		case 3:
			m.FundingTxo = new(OutPoint)
			return consumeMessage(typ, b, m.FundingTxo)
		case 4:
			return consumeString(typ, b, &m.UserChannelID)
		case 5:
			return consumeUint64(typ, b, &m.ChannelValueSats)
		case 6:
			return consumeUint64(typ, b, &m.OutboundCapacityMsat)
		case 7:
			return consumeUint64(typ, b, &m.InboundCapacityMsat)
		case 8:
			return consumeOptUint32(typ, b, &m.Confirmations)
		case 9:
			return consumeBool(typ, b, &m.IsOutbound)
		case 10:
			return consumeBool(typ, b, &m.IsChannelReady)
		case 11:
			return consumeBool(typ, b, &m.IsUsable)
		case 12:
			return consumeBool(typ, b, &m.IsPublic)
		}
		return 0, nil
	})
}

type OutPoint struct {
	Txid string `json:"txid,omitempty"`
	Vout uint32 `json:"vout,omitempty"`
}

func (m *OutPoint) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.Txid)
	b = appendUint32(b, 2, m.Vout)
	return b
}

func (m *OutPoint) Unmarshal(data []byte) error {
	*m = OutPoint{}
	return unmarshalFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.Txid)
		case 2:
			return consumeUint32(typ, b, &m.Vout)
		}
		return 0, nil
	})
}
