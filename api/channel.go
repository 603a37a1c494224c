package api

import (
	"node-rpc/message"
	"node-rpc/node"
)

func OpenChannel(n node.Node, req *message.OpenChannelRequest) (*message.OpenChannelResponse, error) {
	id, err := n.OpenChannel(req.NodePubkey, req.Address, req.ChannelAmountSats,
		req.PushToCounterpartyMsat, req.AnnounceChannel)
	if err != nil {
		return nil, err
	}
	return &message.OpenChannelResponse{UserChannelID: id}, nil
}

func CloseChannel(n node.Node, req *message.CloseChannelRequest) (*message.CloseChannelResponse, error) {
	var err error
	if req.ForceClose {
		err = n.ForceCloseChannel(req.UserChannelID, req.CounterpartyNodeID)
	} else {
		err = n.CloseChannel(req.UserChannelID, req.CounterpartyNodeID)
	}
	if err != nil {
		return nil, err
	}
	return &message.CloseChannelResponse{}, nil
}

func ListChannels(n node.Node, _ *message.ListChannelsRequest) (*message.ListChannelsResponse, error) {
	details := n.ListChannels()
	resp := &message.ListChannelsResponse{Channels: make([]*message.Channel, 0, len(details))}
	for _, d := range details {
		resp.Channels = append(resp.Channels, channelMessage(d))
	}
	return resp, nil
}

func channelMessage(d node.ChannelDetails) *message.Channel {
	ch := &message.Channel{
		ChannelID:            d.ChannelID,
		CounterpartyNodeID:   d.CounterpartyNodeID,
		UserChannelID:        d.UserChannelID,
		ChannelValueSats:     d.ChannelValueSats,
		OutboundCapacityMsat: d.OutboundCapacityMsat,
		InboundCapacityMsat:  d.InboundCapacityMsat,
		Confirmations:        d.Confirmations,
		IsOutbound:           d.IsOutbound,
		IsChannelReady:       d.IsChannelReady,
		IsUsable:             d.IsUsable,
		IsPublic:             d.IsPublic,
	}
	if d.FundingTxid != "" {
		ch.FundingTxo = &message.OutPoint{Txid: d.FundingTxid, Vout: d.FundingVout}
	}
	return ch
}
