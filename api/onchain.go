package api

import (
	"node-rpc/message"
	"node-rpc/node"
)

func OnchainReceive(n node.Node, _ *message.OnchainReceiveRequest) (*message.OnchainReceiveResponse, error) {
	address, err := n.NewOnchainAddress()
	if err != nil {
		return nil, err
	}
	return &message.OnchainReceiveResponse{Address: address}, nil
}

// OnchainSend sweeps the wallet when send_all is true, otherwise sends
// amount_sats, which must then be set.
func OnchainSend(n node.Node, req *message.OnchainSendRequest) (*message.OnchainSendResponse, error) {
	var (
		txid string
		err  error
	)
	switch {
	case req.SendAll != nil && *req.SendAll:
		txid, err = n.SendAllToAddress(req.Address)
	case req.AmountSats != nil:
		txid, err = n.SendToAddress(req.Address, *req.AmountSats)
	default:
		return nil, node.ErrInvalidAmount
	}
	if err != nil {
		return nil, err
	}
	return &message.OnchainSendResponse{Txid: txid}, nil
}
