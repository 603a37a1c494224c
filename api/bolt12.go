package api

import (
	"node-rpc/message"
	"node-rpc/node"
)

func Bolt12Receive(n node.Node, req *message.Bolt12ReceiveRequest) (*message.Bolt12ReceiveResponse, error) {
	var (
		offer string
		err   error
	)
	if req.AmountMsat != nil {
		offer, err = n.ReceiveBolt12(*req.AmountMsat, req.Description)
	} else {
		offer, err = n.ReceiveVariableAmountBolt12(req.Description)
	}
	if err != nil {
		return nil, err
	}
	return &message.Bolt12ReceiveResponse{Offer: offer}, nil
}

func Bolt12Send(n node.Node, req *message.Bolt12SendRequest) (*message.Bolt12SendResponse, error) {
	var (
		id  []byte
		err error
	)
	if req.AmountMsat != nil {
		id, err = n.SendBolt12UsingAmount(req.Offer, *req.AmountMsat, req.PayerNote)
	} else {
		id, err = n.SendBolt12(req.Offer, req.PayerNote)
	}
	if err != nil {
		return nil, err
	}
	return &message.Bolt12SendResponse{PaymentID: id}, nil
}
