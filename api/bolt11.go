package api

import (
	"node-rpc/message"
	"node-rpc/node"
)

func Bolt11Receive(n node.Node, req *message.Bolt11ReceiveRequest) (*message.Bolt11ReceiveResponse, error) {
	var (
		invoice string
		err     error
	)
	if req.AmountMsat != nil {
		invoice, err = n.ReceiveBolt11(*req.AmountMsat, req.Description, req.ExpirySecs)
	} else {
		invoice, err = n.ReceiveVariableAmountBolt11(req.Description, req.ExpirySecs)
	}
	if err != nil {
		return nil, err
	}
	return &message.Bolt11ReceiveResponse{Invoice: invoice}, nil
}

func Bolt11Send(n node.Node, req *message.Bolt11SendRequest) (*message.Bolt11SendResponse, error) {
	var (
		id  []byte
		err error
	)
	if req.AmountMsat != nil {
		id, err = n.SendBolt11UsingAmount(req.Invoice, *req.AmountMsat)
	} else {
		id, err = n.SendBolt11(req.Invoice)
	}
	if err != nil {
		return nil, err
	}
	return &message.Bolt11SendResponse{PaymentID: id}, nil
}
