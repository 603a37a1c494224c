package client

import (
	"context"

	"node-rpc/message"
	"node-rpc/registry"
)

// OnchainReceive returns a fresh on-chain address of the node.
func (c *Client) OnchainReceive(ctx context.Context, req *message.OnchainReceiveRequest) (*message.OnchainReceiveResponse, error) {
	resp := new(message.OnchainReceiveResponse)
	if err := c.post(ctx, registry.OnchainReceivePath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OnchainSend sends an on-chain payment and returns its txid.
func (c *Client) OnchainSend(ctx context.Context, req *message.OnchainSendRequest) (*message.OnchainSendResponse, error) {
	resp := new(message.OnchainSendResponse)
	if err := c.post(ctx, registry.OnchainSendPath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Bolt11Receive creates a BOLT11 invoice.
func (c *Client) Bolt11Receive(ctx context.Context, req *message.Bolt11ReceiveRequest) (*message.Bolt11ReceiveResponse, error) {
	resp := new(message.Bolt11ReceiveResponse)
	if err := c.post(ctx, registry.Bolt11ReceivePath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Bolt11Send pays a BOLT11 invoice.
func (c *Client) Bolt11Send(ctx context.Context, req *message.Bolt11SendRequest) (*message.Bolt11SendResponse, error) {
	resp := new(message.Bolt11SendResponse)
	if err := c.post(ctx, registry.Bolt11SendPath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Bolt12Receive creates a BOLT12 offer.
func (c *Client) Bolt12Receive(ctx context.Context, req *message.Bolt12ReceiveRequest) (*message.Bolt12ReceiveResponse, error) {
	resp := new(message.Bolt12ReceiveResponse)
	if err := c.post(ctx, registry.Bolt12ReceivePath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Bolt12Send pays a BOLT12 offer.
func (c *Client) Bolt12Send(ctx context.Context, req *message.Bolt12SendRequest) (*message.Bolt12SendResponse, error) {
	resp := new(message.Bolt12SendResponse)
	if err := c.post(ctx, registry.Bolt12SendPath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) OpenChannel(ctx context.Context, req *message.OpenChannelRequest) (*message.OpenChannelResponse, error) {
	resp := new(message.OpenChannelResponse)
	if err := c.post(ctx, registry.OpenChannelPath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CloseChannel(ctx context.Context, req *message.CloseChannelRequest) (*message.CloseChannelResponse, error) {
	resp := new(message.CloseChannelResponse)
	if err := c.post(ctx, registry.CloseChannelPath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) ListChannels(ctx context.Context, req *message.ListChannelsRequest) (*message.ListChannelsResponse, error) {
	resp := new(message.ListChannelsResponse)
	if err := c.post(ctx, registry.ListChannelsPath, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
