package registry

import (
	"node-rpc/codec"
	"node-rpc/message"
)

// Paths of the node operations. Each path equals the operation name.
const (
	OnchainReceivePath = "OnchainReceive"
	OnchainSendPath    = "OnchainSend"
	Bolt11ReceivePath  = "Bolt11Receive"
	Bolt11SendPath     = "Bolt11Send"
	Bolt12ReceivePath  = "Bolt12Receive"
	Bolt12SendPath     = "Bolt12Send"
	OpenChannelPath    = "OpenChannel"
	CloseChannelPath   = "CloseChannel"
	ListChannelsPath   = "ListChannels"
)

// nodeOperations is the declarative table behind Default.
var nodeOperations = []Operation{
	{
		Name:        "OnchainReceive",
		Path:        OnchainReceivePath,
		NewRequest:  func() codec.Message { return new(message.OnchainReceiveRequest) },
		NewResponse: func() codec.Message { return new(message.OnchainReceiveResponse) },
	},
	{
		Name:        "OnchainSend",
		Path:        OnchainSendPath,
		NewRequest:  func() codec.Message { return new(message.OnchainSendRequest) },
		NewResponse: func() codec.Message { return new(message.OnchainSendResponse) },
	},
	{
		Name:        "Bolt11Receive",
		Path:        Bolt11ReceivePath,
		NewRequest:  func() codec.Message { return new(message.Bolt11ReceiveRequest) },
		NewResponse: func() codec.Message { return new(message.Bolt11ReceiveResponse) },
	},
	{
		Name:        "Bolt11Send",
		Path:        Bolt11SendPath,
		NewRequest:  func() codec.Message { return new(message.Bolt11SendRequest) },
		NewResponse: func() codec.Message { return new(message.Bolt11SendResponse) },
	},
	{
		Name:        "Bolt12Receive",
		Path:        Bolt12ReceivePath,
		NewRequest:  func() codec.Message { return new(message.Bolt12ReceiveRequest) },
		NewResponse: func() codec.Message { return new(message.Bolt12ReceiveResponse) },
	},
	{
		Name:        "Bolt12Send",
		Path:        Bolt12SendPath,
		NewRequest:  func() codec.Message { return new(message.Bolt12SendRequest) },
		NewResponse: func() codec.Message { return new(message.Bolt12SendResponse) },
	},
	{
		Name:        "OpenChannel",
		Path:        OpenChannelPath,
		NewRequest:  func() codec.Message { return new(message.OpenChannelRequest) },
		NewResponse: func() codec.Message { return new(message.OpenChannelResponse) },
	},
	{
		Name:        "CloseChannel",
		Path:        CloseChannelPath,
		NewRequest:  func() codec.Message { return new(message.CloseChannelRequest) },
		NewResponse: func() codec.Message { return new(message.CloseChannelResponse) },
	},
	{
		Name:        "ListChannels",
		Path:        ListChannelsPath,
		NewRequest:  func() codec.Message { return new(message.ListChannelsRequest) },
		NewResponse: func() codec.Message { return new(message.ListChannelsResponse) },
	},
}

// Default returns a registry holding the nine node operations.
func Default() *Registry {
	r := New()
	for _, op := range nodeOperations {
		if err := r.Register(op); err != nil {
			// The table is static; a failure here is a programming error.
			panic(err)
		}
	}
	return r
}
