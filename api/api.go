// Package api holds the handlers that turn node-rpc requests into node calls.
package api

import (
	"node-rpc/registry"
	"node-rpc/server"
)

// handlers maps each operation path to its handler.
var handlers = map[string]server.HandlerFunc{
	registry.OnchainReceivePath: server.Bind(OnchainReceive),
	registry.OnchainSendPath:    server.Bind(OnchainSend),
	registry.Bolt11ReceivePath:  server.Bind(Bolt11Receive),
	registry.Bolt11SendPath:     server.Bind(Bolt11Send),
	registry.Bolt12ReceivePath:  server.Bind(Bolt12Receive),
	registry.Bolt12SendPath:     server.Bind(Bolt12Send),
	registry.OpenChannelPath:    server.Bind(OpenChannel),
	registry.CloseChannelPath:   server.Bind(CloseChannel),
	registry.ListChannelsPath:   server.Bind(ListChannels),
}

// Register binds every node operation on svr.
func Register(svr *server.Server) error {
	for path, h := range handlers {
		if err := svr.Handle(path, h); err != nil {
			return err
		}
	}
	return nil
}
