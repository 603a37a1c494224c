// Package message defines the request and response types of every node-rpc
// operation.
//
// Each type encodes itself in the protobuf wire format (proto3 rules: zero
// scalars are not written, pointer fields are written whenever set) and is
// also JSON-taggable for the debugging codec. The field numbers are part of the
// wire contract and must not be reused.
//
//	OnchainReceive   OnchainReceiveRequest   -> OnchainReceiveResponse
//	OnchainSend      OnchainSendRequest      -> OnchainSendResponse
//	Bolt11Receive    Bolt11ReceiveRequest    -> Bolt11ReceiveResponse
//	Bolt11Send       Bolt11SendRequest       -> Bolt11SendResponse
//	Bolt12Receive    Bolt12ReceiveRequest    -> Bolt12ReceiveResponse
//	Bolt12Send       Bolt12SendRequest       -> Bolt12SendResponse
//	OpenChannel      OpenChannelRequest      -> OpenChannelResponse
//	CloseChannel     CloseChannelRequest     -> CloseChannelResponse
//	ListChannels     ListChannelsRequest     -> ListChannelsResponse
package message
