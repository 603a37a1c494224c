// Package node defines the contract between node-rpc handlers and the
// Lightning node they operate on.
//
// One Node value is shared by every request a server handles. Implementations
// must be safe for concurrent use; the dispatcher adds no locking of its own.
package node

import "fmt"

// Node is the wallet, payment and channel surface the handlers call into.
type Node interface {
	NewOnchainAddress() (string, error)
	SendToAddress(address string, amountSats uint64) (txid string, err error)
	SendAllToAddress(address string) (txid string, err error)

	ReceiveBolt11(amountMsat uint64, description string, expirySecs uint32) (invoice string, err error)
	ReceiveVariableAmountBolt11(description string, expirySecs uint32) (invoice string, err error)
	SendBolt11(invoice string) (paymentID []byte, err error)
	SendBolt11UsingAmount(invoice string, amountMsat uint64) (paymentID []byte, err error)

	ReceiveBolt12(amountMsat uint64, description string) (offer string, err error)
	ReceiveVariableAmountBolt12(description string) (offer string, err error)
	SendBolt12(offer string, payerNote *string) (paymentID []byte, err error)
	SendBolt12UsingAmount(offer string, amountMsat uint64, payerNote *string) (paymentID []byte, err error)

	OpenChannel(nodeID, address string, amountSats uint64, pushMsat *uint64, announce bool) (userChannelID string, err error)
	CloseChannel(userChannelID, counterpartyNodeID string) error
	ForceCloseChannel(userChannelID, counterpartyNodeID string) error
	ListChannels() []ChannelDetails
}

// ChannelDetails is the node's view of one channel.
type ChannelDetails struct {
	ChannelID            string
	CounterpartyNodeID   string
	FundingTxid          string // Empty until the funding transaction is known
	FundingVout          uint32
	UserChannelID        string
	ChannelValueSats     uint64
	OutboundCapacityMsat uint64
	InboundCapacityMsat  uint64
	Confirmations        *uint32
	IsOutbound           bool
	IsChannelReady       bool
	IsUsable             bool
	IsPublic             bool
}

// ErrorKind classifies node failures. It never crosses the wire; clients only
// see the display text.
type ErrorKind int

const (
	KindInsufficientFunds ErrorKind = iota + 1
	KindInvalidAddress
	KindInvalidAmount
	KindInvalidInvoice
	KindInvalidOffer
	KindInvalidPublicKey
	KindInvalidSocketAddress
	KindChannelCreationFailed
	KindChannelClosingFailed
	KindDuplicatePayment
	KindPaymentSendingFailed
)

// Error is a node failure. Its Error text is what the server returns in the
// body of a 500 response.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind, so errors.Is(err, ErrInsufficientFunds) works for wrapped
// errors with a more specific message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInsufficientFunds     = &Error{KindInsufficientFunds, "There are insufficient funds to complete the given operation."}
	ErrInvalidAddress        = &Error{KindInvalidAddress, "The given address is invalid."}
	ErrInvalidAmount         = &Error{KindInvalidAmount, "The given amount is invalid."}
	ErrInvalidInvoice        = &Error{KindInvalidInvoice, "The given invoice is invalid."}
	ErrInvalidOffer          = &Error{KindInvalidOffer, "The given offer is invalid."}
	ErrInvalidPublicKey      = &Error{KindInvalidPublicKey, "The given public key is invalid."}
	ErrInvalidSocketAddress  = &Error{KindInvalidSocketAddress, "The given network address is invalid."}
	ErrChannelCreationFailed = &Error{KindChannelCreationFailed, "Failed to create channel."}
	ErrChannelClosingFailed  = &Error{KindChannelClosingFailed, "Failed to close channel."}
	ErrDuplicatePayment      = &Error{KindDuplicatePayment, "A payment with the given hash has already been initiated."}
	ErrPaymentSendingFailed  = &Error{KindPaymentSendingFailed, "Failed to send the given payment."}
)

func errorf(base *Error, format string, args ...any) *Error {
	return &Error{Kind: base.Kind, Message: base.Message + " " + fmt.Sprintf(format, args...)}
}
