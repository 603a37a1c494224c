package node

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strconv"
	"strings"
	"sync"
)

// MemoryConfig seeds a Memory node.
type MemoryConfig struct {
	NodeID      string // Hex public key reported by the node; random when empty
	BalanceSats uint64 // Spendable on-chain balance
}

// Memory is a regtest-style node that keeps all state in process. It backs the
// development server and the tests; it does not talk to any network.
type Memory struct {
	mu          sync.Mutex
	nodeID      string
	balanceSats uint64
	channels    map[string]*ChannelDetails // User channel id → channel
	order       []string                   // User channel ids in open order
	nextChannel uint64
	paid        map[string]bool // Payment ids of BOLT11 invoices already sent
}

var _ Node = (*Memory)(nil)

func NewMemory(cfg MemoryConfig) *Memory {
	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = "02" + randomHex(32)
	}
	return &Memory{
		nodeID:      nodeID,
		balanceSats: cfg.BalanceSats,
		channels:    make(map[string]*ChannelDetails),
		paid:        make(map[string]bool),
	}
}

func (m *Memory) NodeID() string {
	return m.nodeID
}

// BalanceSats returns the spendable on-chain balance.
func (m *Memory) BalanceSats() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceSats
}

func (m *Memory) NewOnchainAddress() (string, error) {
	return "bcrt1q" + randomHex(19), nil
}

func (m *Memory) SendToAddress(address string, amountSats uint64) (string, error) {
	if !validAddress(address) {
		return "", ErrInvalidAddress
	}
	if amountSats == 0 {
		return "", ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if amountSats > m.balanceSats {
		return "", ErrInsufficientFunds
	}
	m.balanceSats -= amountSats
	return randomHex(32), nil
}

func (m *Memory) SendAllToAddress(address string) (string, error) {
	if !validAddress(address) {
		return "", ErrInvalidAddress
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balanceSats == 0 {
		return "", ErrInsufficientFunds
	}
	m.balanceSats = 0
	return randomHex(32), nil
}

func (m *Memory) ReceiveBolt11(amountMsat uint64, description string, expirySecs uint32) (string, error) {
	if amountMsat == 0 {
		return "", ErrInvalidAmount
	}
	return "lnbcrt" + strconv.FormatUint(amountMsat, 10) + "p1" + randomHex(48), nil
}

func (m *Memory) ReceiveVariableAmountBolt11(description string, expirySecs uint32) (string, error) {
	return "lnbcrt1" + randomHex(48), nil
}

func (m *Memory) SendBolt11(invoice string) ([]byte, error) {
	return m.payInvoice(invoice)
}

func (m *Memory) SendBolt11UsingAmount(invoice string, amountMsat uint64) ([]byte, error) {
	if amountMsat == 0 {
		return nil, ErrInvalidAmount
	}
	return m.payInvoice(invoice)
}

// payInvoice derives the payment id from the invoice, so paying the same
// invoice twice is detected like a repeated payment hash.
func (m *Memory) payInvoice(invoice string) ([]byte, error) {
	if !strings.HasPrefix(invoice, "lnbc") && !strings.HasPrefix(invoice, "lntb") {
		return nil, ErrInvalidInvoice
	}
	sum := sha256.Sum256([]byte(invoice))
	key := hex.EncodeToString(sum[:])

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUsableChannel() {
		return nil, errorf(ErrPaymentSendingFailed, "no usable channels")
	}
	if m.paid[key] {
		return nil, ErrDuplicatePayment
	}
	m.paid[key] = true
	return sum[:], nil
}

func (m *Memory) ReceiveBolt12(amountMsat uint64, description string) (string, error) {
	if amountMsat == 0 {
		return "", ErrInvalidAmount
	}
	return "lno1" + randomHex(48), nil
}

func (m *Memory) ReceiveVariableAmountBolt12(description string) (string, error) {
	return "lno1" + randomHex(48), nil
}

func (m *Memory) SendBolt12(offer string, payerNote *string) ([]byte, error) {
	return m.payOffer(offer)
}

func (m *Memory) SendBolt12UsingAmount(offer string, amountMsat uint64, payerNote *string) ([]byte, error) {
	if amountMsat == 0 {
		return nil, ErrInvalidAmount
	}
	return m.payOffer(offer)
}

// Offers are reusable, so every payment gets a fresh id.
func (m *Memory) payOffer(offer string) ([]byte, error) {
	if !strings.HasPrefix(offer, "lno1") {
		return nil, ErrInvalidOffer
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasUsableChannel() {
		return nil, errorf(ErrPaymentSendingFailed, "no usable channels")
	}
	id := make([]byte, 32)
	_, _ = rand.Read(id)
	return id, nil
}

func (m *Memory) OpenChannel(nodeID, address string, amountSats uint64, pushMsat *uint64, announce bool) (string, error) {
	if !validPublicKey(nodeID) {
		return "", ErrInvalidPublicKey
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return "", ErrInvalidSocketAddress
	}
	if amountSats == 0 {
		return "", ErrInvalidAmount
	}
	var push uint64
	if pushMsat != nil {
		push = *pushMsat
	}
	if push > amountSats*1000 {
		return "", errorf(ErrChannelCreationFailed, "push amount exceeds channel value")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if amountSats > m.balanceSats {
		return "", ErrInsufficientFunds
	}
	m.balanceSats -= amountSats
	m.nextChannel++
	userChannelID := strconv.FormatUint(m.nextChannel, 10)

	confirmations := uint32(0)
	m.channels[userChannelID] = &ChannelDetails{
		ChannelID:            randomHex(32),
		CounterpartyNodeID:   nodeID,
		FundingTxid:          randomHex(32),
		UserChannelID:        userChannelID,
		ChannelValueSats:     amountSats,
		OutboundCapacityMsat: amountSats*1000 - push,
		InboundCapacityMsat:  push,
		Confirmations:        &confirmations,
		IsOutbound:           true,
		IsChannelReady:       true,
		IsUsable:             true,
		IsPublic:             announce,
	}
	m.order = append(m.order, userChannelID)
	return userChannelID, nil
}

func (m *Memory) CloseChannel(userChannelID, counterpartyNodeID string) error {
	return m.closeChannel(userChannelID, counterpartyNodeID)
}

// ForceCloseChannel behaves like CloseChannel; the in-memory node has no
// timelocks to wait out.
func (m *Memory) ForceCloseChannel(userChannelID, counterpartyNodeID string) error {
	return m.closeChannel(userChannelID, counterpartyNodeID)
}

func (m *Memory) closeChannel(userChannelID, counterpartyNodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, ok := m.channels[userChannelID]
	if !ok || ch.CounterpartyNodeID != counterpartyNodeID {
		return ErrChannelClosingFailed
	}
	m.balanceSats += ch.OutboundCapacityMsat / 1000
	delete(m.channels, userChannelID)
	for i, id := range m.order {
		if id == userChannelID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListChannels() []ChannelDetails {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ChannelDetails, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.channels[id])
	}
	return out
}

// hasUsableChannel must be called with mu held.
func (m *Memory) hasUsableChannel() bool {
	for _, ch := range m.channels {
		if ch.IsUsable {
			return true
		}
	}
	return false
}

func validAddress(address string) bool {
	for _, hrp := range []string{"bc1", "tb1", "bcrt1"} {
		if strings.HasPrefix(address, hrp) && len(address) > len(hrp) {
			return true
		}
	}
	return false
}

func validPublicKey(nodeID string) bool {
	if len(nodeID) != 66 || (!strings.HasPrefix(nodeID, "02") && !strings.HasPrefix(nodeID, "03")) {
		return false
	}
	_, err := hex.DecodeString(nodeID)
	return err == nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
