package node

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

const peer = "02eec7245d6b7d2ccb30380bfbe2a3648cd7a942653f5aa340edcea1f283686619"

func TestOnchain(t *testing.T) {
	n := NewMemory(MemoryConfig{BalanceSats: 100_000})

	addr, err := n.NewOnchainAddress()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(addr, "bcrt1") {
		t.Fatalf("expect regtest address, got %s", addr)
	}

	if _, err := n.SendToAddress(addr, 40_000); err != nil {
		t.Fatalf("SendToAddress failed: %v", err)
	}
	if got := n.BalanceSats(); got != 60_000 {
		t.Fatalf("expect balance 60000, got %d", got)
	}

	if _, err := n.SendToAddress(addr, 60_001); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expect ErrInsufficientFunds, got %v", err)
	}
	if _, err := n.SendToAddress("1BoatSLRHtKNngkdXEeobR76b53LETtpyT", 1); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expect ErrInvalidAddress, got %v", err)
	}

	if _, err := n.SendAllToAddress(addr); err != nil {
		t.Fatalf("SendAllToAddress failed: %v", err)
	}
	if _, err := n.SendAllToAddress(addr); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expect ErrInsufficientFunds after sweep, got %v", err)
	}
}

func TestChannelLifecycle(t *testing.T) {
	n := NewMemory(MemoryConfig{BalanceSats: 500_000})
	push := uint64(5_000_000)

	id, err := n.OpenChannel(peer, "127.0.0.1:9735", 200_000, &push, true)
	if err != nil {
		t.Fatalf("OpenChannel failed: %v", err)
	}

	channels := n.ListChannels()
	if len(channels) != 1 {
		t.Fatalf("expect 1 channel, got %d", len(channels))
	}
	ch := channels[0]
	if ch.UserChannelID != id || ch.CounterpartyNodeID != peer || !ch.IsPublic {
		t.Fatalf("unexpected channel: %+v", ch)
	}
	if ch.OutboundCapacityMsat != 195_000_000 || ch.InboundCapacityMsat != push {
		t.Fatalf("unexpected capacity: out=%d in=%d", ch.OutboundCapacityMsat, ch.InboundCapacityMsat)
	}
	if n.BalanceSats() != 300_000 {
		t.Fatalf("expect balance 300000, got %d", n.BalanceSats())
	}

	if err := n.CloseChannel(id, "03"+peer[2:]); !errors.Is(err, ErrChannelClosingFailed) {
		t.Fatalf("expect ErrChannelClosingFailed for wrong counterparty, got %v", err)
	}
	if err := n.ForceCloseChannel(id, peer); err != nil {
		t.Fatalf("ForceCloseChannel failed: %v", err)
	}
	if len(n.ListChannels()) != 0 {
		t.Fatal("expect no channels after close")
	}
	if n.BalanceSats() != 495_000 {
		t.Fatalf("expect balance 495000, got %d", n.BalanceSats())
	}
}

func TestOpenChannelValidation(t *testing.T) {
	n := NewMemory(MemoryConfig{BalanceSats: 1_000})
	tooMuchPush := uint64(2_000_000)

	cases := []struct {
		name    string
		nodeID  string
		address string
		amount  uint64
		push    *uint64
		expect  error
	}{
		{"BadPubkey", "02zz", "127.0.0.1:9735", 100, nil, ErrInvalidPublicKey},
		{"BadAddress", peer, "no-port", 100, nil, ErrInvalidSocketAddress},
		{"ZeroAmount", peer, "127.0.0.1:9735", 0, nil, ErrInvalidAmount},
		{"PushTooLarge", peer, "127.0.0.1:9735", 1_000, &tooMuchPush, ErrChannelCreationFailed},
		{"Insufficient", peer, "127.0.0.1:9735", 1_001, nil, ErrInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := n.OpenChannel(tc.nodeID, tc.address, tc.amount, tc.push, false)
			if !errors.Is(err, tc.expect) {
				t.Fatalf("expect %v, got %v", tc.expect, err)
			}
		})
	}
}

func TestPayments(t *testing.T) {
	n := NewMemory(MemoryConfig{BalanceSats: 100_000})

	invoice, err := n.ReceiveBolt11(1_000, "coffee", 600)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := n.SendBolt11(invoice); !errors.Is(err, ErrPaymentSendingFailed) {
		t.Fatalf("expect ErrPaymentSendingFailed without channels, got %v", err)
	}

	if _, err := n.OpenChannel(peer, "127.0.0.1:9735", 50_000, nil, false); err != nil {
		t.Fatal(err)
	}

	id, err := n.SendBolt11(invoice)
	if err != nil {
		t.Fatalf("SendBolt11 failed: %v", err)
	}
	if len(id) != 32 {
		t.Fatalf("expect 32-byte payment id, got %d", len(id))
	}
	if _, err := n.SendBolt11UsingAmount(invoice, 5); !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("expect ErrDuplicatePayment, got %v", err)
	}
	if _, err := n.SendBolt11("garbage"); !errors.Is(err, ErrInvalidInvoice) {
		t.Fatalf("expect ErrInvalidInvoice, got %v", err)
	}

	offer, err := n.ReceiveVariableAmountBolt12("tips")
	if err != nil {
		t.Fatal(err)
	}
	first, err := n.SendBolt12UsingAmount(offer, 10_000, nil)
	if err != nil {
		t.Fatalf("SendBolt12UsingAmount failed: %v", err)
	}
	second, err := n.SendBolt12(offer, nil)
	if err != nil {
		t.Fatalf("SendBolt12 failed: %v", err)
	}
	if string(first) == string(second) {
		t.Fatal("expect distinct payment ids for repeated offer payments")
	}
	if _, err := n.SendBolt12("lnbc1", nil); !errors.Is(err, ErrInvalidOffer) {
		t.Fatalf("expect ErrInvalidOffer, got %v", err)
	}
}

func TestErrorText(t *testing.T) {
	if ErrInsufficientFunds.Error() != "There are insufficient funds to complete the given operation." {
		t.Fatalf("unexpected display text: %q", ErrInsufficientFunds.Error())
	}
	wrapped := errorf(ErrPaymentSendingFailed, "no route")
	if !errors.Is(wrapped, ErrPaymentSendingFailed) {
		t.Fatal("expect errors.Is to match on kind")
	}
	if errors.Is(wrapped, ErrInvalidOffer) {
		t.Fatal("expect different kinds not to match")
	}
}

func TestConcurrentUse(t *testing.T) {
	n := NewMemory(MemoryConfig{BalanceSats: 1_000_000})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := n.OpenChannel(peer, "127.0.0.1:9735", 10_000, nil, false); err != nil {
				t.Errorf("OpenChannel failed: %v", err)
			}
			n.ListChannels()
		}()
	}
	wg.Wait()

	if got := len(n.ListChannels()); got != 50 {
		t.Fatalf("expect 50 channels, got %d", got)
	}
	if n.BalanceSats() != 500_000 {
		t.Fatalf("expect balance 500000, got %d", n.BalanceSats())
	}
}
