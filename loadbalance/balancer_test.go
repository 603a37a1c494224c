package loadbalance

import (
	"errors"
	"fmt"
	"testing"

	"node-rpc/discovery"
)

var testInstances = []discovery.Instance{
	{Addr: ":8001", Weight: 10, Version: "1.0"},
	{Addr: ":8002", Weight: 5, Version: "1.0"},
	{Addr: ":8003", Weight: 10, Version: "1.0"},
}

func TestRoundRobin(t *testing.T) {
	b := &RoundRobinBalancer{}

	// Pick 3 times, should cycle through all instances in order
	for i := 0; i < 3; i++ {
		inst, err := b.Pick(testInstances)
		if err != nil {
			t.Fatal(err)
		}
		if inst.Addr != testInstances[i].Addr {
			t.Fatalf("pick %d: expect %s, got %s", i, testInstances[i].Addr, inst.Addr)
		}
	}

	// Pick again, should wrap around to first
	inst, _ := b.Pick(testInstances)
	if inst.Addr != testInstances[0].Addr {
		t.Fatalf("expect wrap around to %s, got %s", testInstances[0].Addr, inst.Addr)
	}
}

func TestEmpty(t *testing.T) {
	for _, b := range []Balancer{&RoundRobinBalancer{}, &WeightedRandomBalancer{}, NewConsistentHashBalancer("k")} {
		if _, err := b.Pick(nil); !errors.Is(err, ErrNoInstances) {
			t.Errorf("%s: expect ErrNoInstances, got %v", b.Name(), err)
		}
	}
}

func TestWeightedRandom(t *testing.T) {
	b := &WeightedRandomBalancer{}

	counts := map[string]int{}
	n := 10000
	for i := 0; i < n; i++ {
		inst, err := b.Pick(testInstances)
		if err != nil {
			t.Fatal(err)
		}
		counts[inst.Addr]++
	}

	// Weight ratio is 10:5:10, so :8001 and :8003 should be ~2x of :8002
	ratio := float64(counts[":8001"]) / float64(counts[":8002"])
	if ratio < 1.5 || ratio > 2.5 {
		t.Fatalf("weight ratio :8001/:8002 = %.2f, expect ~2.0", ratio)
	}
}

func TestWeightedRandomZeroWeights(t *testing.T) {
	b := &WeightedRandomBalancer{}
	insts := []discovery.Instance{{Addr: ":9001"}, {Addr: ":9002"}}
	for i := 0; i < 100; i++ {
		if _, err := b.Pick(insts); err != nil {
			t.Fatal(err)
		}
	}
}

func TestConsistentHash(t *testing.T) {
	// Same key should always map to the same instance
	b := NewConsistentHashBalancer("client-123")
	inst1, _ := b.Pick(testInstances)
	inst2, _ := b.Pick(testInstances)
	if inst1.Addr != inst2.Addr {
		t.Fatalf("same key mapped to different instances: %s vs %s", inst1.Addr, inst2.Addr)
	}

	// Order of the discovered list does not matter
	reversed := []discovery.Instance{testInstances[2], testInstances[1], testInstances[0]}
	inst3, _ := b.Pick(reversed)
	if inst3.Addr != inst1.Addr {
		t.Fatalf("reordered list moved key from %s to %s", inst1.Addr, inst3.Addr)
	}

	// Different keys should (likely) map to different instances
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		inst, _ := NewConsistentHashBalancer(fmt.Sprintf("key-%d", i)).Pick(testInstances)
		seen[inst.Addr] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expect at least 2 different instances, got %d", len(seen))
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		name, expect string
	}{
		{"", "RoundRobin"},
		{"roundrobin", "RoundRobin"},
		{"random", "WeightedRandom"},
		{"hash", "ConsistentHash"},
	}
	for _, tc := range cases {
		if b := New(tc.name, "k"); b == nil || b.Name() != tc.expect {
			t.Errorf("New(%q) = %v, want %s", tc.name, b, tc.expect)
		}
	}
	if New("bogus", "") != nil {
		t.Error("expect nil for unknown strategy")
	}
}
