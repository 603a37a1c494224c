package registry

import (
	"testing"

	"node-rpc/codec"
	"node-rpc/message"
)

func TestDefault(t *testing.T) {
	reg := Default()

	paths := []string{
		OnchainReceivePath, OnchainSendPath,
		Bolt11ReceivePath, Bolt11SendPath,
		Bolt12ReceivePath, Bolt12SendPath,
		OpenChannelPath, CloseChannelPath, ListChannelsPath,
	}
	if reg.Len() != len(paths) {
		t.Fatalf("expect %d operations, got %d", len(paths), reg.Len())
	}

	for _, path := range paths {
		op, ok := reg.Lookup(path)
		if !ok {
			t.Fatalf("expect %s to be registered", path)
		}
		if op.Name != path {
			t.Errorf("expect name %s, got %s", path, op.Name)
		}
		if op.NewRequest() == nil || op.NewResponse() == nil {
			t.Errorf("%s: constructors returned nil", path)
		}
	}
}

func TestLookupIsExact(t *testing.T) {
	reg := Default()

	for _, path := range []string{"listchannels", "/ListChannels", "ListChannels/", "List", ""} {
		if _, ok := reg.Lookup(path); ok {
			t.Errorf("expect no match for %q", path)
		}
	}
}

func TestConstructorsReturnFreshValues(t *testing.T) {
	op, _ := Default().Lookup(OnchainSendPath)

	a := op.NewRequest().(*message.OnchainSendRequest)
	a.Address = "bcrt1qxyz"
	b := op.NewRequest().(*message.OnchainSendRequest)
	if b.Address != "" {
		t.Fatal("expect a fresh request per call")
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	newMsg := func() codec.Message { return new(message.ListChannelsRequest) }

	cases := []struct {
		name string
		op   Operation
	}{
		{"EmptyName", Operation{Path: "X", NewRequest: newMsg, NewResponse: newMsg}},
		{"EmptyPath", Operation{Name: "X", NewRequest: newMsg, NewResponse: newMsg}},
		{"NestedPath", Operation{Name: "X", Path: "a/b", NewRequest: newMsg, NewResponse: newMsg}},
		{"NoRequest", Operation{Name: "X", Path: "X", NewResponse: newMsg}},
		{"NoResponse", Operation{Name: "X", Path: "X", NewRequest: newMsg}},
		{"Duplicate", Operation{Name: "Other", Path: ListChannelsPath, NewRequest: newMsg, NewResponse: newMsg}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := Default()
			if err := reg.Register(tc.op); err == nil {
				t.Fatal("expect Register to fail")
			}
		})
	}
}

func TestOperationsSorted(t *testing.T) {
	ops := Default().Operations()
	for i := 1; i < len(ops); i++ {
		if ops[i-1].Path >= ops[i].Path {
			t.Fatalf("operations not sorted: %s before %s", ops[i-1].Path, ops[i].Path)
		}
	}
}
