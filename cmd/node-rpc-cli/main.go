// Command node-rpc-cli calls one node operation and prints the reply as JSON.
//
//	node-rpc-cli [-base-url host:port] [-json] <command> [command flags]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"node-rpc/client"
	"node-rpc/codec"
	"node-rpc/discovery"
	"node-rpc/loadbalance"
	"node-rpc/message"
)

// command runs one operation with its own flag set.
type command struct {
	usage string
	run   func(ctx context.Context, cli *client.Client, args []string) (any, error)
}

var commands = map[string]command{
	"onchain-receive": {"Get a fresh on-chain address", onchainReceive},
	"onchain-send":    {"Send on-chain funds", onchainSend},
	"bolt11-receive":  {"Create a BOLT11 invoice", bolt11Receive},
	"bolt11-send":     {"Pay a BOLT11 invoice", bolt11Send},
	"bolt12-receive":  {"Create a BOLT12 offer", bolt12Receive},
	"bolt12-send":     {"Pay a BOLT12 offer", bolt12Send},
	"open-channel":    {"Open a channel", openChannel},
	"close-channel":   {"Close a channel", closeChannel},
	"list-channels":   {"List channels", listChannels},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("node-rpc-cli", flag.ContinueOnError)
	baseURL := fs.String("base-url", "localhost:3000", "Server address")
	useJSON := fs.Bool("json", false, "Send requests as JSON instead of protobuf")
	etcd := fs.String("etcd", "", "Comma-separated etcd endpoints; discover the server instead of -base-url")
	service := fs.String("service", "node-rpc", "Service name to discover")
	balance := fs.String("balance", "roundrobin", "Server selection with -etcd: roundrobin | random | hash")
	timeout := fs.Duration("timeout", 30*time.Second, "Call timeout")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(fs)
		return 2
	}
	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", fs.Arg(0))
		usage(fs)
		return 2
	}

	opts := []client.Option{}
	if *useJSON {
		opts = append(opts, client.WithCodec(codec.GetCodec(codec.CodecTypeJSON)))
	}
	if *etcd != "" {
		reg, err := discovery.NewEtcdRegistry(strings.Split(*etcd, ","), zap.NewNop())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer reg.Close()

		host, _ := os.Hostname()
		bal := loadbalance.New(*balance, host)
		if bal == nil {
			fmt.Fprintf(os.Stderr, "unknown balancer %q\n", *balance)
			return 2
		}
		opts = append(opts, client.WithDiscovery(reg, bal, *service))
	}
	cli := client.NewClient(*baseURL, opts...)
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := cmd.run(ctx, cli, fs.Args()[1:])
	if err != nil {
		var cerr *client.Error
		if errors.As(err, &cerr) && cerr.Status != 0 {
			fmt.Fprintf(os.Stderr, "error (HTTP %d): %s\n", cerr.Status, cerr.Message)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}

	out, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Println(string(out))
	return 0
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "usage: node-rpc-cli [flags] <command> [command flags]\n\nflags:\n")
	fs.PrintDefaults()
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(os.Stderr, "\ncommands:\n")
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-16s %s\n", name, commands[name].usage)
	}
}

// optUint64 returns a pointer to v only when the flag was given.
func optUint64(fs *flag.FlagSet, name string, v uint64) *uint64 {
	if !isSet(fs, name) {
		return nil
	}
	return &v
}

func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range required {
		if !isSet(fs, name) {
			return fmt.Errorf("%s: -%s is required", fs.Name(), name)
		}
	}
	return nil
}

func onchainReceive(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("onchain-receive", flag.ContinueOnError)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return cli.OnchainReceive(ctx, &message.OnchainReceiveRequest{})
}

func onchainSend(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("onchain-send", flag.ContinueOnError)
	address := fs.String("address", "", "Destination address")
	amount := fs.Uint64("amount-sats", 0, "Amount to send")
	sendAll := fs.Bool("send-all", false, "Sweep the whole wallet")
	if err := parse(fs, args, "address"); err != nil {
		return nil, err
	}
	req := &message.OnchainSendRequest{Address: *address, AmountSats: optUint64(fs, "amount-sats", *amount)}
	if *sendAll {
		req.SendAll = sendAll
	}
	return cli.OnchainSend(ctx, req)
}

func bolt11Receive(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("bolt11-receive", flag.ContinueOnError)
	amount := fs.Uint64("amount-msat", 0, "Invoice amount; omit for a variable-amount invoice")
	desc := fs.String("description", "", "Invoice description")
	expiry := fs.Uint("expiry-secs", 3600, "Invoice expiry")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return cli.Bolt11Receive(ctx, &message.Bolt11ReceiveRequest{
		AmountMsat:  optUint64(fs, "amount-msat", *amount),
		Description: *desc,
		ExpirySecs:  uint32(*expiry),
	})
}

func bolt11Send(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("bolt11-send", flag.ContinueOnError)
	invoice := fs.String("invoice", "", "Invoice to pay")
	amount := fs.Uint64("amount-msat", 0, "Amount for a variable-amount invoice")
	if err := parse(fs, args, "invoice"); err != nil {
		return nil, err
	}
	return cli.Bolt11Send(ctx, &message.Bolt11SendRequest{
		Invoice:    *invoice,
		AmountMsat: optUint64(fs, "amount-msat", *amount),
	})
}

func bolt12Receive(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("bolt12-receive", flag.ContinueOnError)
	desc := fs.String("description", "", "Offer description")
	amount := fs.Uint64("amount-msat", 0, "Offer amount; omit for a variable-amount offer")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return cli.Bolt12Receive(ctx, &message.Bolt12ReceiveRequest{
		Description: *desc,
		AmountMsat:  optUint64(fs, "amount-msat", *amount),
	})
}

func bolt12Send(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("bolt12-send", flag.ContinueOnError)
	offer := fs.String("offer", "", "Offer to pay")
	amount := fs.Uint64("amount-msat", 0, "Amount for a variable-amount offer")
	note := fs.String("payer-note", "", "Note shown to the recipient")
	if err := parse(fs, args, "offer"); err != nil {
		return nil, err
	}
	req := &message.Bolt12SendRequest{Offer: *offer, AmountMsat: optUint64(fs, "amount-msat", *amount)}
	if isSet(fs, "payer-note") {
		req.PayerNote = note
	}
	return cli.Bolt12Send(ctx, req)
}

func openChannel(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("open-channel", flag.ContinueOnError)
	pubkey := fs.String("node-pubkey", "", "Counterparty node id")
	address := fs.String("address", "", "Counterparty host:port")
	amount := fs.Uint64("amount-sats", 0, "Channel value")
	push := fs.Uint64("push-msat", 0, "Amount pushed to the counterparty")
	announce := fs.Bool("announce", false, "Announce the channel")
	if err := parse(fs, args, "node-pubkey", "address", "amount-sats"); err != nil {
		return nil, err
	}
	return cli.OpenChannel(ctx, &message.OpenChannelRequest{
		NodePubkey:             *pubkey,
		Address:                *address,
		ChannelAmountSats:      *amount,
		PushToCounterpartyMsat: optUint64(fs, "push-msat", *push),
		AnnounceChannel:        *announce,
	})
}

func closeChannel(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("close-channel", flag.ContinueOnError)
	id := fs.String("user-channel-id", "", "Channel to close")
	counterparty := fs.String("counterparty-node-id", "", "Counterparty node id")
	force := fs.Bool("force", false, "Force-close")
	if err := parse(fs, args, "user-channel-id", "counterparty-node-id"); err != nil {
		return nil, err
	}
	return cli.CloseChannel(ctx, &message.CloseChannelRequest{
		UserChannelID:      *id,
		CounterpartyNodeID: *counterparty,
		ForceClose:         *force,
	})
}

func listChannels(ctx context.Context, cli *client.Client, args []string) (any, error) {
	fs := flag.NewFlagSet("list-channels", flag.ContinueOnError)
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return cli.ListChannels(ctx, &message.ListChannelsRequest{})
}
