// Package p2p implements the libp2p-based networking layer.
package p2p

import (
	"context"
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/veilcoin/core/pkg/transaction"
)

// TransactionTopic is the gossipsub topic transactions travel on.
const TransactionTopic = "veilcoin/transactions"

// TxHandler is called for every transaction received from the network.
type TxHandler func(tx *transaction.Tx, from peer.ID)

// Config holds networking configuration.
type Config struct {
	ListenAddrs []string
}

// DefaultConfig returns default networking configuration.
func DefaultConfig() *Config {
	return &Config{
		ListenAddrs: []string{"/ip4/0.0.0.0/tcp/9944"},
	}
}

// Node is a VeilCoin P2P network node: a libp2p host plus the transaction
// gossip topic.
type Node struct {
	mu sync.Mutex

	host    host.Host
	pubsub  *pubsub.PubSub
	txTopic *pubsub.Topic
	txSub   *pubsub.Subscription

	cancel context.CancelFunc
}

// NewNode starts a libp2p host and joins the transaction topic.
func NewNode(ctx context.Context, cfg *Config) (*Node, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	h, err := libp2p.New(libp2p.ListenAddrStrings(cfg.ListenAddrs...))
	if err != nil {
		return nil, fmt.Errorf("create host: %w", err)
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("create pubsub: %w", err)
	}

	topic, err := ps.Join(TransactionTopic)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("join topic: %w", err)
	}

	return &Node{
		host:    h,
		pubsub:  ps,
		txTopic: topic,
	}, nil
}

// ID returns the node's peer ID.
func (n *Node) ID() peer.ID {
	return n.host.ID()
}

// Addrs returns the node's listen addresses.
func (n *Node) Addrs() []string {
	var out []string
	for _, a := range n.host.Addrs() {
		out = append(out, a.String())
	}
	return out
}

// Connect dials a peer by multiaddr info.
func (n *Node) Connect(ctx context.Context, info peer.AddrInfo) error {
	return n.host.Connect(ctx, info)
}

// PublishTx broadcasts a transaction to the network.
func (n *Node) PublishTx(ctx context.Context, tx *transaction.Tx) error {
	data, err := EncodeTxMessage(tx)
	if err != nil {
		return err
	}
	return n.txTopic.Publish(ctx, data)
}

// SubscribeTxs starts delivering network transactions to handler until the
// context is canceled. Messages that fail to decode are dropped.
func (n *Node) SubscribeTxs(ctx context.Context, handler TxHandler) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.txSub != nil {
		return fmt.Errorf("already subscribed")
	}
	sub, err := n.txTopic.Subscribe()
	if err != nil {
		return err
	}
	n.txSub = sub

	subCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	go func() {
		defer sub.Cancel()
		for {
			msg, err := sub.Next(subCtx)
			if err != nil {
				return
			}
			if msg.ReceivedFrom == n.host.ID() {
				continue
			}
			tx, err := DecodeTxMessage(msg.Data)
			if err != nil {
				continue
			}
			handler(tx, msg.ReceivedFrom)
		}
	}()
	return nil
}

// Close shuts the node down.
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
	}
	return n.host.Close()
}
