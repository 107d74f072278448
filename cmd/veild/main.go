// VeilCoin Daemon - Main entry point for the VeilCoin node
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/veilcoin/core/internal/ledger"
	"github.com/veilcoin/core/internal/mempool"
	"github.com/veilcoin/core/internal/p2p"
	"github.com/veilcoin/core/internal/storage"
	"github.com/veilcoin/core/pkg/transaction"
)

const version = "0.1.0"

// Config holds node configuration.
type Config struct {
	// Database. An empty host runs the node with in-memory state only.
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Network
	ListenAddr string

	// Mempool
	MinFee      uint64
	MempoolSize int
}

func parseFlags() *Config {
	cfg := &Config{}
	flag.StringVar(&cfg.DBHost, "db-host", "", "PostgreSQL host (empty for in-memory state)")
	flag.IntVar(&cfg.DBPort, "db-port", 5432, "PostgreSQL port")
	flag.StringVar(&cfg.DBUser, "db-user", "veilcoin", "PostgreSQL user")
	flag.StringVar(&cfg.DBPassword, "db-password", "", "PostgreSQL password")
	flag.StringVar(&cfg.DBName, "db-name", "veilcoin", "PostgreSQL database")
	flag.StringVar(&cfg.ListenAddr, "listen", "/ip4/0.0.0.0/tcp/9944", "libp2p listen multiaddr")
	flag.Uint64Var(&cfg.MinFee, "min-fee", transaction.MinimumFee, "minimum relay fee")
	flag.IntVar(&cfg.MempoolSize, "mempool-size", 10_000, "maximum pending transactions")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	log.Printf("veild v%s starting", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var treeStore ledger.TreeStore
	if cfg.DBHost != "" {
		dbCfg := storage.DefaultConfig()
		dbCfg.Host = cfg.DBHost
		dbCfg.Port = cfg.DBPort
		dbCfg.User = cfg.DBUser
		dbCfg.Password = cfg.DBPassword
		dbCfg.Database = cfg.DBName

		store, err := storage.NewPostgresStore(ctx, dbCfg)
		if err != nil {
			log.Fatalf("connect to database: %v", err)
		}
		defer store.Close()
		if err := store.InitSchema(ctx); err != nil {
			log.Fatalf("init schema: %v", err)
		}
		treeStore = store
		log.Printf("using PostgreSQL at %s:%d", cfg.DBHost, cfg.DBPort)
	} else {
		treeStore = ledger.NewInMemoryTreeStore()
		log.Printf("using in-memory state")
	}

	tree, err := ledger.NewTree(ctx, treeStore)
	if err != nil {
		log.Fatalf("open output tree: %v", err)
	}
	log.Printf("output tree has %d outputs", tree.Size())

	pool := mempool.New(&mempool.Config{
		MaxSize: cfg.MempoolSize,
		MinFee:  cfg.MinFee,
	})

	node, err := p2p.NewNode(ctx, &p2p.Config{ListenAddrs: []string{cfg.ListenAddr}})
	if err != nil {
		log.Fatalf("start p2p node: %v", err)
	}
	defer node.Close()
	log.Printf("p2p node %s listening on %v", node.ID(), node.Addrs())

	err = node.SubscribeTxs(ctx, func(tx *transaction.Tx, from peer.ID) {
		if err := pool.Add(tx); err != nil {
			log.Printf("rejected tx %s from %s: %v", tx.Hash(), from, err)
			return
		}
		log.Printf("accepted tx %s from %s (%d pending)", tx.Hash(), from, pool.Len())
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutting down with %d pending transactions", pool.Len())
}
