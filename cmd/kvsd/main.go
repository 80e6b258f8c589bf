// Command kvsd is the network daemon: a TCP listener that dispatches
// put/get/delete lines against an engine.Engine, with a background
// scheduler driving periodic compaction.
package main

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"lsmkv/engine"
	"lsmkv/protocol"
	"lsmkv/scheduler"
)

const (
	defaultHost = "localhost"
	defaultPort = 54321
)

var (
	host               string
	port               int
	dataDir            string
	limit              int
	compactionInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "kvsd",
	Short: "Network daemon for the LSM-tree key-value store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&host, "host", defaultHost, "address to bind")
	rootCmd.Flags().IntVar(&port, "port", defaultPort, "port to bind")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "data directory")
	rootCmd.Flags().IntVar(&limit, "limit", engine.DefaultLimit, "memtable entry-count flush threshold")
	rootCmd.Flags().DurationVar(&compactionInterval, "compaction-interval", 24*time.Hour, "interval between background compaction runs; 0 disables it")
}

// connEngine serializes access to the engine across the accept loop and
// the background compaction scheduler - the engine itself assumes a
// single caller (see package engine), so any port serving more than one
// goroutine at a time against it must add its own mutual exclusion.
type connEngine struct {
	mu sync.Mutex
	e  *engine.Engine
}

func (c *connEngine) dispatch(line string, w interface{ Write([]byte) (int, error) }) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return protocol.Dispatch(line, c.e, w)
}

// Compaction satisfies scheduler.Compactor, taking the same lock a
// concurrent request would hold.
func (c *connEngine) Compaction() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.e.Compaction()
}

func run() error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	e, err := engine.Open(engine.Options{DataDir: dataDir, Limit: limit})
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	ce := &connEngine{e: e}

	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer ln.Close()
	log.Printf("kvsd listening on %s, data dir %s", addr, dataDir)

	sched := scheduler.New(ce, compactionInterval)
	sched.Start()
	defer sched.Stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("accept error: %v", err)
			continue
		}
		handleConn(conn, ce)
	}
}

// handleConn reads one line, dispatches it, and closes the connection: a
// one-shot read-then-reply per connection, no persistent session.
func handleConn(conn net.Conn, ce *connEngine) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return
	}

	if err := ce.dispatch(line, conn); err != nil {
		log.Printf("request error: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
