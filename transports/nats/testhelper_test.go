package nats

import (
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startNATSServer starts an embedded NATS server on a random port and
// returns a connection to it. Both are shut down when the test ends.
func startNATSServer(t *testing.T) *nats.Conn {
	t.Helper()

	srv, err := server.NewServer(&server.Options{
		Host:            "127.0.0.1",
		Port:            server.RANDOM_PORT,
		NoSystemAccount: true,
		JetStream:       false,
	})
	if err != nil {
		t.Fatalf("failed creating nats server: %v", err)
	}
	go srv.Start()

	if !srv.ReadyForConnections(2 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(func() {
		srv.Shutdown()
		srv.WaitForShutdown()
	})

	conn, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("failed connecting to nats server: %v", err)
	}
	t.Cleanup(conn.Close)
	return conn
}

func newTestTransport(t *testing.T, opts ...Option) *Transport {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	tr := New(startNATSServer(t), opts...)
	t.Cleanup(func() { tr.Close() })
	return tr
}
