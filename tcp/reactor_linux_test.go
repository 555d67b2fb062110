package tcp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jujunwang/Minidis/config"
	"github.com/jujunwang/Minidis/database"
	"github.com/jujunwang/Minidis/resp/client"
	"github.com/jujunwang/Minidis/resp/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	reactor *Reactor
	done    chan struct{}
	err     error
}

func startServer(t *testing.T, cfg *Config) *testServer {
	props := config.Default()
	dir := t.TempDir()
	props.DumpFilename = filepath.Join(dir, "minidis.dump")
	props.SnapshotFilename = filepath.Join(dir, "minidis.json")
	db, err := database.NewStandaloneDatabase(props)
	require.NoError(t, err)

	cfg.Address = "127.0.0.1:0"
	reactor, err := Listen(cfg, handler.MakeHandler(db))
	require.NoError(t, err)

	s := &testServer{reactor: reactor, done: make(chan struct{})}
	go func() {
		s.err = reactor.Serve(context.Background())
		close(s.done)
	}()
	t.Cleanup(s.stop)
	return s
}

func (s *testServer) stop() {
	s.reactor.Shutdown()
	<-s.done
}

func dial(t *testing.T, s *testServer) *client.Client {
	c, err := client.MakeClient(s.reactor.Addr())
	require.NoError(t, err)
	c.SetTimeout(5 * time.Second)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestProtocolScenario(t *testing.T) {
	s := startServer(t, &Config{})
	c := dial(t, s)

	cases := []struct {
		line string
		want string
	}{
		{"SET a 1", "OK"},
		{"GET a", "1"},
		{"LPUSHBACK lst x y z", "OK"},
		{"LGET lst 1", "y"},
		{"GET missing", "-1"},
		{"FOO", "ERR Invalid Command"},
		{"", "ERR Invalid Command"},
		{"GET", "ERR Wrong Number of Arguments"},
		{"LGET lst", "x y z"},
		{"LGET lst 3", "Index Out of Bounds"},
		{"LGET nope 0", "Invalid Key"},
		{"LGET lst one", "ERR Invalid Index"},
		{"LPOPFRONT lst", "x"},
		{"LPOPBACK lst", "z"},
		{"LPOPBACK lst", "y"},
		{"LPOPBACK lst", ""},
		{"LKEYS", "lst"},
		{"LGET lst", "Empty List"},
		{"LEMPTY lst", "TRUE"},
		{"LDEL lst", "1"},
		{"LGET lst", "-1"},
		{"KEYS", "a"},
		{"DEL a", "1"},
		{"DEL a", "0"},
		{"PING", "PONG"},
	}
	for _, tc := range cases {
		got, err := c.Send(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}
}

func TestPartialLine(t *testing.T) {
	s := startServer(t, &Config{})
	conn, err := net.Dial("tcp", s.reactor.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	_, err = conn.Write([]byte("SET a"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	_, err = conn.Write([]byte(" 1\r\nGET a\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "OK\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "1\n", line)
}

func TestPipeline(t *testing.T) {
	s := startServer(t, &Config{})
	c := dial(t, s)

	got, err := c.Pipeline([]string{"SET k v", "GET k", "DEL k", "GET k", "LPUSHFRONT l a b c", "LGET l"})
	require.NoError(t, err)
	assert.Equal(t, []string{"OK", "v", "1", "-1", "OK", "c b a"}, got)
}

func TestManyConnections(t *testing.T) {
	s := startServer(t, &Config{})
	clients := make([]*client.Client, 20)
	for i := range clients {
		clients[i] = dial(t, s)
	}
	for i, c := range clients {
		got, err := c.Send(fmt.Sprintf("SET key%d %d", i, i))
		require.NoError(t, err)
		assert.Equal(t, "OK", got)
	}
	// 所有连接看到的是同一份数据
	for i := range clients {
		got, err := clients[0].Send(fmt.Sprintf("GET key%d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i), got)
	}
}

func TestLargeResponse(t *testing.T) {
	s := startServer(t, &Config{ReadBufferSize: 512})
	c := dial(t, s)

	values := make([]string, 200000)
	for i := range values {
		values[i] = fmt.Sprintf("v%07d", i)
	}
	got, err := c.Send("LPUSHBACK big " + strings.Join(values, " "))
	require.NoError(t, err)
	require.Equal(t, "OK", got)

	got, err = c.Send("LGET big")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(values, " "), got)

	got, err = c.Send("LGET big 199999")
	require.NoError(t, err)
	assert.Equal(t, "v0199999", got)
}

func TestMaxConnect(t *testing.T) {
	s := startServer(t, &Config{MaxConnect: 1})
	first := dial(t, s)
	got, err := first.Send("PING")
	require.NoError(t, err)
	assert.Equal(t, "PONG", got)

	second := dial(t, s)
	_, err = second.Send("PING")
	assert.Error(t, err)

	got, err = first.Send("PING")
	require.NoError(t, err)
	assert.Equal(t, "PONG", got)
}

func TestClientCloseReleasesConnection(t *testing.T) {
	s := startServer(t, &Config{MaxConnect: 1})
	first := dial(t, s)
	_, err := first.Send("SET a 1")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// 旧连接释放后可以建立新连接
	assert.Eventually(t, func() bool {
		c, err := client.MakeClient(s.reactor.Addr())
		if err != nil {
			return false
		}
		defer c.Close()
		c.SetTimeout(time.Second)
		got, err := c.Send("GET a")
		return err == nil && got == "1"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestShutdown(t *testing.T) {
	s := startServer(t, &Config{})
	c := dial(t, s)
	_, err := c.Send("SET a 1")
	require.NoError(t, err)

	s.reactor.Shutdown()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
	assert.NoError(t, s.err)

	_, err = c.Send("GET a")
	assert.Error(t, err)
	_, err = net.DialTimeout("tcp", s.reactor.Addr(), time.Second)
	assert.Error(t, err)
}

func TestServeStopsWithContext(t *testing.T) {
	props := config.Default()
	db, err := database.NewStandaloneDatabase(props)
	require.NoError(t, err)
	reactor, err := Listen(&Config{Address: "127.0.0.1:0"}, handler.MakeHandler(db))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reactor.Serve(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
}

func TestListenError(t *testing.T) {
	props := config.Default()
	db, err := database.NewStandaloneDatabase(props)
	require.NoError(t, err)
	_, err = Listen(&Config{Address: "not-an-address"}, handler.MakeHandler(db))
	assert.Error(t, err)
	_, err = Listen(&Config{Address: "127.0.0.1:notaport"}, handler.MakeHandler(db))
	assert.Error(t, err)
}

func TestListenHostname(t *testing.T) {
	props := config.Default()
	db, err := database.NewStandaloneDatabase(props)
	require.NoError(t, err)
	reactor, err := Listen(&Config{Address: "localhost:0"}, handler.MakeHandler(db))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(reactor.Addr(), "127.0.0.1:"), reactor.Addr())

	c, err := client.MakeClient(reactor.Addr())
	require.NoError(t, err)
	defer c.Close()

	done := make(chan error, 1)
	go func() { done <- reactor.Serve(context.Background()) }()
	got, err := c.Send("PING")
	require.NoError(t, err)
	assert.Equal(t, "PONG", got)

	reactor.Shutdown()
	require.NoError(t, <-done)
}

func TestListenAndServeStopsOnClose(t *testing.T) {
	props := config.Default()
	db, err := database.NewStandaloneDatabase(props)
	require.NoError(t, err)
	reactor, err := Listen(&Config{Address: "127.0.0.1:0"}, handler.MakeHandler(db))
	require.NoError(t, err)

	closeChan := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- ListenAndServe(reactor, closeChan) }()
	close(closeChan)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not stop")
	}
}
