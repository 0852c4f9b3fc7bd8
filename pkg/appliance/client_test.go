package appliance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rackpulse/rackpulse/pkg/config"
	"github.com/rackpulse/rackpulse/pkg/metrics"
)

// fakeAppliance speaks just enough of the wire dialect to drive the client
// through its state machine.
type fakeAppliance struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	conn    *websocket.Conn
	dials   int
	authOK  bool
	methods []recordedMethod

	pongs chan string
}

type recordedMethod struct {
	id     string
	method string
}

func newFakeAppliance(t *testing.T) *fakeAppliance {
	f := &fakeAppliance{
		t:      t,
		authOK: true,
		pongs:  make(chan string, 16),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAppliance) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *fakeAppliance) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.dials++
	f.conn = conn
	authOK := f.authOK
	f.mu.Unlock()

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}

		switch env.Msg {
		case msgConnect:
			f.send(conn, envelope{Msg: msgConnected, Session: "s-1"})

		case msgSub:
			f.send(conn, envelope{Msg: msgReady})

		case msgPong:
			select {
			case f.pongs <- env.ID:
			default:
			}

		case msgMethod:
			f.mu.Lock()
			f.methods = append(f.methods, recordedMethod{id: env.ID, method: env.Method})
			f.mu.Unlock()

			if strings.HasPrefix(env.Method, "auth.") {
				if authOK {
					f.send(conn, envelope{Msg: msgResult, ID: env.ID, Result: json.RawMessage(`true`)})
				} else {
					f.send(conn, envelope{Msg: msgResult, ID: env.ID, Error: &rpcError{Name: "EAUTH", Reason: "invalid credentials"}})
				}
				continue
			}

			switch env.Method {
			case methodSystemInfo:
				f.send(conn, envelope{Msg: msgResult, ID: env.ID,
					Result: json.RawMessage(`{"hostname":"nas01","version":"SCALE-24.04","uptime_seconds":86400}`)})
			case methodChassisQuery:
				f.send(conn, envelope{Msg: msgResult, ID: env.ID,
					Result: json.RawMessage(`{"intrusion":"inactive","power_fault":"inactive","drive_fault":"inactive","cooling_fault":"inactive"}`)})
			case methodSensorsQuery:
				f.send(conn, envelope{Msg: msgResult, ID: env.ID,
					Result: json.RawMessage(`[{"name":"CPU1 Temp","type":"Temperature","value":"51","unit":"degrees C","status":"ok"},{"name":"PSU1 Status","type":"Power Supply","value":"na","status":"Presence detected"}]`)})
			default:
				f.send(conn, envelope{Msg: msgResult, ID: env.ID, Error: &rpcError{Name: "ENOMETHOD"}})
			}
		}
	}
}

func (f *fakeAppliance) send(conn *websocket.Conn, env envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = conn.WriteJSON(env)
}

// push emits a realtime update on the current connection.
func (f *fakeAppliance) push(fields string) {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	require.NotNil(f.t, conn)
	f.send(conn, envelope{Msg: msgChanged, Collection: collectionRealtime, Fields: json.RawMessage(fields)})
}

// ping emits a liveness probe on the current connection.
func (f *fakeAppliance) ping(id string) {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	require.NotNil(f.t, conn)
	f.send(conn, envelope{Msg: msgPing, ID: id})
}

// closeConn force-closes the current connection, simulating transport loss.
func (f *fakeAppliance) closeConn() {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (f *fakeAppliance) dialCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dials
}

func (f *fakeAppliance) methodCalls(method string) []recordedMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedMethod
	for _, m := range f.methods {
		if m.method == method {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAppliance) setAuthOK(ok bool) {
	f.mu.Lock()
	f.authOK = ok
	f.mu.Unlock()
}

func testConfig(url string) *config.Config {
	return &config.Config{
		ApplianceURL:       url,
		ApplianceToken:     "1-testkey",
		ReconnectDelay:     50 * time.Millisecond,
		SensorPollInterval: 25 * time.Millisecond,
		CallTimeout:        time.Second,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestClientAuthenticatesAndSubscribes(t *testing.T) {
	f := newFakeAppliance(t)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return c.State() == StateSubscribed })

	// API-key shaped token went through the key login.
	require.NotEmpty(t, f.methodCalls(methodLoginAPIKey))
	assert.Empty(t, f.methodCalls(methodLoginPassword))

	// Canonical hostname and release resolved via the identity query.
	waitFor(t, time.Second, func() bool { return c.Status().Hostname == "nas01" })
	assert.Equal(t, "SCALE-24.04", c.Status().Version)

	// The poll sub-loop ran and the sensor fragment was derived.
	waitFor(t, time.Second, func() bool {
		frag, ok := c.Fragment()
		return ok && frag.Power != nil && len(frag.Power.Supplies) == 1
	})

	frag, ok := c.Fragment()
	require.True(t, ok)
	require.NotNil(t, frag.CPU)
	assert.Equal(t, 51.0, frag.CPU.TemperatureC)
	assert.Equal(t, metrics.SourceAppliance, frag.CPU.Origin.Temperature)
	assert.Equal(t, "nas01", frag.Meta.Hostname)
}

func TestClientPollRequestIDPrefixes(t *testing.T) {
	f := newFakeAppliance(t)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool {
		return len(f.methodCalls(methodChassisQuery)) > 0 && len(f.methodCalls(methodSensorsQuery)) > 0
	})

	for _, m := range f.methodCalls(methodChassisQuery) {
		assert.True(t, strings.HasPrefix(m.id, idPrefixChassis), "chassis query id %q", m.id)
	}
	for _, m := range f.methodCalls(methodSensorsQuery) {
		assert.True(t, strings.HasPrefix(m.id, idPrefixSensors), "sensor query id %q", m.id)
	}
}

func TestClientAppliesRealtimePush(t *testing.T) {
	f := newFakeAppliance(t)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return c.State() == StateSubscribed })

	f.push(`{"cpu":{"usage_percent":37.5,"core_loads":[30,45]},"memory":{"total":34359738368,"used":8589934592},"interfaces":{"eth0":{"link_state":"LINK_STATE_UP","speed":10000,"received_bytes_rate":1048576,"sent_bytes_rate":524288}}}`)

	waitFor(t, time.Second, func() bool {
		frag, ok := c.Fragment()
		return ok && frag.CPU != nil && frag.CPU.UtilizationPct == 37.5
	})

	frag, _ := c.Fragment()
	require.NotNil(t, frag.Memory)
	assert.Equal(t, uint64(34359738368), frag.Memory.TotalBytes)
	require.NotNil(t, frag.Network)
	require.Len(t, frag.Network.Interfaces, 1)
	assert.Equal(t, "eth0", frag.Network.Interfaces[0].Name)
	assert.True(t, frag.Network.Interfaces[0].LinkUp)
	assert.Equal(t, 1048576.0, frag.Network.Interfaces[0].RxBytesPerSec)
}

func TestClientEchoesKeepalive(t *testing.T) {
	f := newFakeAppliance(t)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return c.State() == StateSubscribed })

	f.ping("probe-42")

	select {
	case id := <-f.pongs:
		assert.Equal(t, "probe-42", id, "echo must be correlated by request id")
	case <-time.After(time.Second):
		t.Fatal("no pong received")
	}
}

func TestClientAuthFailureTerminalUntilReconnect(t *testing.T) {
	f := newFakeAppliance(t)
	f.setAuthOK(false)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	// Auth is rejected on every connection; the client must keep cycling
	// through reconnects without ever reaching authenticated.
	waitFor(t, 2*time.Second, func() bool { return f.dialCount() >= 2 })
	assert.False(t, c.State().Authenticated())

	// The failed credential form is never retried differently: only the
	// key login was attempted, and no polling ever started.
	assert.Empty(t, f.methodCalls(methodLoginPassword))
	assert.Empty(t, f.methodCalls(methodSensorsQuery))
	assert.NotEmpty(t, c.Status().LastAuthErr)
}

func TestClientReconnectsAfterTransportClose(t *testing.T) {
	f := newFakeAppliance(t)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool {
		return c.State() == StateSubscribed && len(f.methodCalls(methodSensorsQuery)) > 0
	})

	// Reject auth on the next connection so any post-close sensor query
	// can only have come from a poll loop that outlived its connection.
	f.setAuthOK(false)
	f.closeConn()

	waitFor(t, 2*time.Second, func() bool { return c.State() == StateDisconnected })
	queriesAtClose := len(f.methodCalls(methodSensorsQuery))

	// A new connection attempt begins after the fixed delay.
	dialsAtClose := f.dialCount()
	waitFor(t, 2*time.Second, func() bool { return f.dialCount() > dialsAtClose })

	// Several poll intervals later: the sub-loop stopped issuing requests
	// the moment the connection dropped.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, queriesAtClose, len(f.methodCalls(methodSensorsQuery)),
		"poll sub-loop must stop with the connection")
}

func TestClientUnconfigured(t *testing.T) {
	c := New(&config.Config{})
	assert.False(t, c.Configured())

	_, ok := c.Fragment()
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientMalformedMessagesDropped(t *testing.T) {
	f := newFakeAppliance(t)
	c := New(testConfig(f.url()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return c.State() == StateSubscribed })

	// Garbage push payload: logged and dropped, never fatal.
	f.push(`{"cpu":"not-an-object"}`)
	f.ping("still-alive")

	select {
	case id := <-f.pongs:
		assert.Equal(t, "still-alive", id)
	case <-time.After(time.Second):
		t.Fatal("client stopped processing after malformed message")
	}
}

func TestParseRelease(t *testing.T) {
	tests := []struct {
		name      string
		release   string
		wantMajor int
		wantMinor int
		ok        bool
	}{
		{"core release", "TrueNAS-13.0-U5.3", 13, 0, true},
		{"scale release", "SCALE-24.04", 24, 4, true},
		{"bare version", "25.10.1", 25, 10, true},
		{"no digits", "unknown", 0, 0, false},
		{"empty", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := parseRelease(tt.release)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.wantMajor, v.Major)
				assert.Equal(t, tt.wantMinor, v.Minor)
			}
		})
	}
}
