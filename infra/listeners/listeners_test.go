package listeners

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/getsentry/sentry-go"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/waterlog/core/instantiate"
	"github.com/kilianp07/waterlog/core/logging"
	"github.com/kilianp07/waterlog/infra/store"
)

func creator(t *testing.T) *instantiate.Creator {
	t.Helper()
	reg := instantiate.NewRegistry()
	require.NoError(t, Register(reg))
	reg.Freeze()
	return instantiate.NewCreator(reg)
}

func TestConsoleFromConfig(t *testing.T) {
	c, err := instantiate.CreateAs[*Console](creator(t), "console", map[string]string{
		"name":         "out",
		"stream":       "STDERR",
		"enabled":      "false",
		"formatterArg": "key:color,value:red",
	})
	require.NoError(t, err)
	assert.Equal(t, "out", c.Name())
	assert.False(t, c.Enabled())
	assert.Equal(t, map[string]string{"color": "red"}, c.FormatterArgs())
	assert.Same(t, os.Stderr, c.out)
}

func TestConsoleBadStream(t *testing.T) {
	_, err := creator(t).Create("console", map[string]string{"stream": "printer"})
	require.ErrorIs(t, err, instantiate.ErrConversion)
}

func TestConsoleWrite(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole("c")
	c.SetOutput(&buf)
	l := logging.New("app")
	require.NoError(t, l.AddListener(c))
	require.NoError(t, l.Write("one"))
	require.NoError(t, l.WriteLine("two"))
	assert.Equal(t, "one\ntwo\n", buf.String())
}

func TestFileListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	f, err := instantiate.CreateAs[*File](creator(t), "file", map[string]string{
		"path":       path,
		"maxSizeMB":  "5",
		"maxBackups": "2",
		"compress":   "false",
	})
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, 5, f.lj.MaxSize)
	assert.Equal(t, 2, f.lj.MaxBackups)

	require.NoError(t, f.Write("first", ""))
	require.NoError(t, f.Rotate())
	require.NoError(t, f.Write("second\n", ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
	files, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "app*.log"))
	assert.Len(t, files, 2)
}

func TestFileConstructorOrder(t *testing.T) {
	f, err := instantiate.CreateAs[*File](creator(t), "file", map[string]string{"path": "x.log"})
	require.NoError(t, err)
	assert.Equal(t, "x.log", f.Path())
	assert.Equal(t, 0, f.lj.MaxSize)
}

func TestJSONLListener(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonl")
	j, err := instantiate.CreateAs[*JSONL](creator(t), "jsonl", map[string]string{
		"path":       path,
		"maxSizeMB":  "3",
		"maxBackups": "4",
	})
	require.NoError(t, err)
	defer func() { _ = j.Close() }()
	assert.Equal(t, store.JSONLOptions{MaxSizeMB: 3, MaxBackups: 4}, j.file.Options())

	l := logging.New("app")
	require.NoError(t, l.AddListener(j))
	require.NoError(t, l.WriteTag("hello\n", "info"))

	recs, err := j.Query(context.Background(), store.Query{Log: "app"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "hello", recs[0].Message)
	assert.Equal(t, "info", recs[0].Tag)
}

func TestSQLiteListener(t *testing.T) {
	s, err := instantiate.CreateAs[*Store](creator(t), "sqlite", map[string]string{
		"path": filepath.Join(t.TempDir(), "logs.db"),
		"name": "db",
	})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	assert.Equal(t, "db", s.Name())

	l := logging.New("svc")
	require.NoError(t, l.AddListener(s))
	require.NoError(t, l.WriteTag("a", "warn"))
	require.NoError(t, l.WriteTag("b", "info"))

	recs, err := s.Query(context.Background(), store.Query{Tag: "warn"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "svc", recs[0].Log)
	assert.Equal(t, "a", recs[0].Message)
}

type dummyToken struct{ err error }

func (t *dummyToken) Wait() bool                     { return true }
func (t *dummyToken) WaitTimeout(time.Duration) bool { return true }
func (t *dummyToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *dummyToken) Error() error { return t.err }

type published struct {
	topic   string
	qos     byte
	retain  bool
	payload string
}

type mockClient struct {
	mu           sync.Mutex
	connects     int
	connectErr   error
	disconnected bool
	msgs         []published
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects++
	return &dummyToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(uint) { m.disconnected = true }
func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, published{topic, qos, retained, payload.(string)})
	return &dummyToken{}
}

func withMockMQTT(t *testing.T, m *mockClient) *[]*paho.ClientOptions {
	t.Helper()
	var got []*paho.ClientOptions
	orig := newMQTTClient
	newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
		got = append(got, opts)
		return m
	}
	t.Cleanup(func() { newMQTTClient = orig })
	return &got
}

func TestMQTTListener(t *testing.T) {
	mock := &mockClient{}
	seen := withMockMQTT(t, mock)

	m, err := instantiate.CreateAs[*MQTT](creator(t), "mqtt", map[string]string{
		"broker":         "tcp://localhost:1883",
		"topic":          "logs/app",
		"clientID":       "cli",
		"username":       "user",
		"qos":            "1",
		"retain":         "true",
		"connectTimeout": "3s",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, mock.connects)

	require.NoError(t, m.Write("one", ""))
	require.NoError(t, m.Write("two", ""))
	assert.Equal(t, 1, mock.connects)
	require.Len(t, mock.msgs, 2)
	assert.Equal(t, published{"logs/app", 1, true, "one"}, mock.msgs[0])

	require.Len(t, *seen, 1)
	opts := (*seen)[0]
	assert.Equal(t, "cli", opts.ClientID)
	assert.Equal(t, "user", opts.Username)
	assert.Equal(t, 3*time.Second, opts.ConnectTimeout)

	require.NoError(t, m.Close())
	assert.True(t, mock.disconnected)
}

func TestMQTTConnectError(t *testing.T) {
	withMockMQTT(t, &mockClient{connectErr: errors.New("refused")})
	m := NewMQTT("m", "tcp://nowhere:1883", "t")
	err := m.Write("x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestMQTTInvalidQoS(t *testing.T) {
	_, err := creator(t).Create("mqtt", map[string]string{"broker": "b", "topic": "t", "qos": "3"})
	require.ErrorIs(t, err, instantiate.ErrInstantiation)
}

type capturePoints struct {
	points []*write.Point
	err    error
}

func (c *capturePoints) WritePoint(_ context.Context, p ...*write.Point) error {
	c.points = append(c.points, p...)
	return c.err
}

func TestInfluxListener(t *testing.T) {
	i, err := instantiate.CreateAs[*Influx](creator(t), "influx", map[string]string{
		"url":         "http://localhost:8086/api/v2/write",
		"token":       "tok",
		"org":         "org",
		"bucket":      "logs",
		"measurement": "lines",
	})
	require.NoError(t, err)
	defer func() { _ = i.Close() }()
	cp := &capturePoints{}
	i.writeAPI = cp
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	i.now = func() time.Time { return at }

	l := logging.New("app")
	require.NoError(t, l.AddListener(i))
	require.NoError(t, l.WriteTag("boot\n", "info"))

	require.Len(t, cp.points, 1)
	p := cp.points[0]
	assert.Equal(t, "lines", p.Name())
	assert.Equal(t, at, p.Time())
	tags := map[string]string{}
	for _, tg := range p.TagList() {
		tags[tg.Key] = tg.Value
	}
	assert.Equal(t, map[string]string{"log": "app", "tag": "info"}, tags)
	require.Len(t, p.FieldList(), 1)
	assert.Equal(t, "boot", p.FieldList()[0].Value)

	cp.err = errors.New("unavailable")
	require.ErrorIs(t, l.Write("x"), cp.err)
}

func TestSentryListener(t *testing.T) {
	s, err := instantiate.CreateAs[*Sentry](creator(t), "sentry", map[string]string{
		"environment": "test",
		"level":       "WARNING",
	})
	require.NoError(t, err)
	assert.Equal(t, sentry.LevelWarning, s.Level)

	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	s.beforeSend = func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		return nil
	}
	l := logging.New("app")
	require.NoError(t, l.AddListener(s))
	require.NoError(t, l.WriteTag("disk full", "error"))
	require.NoError(t, l.WriteTag("slow", "custom"))
	require.NoError(t, s.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, "disk full", events[0].Message)
	assert.Equal(t, sentry.LevelError, events[0].Level)
	assert.Equal(t, "app", events[0].Tags["log"])
	assert.Equal(t, sentry.LevelWarning, events[1].Level)
	assert.Equal(t, "test", events[1].Environment)
}

func TestZerologSink(t *testing.T) {
	z, err := instantiate.CreateAs[*Zerolog](creator(t), "zerolog", map[string]string{
		"name":   "json",
		"level":  "warn",
		"fields": "service=api|region=eu",
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	z.SetOutput(&buf)

	l := logging.New("app")
	require.NoError(t, l.AddSink(z))
	require.NoError(t, l.WriteStructured("user {id} logged in", "", 7))
	require.NoError(t, l.WriteStructured("{n} failures", "error", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "warn", first["level"])
	assert.Equal(t, "user 7 logged in", first["message"])
	assert.Equal(t, "user {id} logged in", first["template"])
	assert.EqualValues(t, 7, first["id"])
	assert.Equal(t, "api", first["service"])
	assert.Equal(t, "app", first["log"])
	assert.Equal(t, "error", second["level"])
}

func TestZerologBadFields(t *testing.T) {
	_, err := creator(t).Create("zerolog", map[string]string{"fields": "novalue"})
	require.ErrorIs(t, err, instantiate.ErrInstantiation)
}
