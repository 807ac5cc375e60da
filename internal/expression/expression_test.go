package expression

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"happy":      Happy,
		" Surprised": Surprised,
		"ANGRY":      Angry,
		"sad":        Sad,
		"disgusted":  Disgusted,
		"confused":   Neutral,
		"":           Neutral,
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestDominant(t *testing.T) {
	label, score, ok := Dominant(map[string]float64{
		"neutral":   0.1,
		"happy":     0.85,
		"surprised": 0.05,
	})
	require.True(t, ok)
	assert.Equal(t, Happy, label)
	assert.InDelta(t, 0.85, score, 1e-9)

	label, _, ok = Dominant(map[string]float64{"sad": 0.5, "angry": 0.5})
	require.True(t, ok)
	assert.Equal(t, Angry, label, "ties go to the label that sorts first")

	_, _, ok = Dominant(nil)
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{"explicit label", `{"label":"Happy"}`, Happy, false},
		{"score map", `{"expressions":{"neutral":0.2,"sad":0.7}}`, Sad, false},
		{"label wins over scores", `{"label":"angry","expressions":{"happy":1}}`, Angry, false},
		{"unknown label", `{"label":"sleepy"}`, Neutral, false},
		{"empty", `{}`, "", true},
		{"not json", `happy`, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.payload))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSamplerKeepsLatest(t *testing.T) {
	s := NewSampler(0)
	assert.Equal(t, DefaultCadence, s.Cadence())

	_, ok := s.Take()
	assert.False(t, ok)

	s.Offer(Happy)
	s.Offer(Surprised)

	label, ok := s.Take()
	require.True(t, ok)
	assert.Equal(t, Surprised, label)

	_, ok = s.Take()
	assert.False(t, ok, "a label is only released once")
}

func TestSamplerRunEmitsAtCadence(t *testing.T) {
	s := NewSampler(5 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	go s.Run(ctx, func(label string) {
		mu.Lock()
		got = append(got, label)
		mu.Unlock()
	})

	s.Offer(Sad)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{Sad}, got)
	mu.Unlock()
}

func TestServerAcceptsFrames(t *testing.T) {
	srv := NewServer(ServerConfig{Cadence: time.Hour}, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/expressions"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"expressions":{"happy":0.9,"neutral":0.1}}`)))

	require.Eventually(t, func() bool {
		return srv.Stats().Accepted == 1
	}, time.Second, 5*time.Millisecond)

	st := srv.Stats()
	assert.Equal(t, int64(1), st.Connections)
	assert.Equal(t, int64(1), st.Malformed)

	label, ok := srv.Sampler().Take()
	require.True(t, ok)
	assert.Equal(t, Happy, label)
}

func TestServeForwardsSampledLabels(t *testing.T) {
	srv := NewServer(ServerConfig{Cadence: 5 * time.Millisecond}, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	labels := make(chan string, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ctx, ln, func(label string) { labels <- label })
	}()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/expressions", nil)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"label":"surprised"}`)))

	select {
	case label := <-labels:
		assert.Equal(t, Surprised, label)
	case <-time.After(2 * time.Second):
		t.Fatal("no label forwarded")
	}

	conn.Close()
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}
