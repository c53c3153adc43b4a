package lcdd

import (
	"context"
	"testing"
	"time"

	"github.com/lcdd/lcdd/internal/lcdd/client"
	"github.com/lcdd/lcdd/internal/lcdd/config"
	"github.com/lcdd/lcdd/internal/lcdd/proto"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ListenAddr: "127.0.0.1:0",
		AllowList:  []string{"127.0.0.1"},
		StatusAddr: "127.0.0.1:0",
		DriverName: "text",
		DataDir:    t.TempDir(),
		ExtraKeys:  []string{"F1"},
	}
}

func TestNew_InstallsNavigationAndExtraKeyReservations(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig(t))
	require.NoError(t, err)

	for _, key := range proto.NavigationKeys {
		assert.True(t, s.in.Reserved(key), "navigation key %q should be server-reserved", key)
	}
	assert.True(t, s.in.Reserved("F1"), "configured extra key should be server-reserved")
	assert.False(t, s.in.Reserved("Never"), "arbitrary key should not be reserved")
}

func TestNew_BuildsStatusAPI(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, s.StatusAPI())
	assert.Equal(t, "LCDd Core Server", s.Name())
}

func TestRunFrame_SelectsAndRendersHeadScreen(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig(t))
	require.NoError(t, err)

	scr := screen.New("s1", 0, 20, 4)
	s.sched.Add(scr)

	s.runFrame(time.Now())

	assert.Equal(t, uint32(1), s.sched.Frame())
	assert.Same(t, scr, s.sched.Current())
}

func TestRunFrame_RecordsSwitchOnFirstSelection(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig(t))
	require.NoError(t, err)

	scr := screen.New("s1", 0, 20, 4)
	s.sched.Add(scr)

	s.runFrame(time.Now())

	events, err := s.metrics.RecentSwitchEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "s1", events[0].ToScreen)
	assert.Empty(t, events[0].FromScreen)
}

func TestDropClient_RemovesClientFromServer(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig(t))
	require.NoError(t, err)

	sink := &fakeSink{}
	c := client.New(42, "corr-42", sink)
	s.proto.AddClient(c)

	_, ok := s.proto.Client(42)
	require.True(t, ok)

	s.dropClient(c)

	_, ok = s.proto.Client(42)
	assert.False(t, ok)
}

func TestAllowed_ChecksConfiguredAllowList(t *testing.T) {
	t.Parallel()

	s, err := New(testConfig(t))
	require.NoError(t, err)

	assert.True(t, s.allowed(fakeAddr{"127.0.0.1:5000"}))
	assert.False(t, s.allowed(fakeAddr{"10.0.0.5:5000"}))
}

type fakeSink struct{ lines []string }

func (f *fakeSink) Write(line string) { f.lines = append(f.lines, line) }

type fakeAddr struct{ addr string }

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return a.addr }
