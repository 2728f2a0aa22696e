package platform

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"revealtimer/internal/core/countdown"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWakeLock struct {
	mu         sync.Mutex
	acquireErr error
	acquired   int
	released   int
	touches    int
	requests   int
	// gates holds one channel per Acquire call, in call order.
	gates []chan struct{}
}

func gatedWakeLock(calls int) *fakeWakeLock {
	lock := &fakeWakeLock{}
	for index := 0; index < calls; index++ {
		lock.gates = append(lock.gates, make(chan struct{}))
	}
	return lock
}

func (lock *fakeWakeLock) Acquire() error {
	lock.mu.Lock()
	call := lock.requests
	lock.requests++
	var gate chan struct{}
	if call < len(lock.gates) {
		gate = lock.gates[call]
	}
	lock.mu.Unlock()

	if gate != nil {
		<-gate
	}
	lock.mu.Lock()
	defer lock.mu.Unlock()
	if lock.acquireErr != nil {
		return lock.acquireErr
	}
	lock.acquired++
	return nil
}

func (lock *fakeWakeLock) Release() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	lock.released++
	return nil
}

func (lock *fakeWakeLock) Touch() error {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	lock.touches++
	return nil
}

func (lock *fakeWakeLock) outstanding() int {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.acquired - lock.released
}

func (lock *fakeWakeLock) requestCount() int {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.requests
}

func (lock *fakeWakeLock) counts() (int, int, int) {
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return lock.acquired, lock.released, lock.touches
}

func waitForTicker(t *testing.T, clock *clockwork.FakeClock, waiters int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, waiters))
}

func TestKeepAliveAcquiresAndReleases(t *testing.T) {
	lock := &fakeWakeLock{}
	keepAlive := NewKeepAlive(lock, clockwork.NewFakeClock())

	require.NoError(t, keepAlive.Activate())
	keepAlive.pending.Wait()
	assert.True(t, keepAlive.Held())
	assert.True(t, keepAlive.Active())

	require.NoError(t, keepAlive.Deactivate())
	acquired, released, _ := lock.counts()
	assert.Equal(t, 1, acquired)
	assert.Equal(t, 1, released)
	assert.False(t, keepAlive.Held())
	assert.False(t, keepAlive.Active())
}

func TestKeepAliveHeartbeat(t *testing.T) {
	lock := &fakeWakeLock{}
	clock := clockwork.NewFakeClock()
	keepAlive := NewKeepAlive(lock, clock)

	require.NoError(t, keepAlive.Activate())
	for beat := 1; beat <= 3; beat++ {
		waitForTicker(t, clock, 1)
		clock.Advance(HeartbeatInterval)
		expected := beat
		assert.Eventually(t, func() bool { return keepAlive.Heartbeats() == expected }, time.Second, time.Millisecond)
	}
	_, _, touches := lock.counts()
	assert.Equal(t, 3, touches)

	require.NoError(t, keepAlive.Deactivate())
	clock.Advance(HeartbeatInterval * 3)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 3, keepAlive.Heartbeats())
}

func TestKeepAliveReactivationKeepsOneHeartbeat(t *testing.T) {
	lock := &fakeWakeLock{}
	clock := clockwork.NewFakeClock()
	keepAlive := NewKeepAlive(lock, clock)

	require.NoError(t, keepAlive.Activate())
	require.NoError(t, keepAlive.Activate())
	require.NoError(t, keepAlive.Activate())
	keepAlive.pending.Wait()

	waitForTicker(t, clock, 1)
	clock.Advance(HeartbeatInterval)
	assert.Eventually(t, func() bool { return keepAlive.Heartbeats() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, keepAlive.Heartbeats())

	require.NoError(t, keepAlive.Deactivate())
	acquired, released, _ := lock.counts()
	assert.Equal(t, acquired, released)
}

func TestKeepAliveFailedAcquireKeepsHeartbeat(t *testing.T) {
	lock := &fakeWakeLock{acquireErr: countdown.ErrUnavailable}
	clock := clockwork.NewFakeClock()
	keepAlive := NewKeepAlive(lock, clock)

	require.NoError(t, keepAlive.Activate())
	keepAlive.pending.Wait()
	assert.False(t, keepAlive.Held())

	waitForTicker(t, clock, 1)
	clock.Advance(HeartbeatInterval)
	assert.Eventually(t, func() bool { return keepAlive.Heartbeats() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, keepAlive.Deactivate())
}

func TestKeepAliveReleasesLateAcquire(t *testing.T) {
	lock := gatedWakeLock(1)
	keepAlive := NewKeepAlive(lock, clockwork.NewFakeClock())

	require.NoError(t, keepAlive.Activate())
	require.NoError(t, keepAlive.Deactivate())
	close(lock.gates[0])
	keepAlive.pending.Wait()

	acquired, released, _ := lock.counts()
	assert.Equal(t, 1, acquired)
	assert.Equal(t, 1, released)
	assert.False(t, keepAlive.Held())
}

func TestKeepAliveOverlappingActivateRequestsOnce(t *testing.T) {
	lock := gatedWakeLock(2)
	keepAlive := NewKeepAlive(lock, clockwork.NewFakeClock())

	require.NoError(t, keepAlive.Activate())
	require.NoError(t, keepAlive.Activate())
	assert.Eventually(t, func() bool { return lock.requestCount() == 1 }, time.Second, time.Millisecond)

	close(lock.gates[0])
	keepAlive.pending.Wait()
	assert.Equal(t, 1, lock.requestCount())
	assert.True(t, keepAlive.Active())
	assert.True(t, keepAlive.Held())
	assert.Equal(t, 1, lock.outstanding())

	require.NoError(t, keepAlive.Deactivate())
	assert.False(t, keepAlive.Held())
	assert.Equal(t, 0, lock.outstanding())
}

func TestKeepAlivePauseResumeWhileAcquiring(t *testing.T) {
	lock := gatedWakeLock(2)
	keepAlive := NewKeepAlive(lock, clockwork.NewFakeClock())

	require.NoError(t, keepAlive.Activate())
	require.NoError(t, keepAlive.Deactivate())
	require.NoError(t, keepAlive.Activate())

	close(lock.gates[0])
	keepAlive.pending.Wait()
	assert.True(t, keepAlive.Held())
	assert.Equal(t, 1, lock.outstanding())

	require.NoError(t, keepAlive.Deactivate())
	assert.Equal(t, 0, lock.outstanding())

	require.NoError(t, keepAlive.Activate())
	assert.Eventually(t, func() bool { return lock.requestCount() == 2 }, time.Second, time.Millisecond)
	require.NoError(t, keepAlive.Deactivate())
	close(lock.gates[1])
	keepAlive.pending.Wait()
	assert.False(t, keepAlive.Held())
	assert.Equal(t, 0, lock.outstanding())
}

func TestKeepAliveWithoutLock(t *testing.T) {
	keepAlive := NewKeepAlive(nil, clockwork.NewFakeClock())
	require.NoError(t, keepAlive.Activate())
	assert.False(t, keepAlive.Held())
	require.NoError(t, keepAlive.Deactivate())
}

type lockedBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (buffer *lockedBuffer) Write(data []byte) (int, error) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	return buffer.buffer.Write(data)
}

func (buffer *lockedBuffer) String() string {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	return buffer.buffer.String()
}

func TestBellHapticFollowsPattern(t *testing.T) {
	out := &lockedBuffer{}
	clock := clockwork.NewFakeClock()
	haptic := NewBellHaptic(out, clock)

	require.NoError(t, haptic.Pulse(countdown.HapticPattern))

	waitForTicker(t, clock, 1)
	assert.Equal(t, "\a", out.String())
	clock.Advance(300 * time.Millisecond)
	waitForTicker(t, clock, 1)
	clock.Advance(100 * time.Millisecond)
	haptic.Wait()

	assert.Equal(t, "\a\a", out.String())
}

func TestUnsupportedHaptic(t *testing.T) {
	err := NewHaptic().Pulse(countdown.HapticPattern)
	assert.True(t, errors.Is(err, countdown.ErrUnavailable))
}

func TestSingleInstanceActivation(t *testing.T) {
	appName := "revealtimer-test-" + t.Name()
	guard, err := AcquireSingleInstance(appName)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	_, err = AcquireSingleInstance(appName)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, SignalRunningInstance(appName))
	select {
	case <-guard.Activations():
	case <-time.After(2 * time.Second):
		t.Fatal("activation not delivered")
	}
	assert.NoError(t, guard.Release())
	assert.NoError(t, guard.Release())
}
