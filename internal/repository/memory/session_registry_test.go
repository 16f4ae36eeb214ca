package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"survey-bot-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireCreatesIdleSession(t *testing.T) {
	r := NewSessionRegistry(time.Hour)

	sess, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	defer release()

	assert.Equal(t, "42", sess.ID)
	assert.Equal(t, int64(42), sess.ChatID)
	assert.Equal(t, store.StateIdle, sess.State)
}

func TestSaveRoundTripsSessionState(t *testing.T) {
	r := NewSessionRegistry(time.Hour)

	sess, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	sess.State = store.StateEvidenceCollection
	sess.Segment = "SEGMENT UTARA"
	r.Save(sess)
	release()

	again, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	defer release()
	assert.Equal(t, store.StateEvidenceCollection, again.State)
	assert.Equal(t, "SEGMENT UTARA", again.Segment)
}

func TestRemoveResetsToIdle(t *testing.T) {
	r := NewSessionRegistry(time.Hour)

	sess, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	sess.State = store.StateConfirmPending
	r.Save(sess)
	r.Remove(sess.ID)
	release()

	again, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	defer release()
	assert.Equal(t, store.StateIdle, again.State)
}

func TestAcquireIsExclusivePerSession(t *testing.T) {
	r := NewSessionRegistry(time.Hour)

	_, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err = r.Acquire(ctx, "42", 42)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// A different session is not blocked.
	_, otherRelease, err := r.Acquire(context.Background(), "43", 43)
	require.NoError(t, err)
	otherRelease()

	release()

	// The lock is free again after release.
	_, release, err = r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	release()
}

func TestConcurrentEventsSerialize(t *testing.T) {
	r := NewSessionRegistry(time.Hour)

	const workers = 16
	var wg sync.WaitGroup
	var inside, maxInside, total int
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess, release, err := r.Acquire(context.Background(), "42", 42)
			if err != nil {
				t.Error(err)
				return
			}
			defer release()

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			total++
			mu.Unlock()

			// Simulate the transition body.
			sess.EvidenceRefs = append(sess.EvidenceRefs, "ref")
			r.Save(sess)
			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "two transitions overlapped on one session")
	assert.Equal(t, workers, total)

	sess, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	defer release()
	assert.Len(t, sess.EvidenceRefs, workers)
}

func TestReleaseIsIdempotent(t *testing.T) {
	r := NewSessionRegistry(time.Hour)

	_, release, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	release()
	release() // double release must not free someone else's hold

	_, release2, err := r.Acquire(context.Background(), "42", 42)
	require.NoError(t, err)
	defer release2()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err = r.Acquire(ctx, "42", 42)
	assert.Error(t, err)
}
