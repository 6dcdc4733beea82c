package docstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurastore_back_end/internal/apperr"
	"aurastore_back_end/internal/docstore"
)

func TestSetGetDelete(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "c", "id1", []byte(`{"v":1}`)))

	doc, err := m.Get(ctx, "c", "id1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(doc))

	require.NoError(t, m.Delete(ctx, "c", "id1"))

	_, err = m.Get(ctx, "c", "id1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	m := docstore.NewMemory()
	_, err := m.Get(context.Background(), "c", "absent")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	m := docstore.NewMemory()
	assert.NoError(t, m.Delete(context.Background(), "c", "absent"))
}

func TestUpdateCreatesWhenMissing(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	err := m.Update(ctx, "c", "id1", func(current []byte) ([]byte, error) {
		assert.Nil(t, current, "document absent → current nil")
		return []byte(`{"v":1}`), nil
	})
	require.NoError(t, err)

	doc, err := m.Get(ctx, "c", "id1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(doc))
}

func TestUpdateNilDeletes(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "c", "id1", []byte(`{"v":1}`)))
	require.NoError(t, m.Update(ctx, "c", "id1", func([]byte) ([]byte, error) {
		return nil, nil
	}))

	_, err := m.Get(ctx, "c", "id1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateMutateErrorLeavesDocument(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "c", "id1", []byte(`{"v":1}`)))

	boom := errors.New("refusé")
	err := m.Update(ctx, "c", "id1", func([]byte) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	doc, err := m.Get(ctx, "c", "id1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(doc))
}

func TestQueryReturnsCollection(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "c", "id1", []byte(`1`)))
	require.NoError(t, m.Set(ctx, "c", "id2", []byte(`2`)))
	require.NoError(t, m.Set(ctx, "autre", "id3", []byte(`3`)))

	docs, err := m.Query(ctx, "c")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Contains(t, docs, "id1")
	assert.Contains(t, docs, "id2")
}

func TestSubscribeReceivesNotifications(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	sub, err := m.Subscribe(ctx, "c")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, m.Set(ctx, "c", "id1", []byte(`1`)))

	select {
	case ev := <-sub.Events():
		assert.Equal(t, "c", ev.Collection)
		assert.NoError(t, ev.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("aucune notification reçue")
	}
}

func TestSubscribeIgnoresOtherCollections(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	sub, err := m.Subscribe(ctx, "c")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, m.Set(ctx, "autre", "id1", []byte(`1`)))

	select {
	case ev := <-sub.Events():
		t.Fatalf("notification inattendue: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEmitListenerError(t *testing.T) {
	m := docstore.NewMemory()

	sub, err := m.Subscribe(context.Background(), "c")
	require.NoError(t, err)
	defer sub.Close()

	boom := errors.New("connexion perdue")
	m.EmitListenerError("c", boom)

	select {
	case ev := <-sub.Events():
		assert.ErrorIs(t, ev.Err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("erreur listener non délivrée")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	m := docstore.NewMemory()

	sub, err := m.Subscribe(context.Background(), "c")
	require.NoError(t, err)

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())

	// Une notification après Close ne doit pas paniquer.
	assert.NoError(t, m.Set(context.Background(), "c", "id1", []byte(`1`)))
}

func TestBatchCommitAppliesAll(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "c", "vieux", []byte(`1`)))

	b := m.Batch()
	b.Set("c", "nouveau", []byte(`2`))
	b.Delete("c", "vieux")
	require.NoError(t, b.Commit(ctx))

	_, err := m.Get(ctx, "c", "vieux")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	doc, err := m.Get(ctx, "c", "nouveau")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), doc)
}

func TestFailNextOpSimulatesOutage(t *testing.T) {
	m := docstore.NewMemory()
	ctx := context.Background()

	m.FailNextOp = "panne réseau"
	_, err := m.Query(ctx, "c")
	require.Error(t, err)
	assert.True(t, apperr.IsRemote(err), "la panne doit être une RemoteError")

	// L'opération suivante repasse.
	_, err = m.Query(ctx, "c")
	assert.NoError(t, err)
}
