package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite runs the same contract checks against every local driver.
type StoreTestSuite struct {
	suite.Suite
	open  func() (Store, error)
	store Store
	ctx   context.Context
}

func (suite *StoreTestSuite) SetupTest() {
	s, err := suite.open()
	require.NoError(suite.T(), err, "failed to open store")
	suite.store = s
	suite.ctx = context.Background()
}

func (suite *StoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close(suite.ctx)
	}
}

func (suite *StoreTestSuite) TestGetMissing() {
	_, err := suite.store.Get(suite.ctx, "booking:missing")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *StoreTestSuite) TestSetGetOverwrite() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "vehicle:1", []byte(`{"status":"available"}`)))
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "vehicle:1", []byte(`{"status":"booked"}`)))

	v, err := suite.store.Get(suite.ctx, "vehicle:1")
	require.NoError(suite.T(), err)
	assert.JSONEq(suite.T(), `{"status":"booked"}`, string(v))
}

func (suite *StoreTestSuite) TestDeleteIsIdempotent() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "reminder:a", []byte(`{}`)))
	require.NoError(suite.T(), suite.store.Delete(suite.ctx, "reminder:a"))
	require.NoError(suite.T(), suite.store.Delete(suite.ctx, "reminder:a"))

	_, err := suite.store.Get(suite.ctx, "reminder:a")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *StoreTestSuite) TestGetByPrefix() {
	entries := map[string]string{
		"booking:b": `{"id":"b"}`,
		"booking:a": `{"id":"a"}`,
		"bookings":  `{"id":"not-a-booking"}`,
		"vehicle:a": `{"id":"v"}`,
		"book_x:1":  `{"id":"underscore"}`,
	}
	for k, v := range entries {
		require.NoError(suite.T(), suite.store.Set(suite.ctx, k, []byte(v)))
	}

	values, err := suite.store.GetByPrefix(suite.ctx, "booking:")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), values, 2)
	assert.JSONEq(suite.T(), `{"id":"a"}`, string(values[0]))
	assert.JSONEq(suite.T(), `{"id":"b"}`, string(values[1]))

	values, err = suite.store.GetByPrefix(suite.ctx, "book_")
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), values, 1, "underscore must match literally")

	values, err = suite.store.GetByPrefix(suite.ctx, "customer:")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), values)
}

func (suite *StoreTestSuite) TestCompareAndSet() {
	ok, err := suite.store.CompareAndSet(suite.ctx, "vehicle:1", nil, []byte(`available`))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok, "insert when absent")

	ok, err = suite.store.CompareAndSet(suite.ctx, "vehicle:1", nil, []byte(`available`))
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok, "insert when present")

	ok, err = suite.store.CompareAndSet(suite.ctx, "vehicle:1", []byte(`booked`), []byte(`rented`))
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok, "stale expected value")

	ok, err = suite.store.CompareAndSet(suite.ctx, "vehicle:1", []byte(`available`), []byte(`booked`))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	v, err := suite.store.Get(suite.ctx, "vehicle:1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "booked", string(v))
}

func (suite *StoreTestSuite) TestCompareAndSetConcurrent() {
	require.NoError(suite.T(), suite.store.Set(suite.ctx, "vehicle:1", []byte(`available`)))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := suite.store.CompareAndSet(suite.ctx, "vehicle:1", []byte(`available`), []byte(`booked`))
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(suite.T(), int32(1), wins.Load())
}

func (suite *StoreTestSuite) TestWithTransactionCommit() {
	err := suite.store.WithTransaction(suite.ctx, func(ctx context.Context) error {
		if err := suite.store.Set(ctx, "booking:1", []byte(`{}`)); err != nil {
			return err
		}
		return suite.store.Set(ctx, "reminder:1", []byte(`{}`))
	})
	require.NoError(suite.T(), err)

	_, err = suite.store.Get(suite.ctx, "reminder:1")
	assert.NoError(suite.T(), err)
}

func (suite *StoreTestSuite) TestWithTransactionReturnsFnError() {
	boom := errors.New("boom")
	err := suite.store.WithTransaction(suite.ctx, func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(suite.T(), err, boom)
}

func (suite *StoreTestSuite) TestPing() {
	assert.NoError(suite.T(), suite.store.Ping(suite.ctx))
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func() (Store, error) {
		return NewMemoryStore(), nil
	}})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreTestSuite{open: func() (Store, error) {
		return Open(context.Background(), Options{Driver: DriverSQLite, DSN: ":memory:"})
	}})
}

func TestSQLiteStore_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer s.Close(ctx)

	err = s.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Set(ctx, "booking:1", []byte(`{}`)); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	_, err = s.Get(ctx, "booking:1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "redis"})
	assert.Error(t, err)
}
