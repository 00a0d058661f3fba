package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type lookupInput struct {
	ID int
}

func loadByID(_ context.Context, input lookupInput) ([]int, error) {
	return []int{input.ID}, nil
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	managerMock := &mockCacheManager[string, []int]{}

	rt := NewReadThroughCache[string, []int, lookupInput](managerMock, loadByID, true)

	got, err := rt.Get(context.Background(), "key", lookupInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []int{1}, got)

	got, err = rt.GetWithRefresh(context.Background(), "key", lookupInput{ID: 2}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []int{2}, got)

	managerMock.AssertExpectations(t)
	managerMock.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestReadThroughCache_Get_Hit(t *testing.T) {
	managerMock := &mockCacheManager[string, []int]{}
	managerMock.On("Get", mock.Anything, "key").Return([]int{7}, true)

	rt := NewReadThroughCache[string, []int, lookupInput](managerMock, loadByID, false)

	got, err := rt.Get(context.Background(), "key", lookupInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []int{7}, got)
	managerMock.AssertExpectations(t)
}

func TestReadThroughCache_Get_MissStoresValue(t *testing.T) {
	managerMock := &mockCacheManager[string, []int]{}
	managerMock.On("Get", mock.Anything, "key").Return([]int(nil), false)
	managerMock.On("Set", mock.Anything, "key", []int{1}, time.Minute).Return()

	rt := NewReadThroughCache[string, []int, lookupInput](managerMock, loadByID, false)

	got, err := rt.Get(context.Background(), "key", lookupInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []int{1}, got)
	managerMock.AssertExpectations(t)
}

func TestReadThroughCache_Get_ErrorIsNotCached(t *testing.T) {
	managerMock := &mockCacheManager[string, []int]{}
	managerMock.On("Get", mock.Anything, "key").Return([]int(nil), false)

	rt := NewReadThroughCache[string, []int, lookupInput](
		managerMock,
		func(context.Context, lookupInput) ([]int, error) { return nil, errors.New("load failed") },
		false,
	)

	_, err := rt.Get(context.Background(), "key", lookupInput{ID: 1}, time.Minute)
	require.Error(t, err)
	managerMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReadThroughCache_GetWithRefresh_Hit(t *testing.T) {
	managerMock := &mockCacheManager[string, []int]{}
	managerMock.On("GetWithRefresh", mock.Anything, "key", time.Minute).Return([]int{9}, true)

	rt := NewReadThroughCache[string, []int, lookupInput](managerMock, loadByID, false)

	got, err := rt.GetWithRefresh(context.Background(), "key", lookupInput{ID: 1}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []int{9}, got)
	managerMock.AssertExpectations(t)
}

func TestReadThroughCache_GetWithRefresh_Miss(t *testing.T) {
	managerMock := &mockCacheManager[string, []int]{}
	managerMock.On("GetWithRefresh", mock.Anything, "key", time.Minute).Return([]int(nil), false)
	managerMock.On("Set", mock.Anything, "key", []int{3}, time.Minute).Return()

	rt := NewReadThroughCache[string, []int, lookupInput](managerMock, loadByID, false)

	got, err := rt.GetWithRefresh(context.Background(), "key", lookupInput{ID: 3}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, []int{3}, got)
	managerMock.AssertExpectations(t)
}
