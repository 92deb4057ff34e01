/*
 * Copyright 2026 Bluekit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package serial

import (
	"context"
	"encoding/hex"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sys/unix"

	"github.com/bluekit/serialbridge/pkg/discovery"
	"github.com/bluekit/serialbridge/pkg/logger"
	"github.com/bluekit/serialbridge/pkg/models"
	"github.com/bluekit/serialbridge/pkg/sdp"
	"github.com/bluekit/serialbridge/pkg/store"
)

const (
	testSender = ":1.5"
	remoteAddr = "AA:BB:CC:DD:EE:FF"
	sppUUID    = "00001101-0000-1000-8000-00805F9B34FB"
)

// fakeDevice stands in for an open device node.
type fakeDevice struct{}

func (fakeDevice) Read(p []byte) (int, error)  { return 0, nil }
func (fakeDevice) Write(p []byte) (int, error) { return len(p), nil }
func (fakeDevice) Close() error                { return nil }

type testManager struct {
	mgr     *Manager
	sdp     *discovery.MockClient
	binder  *MockBinder
	dialer  *MockDialer
	store   *store.MockStore
	emit    *MockEmitter
	adapter discovery.Adapter
	remote  models.Address
}

func newTestManager(t *testing.T) *testManager {
	t.Helper()

	ctrl := gomock.NewController(t)

	src, err := models.ParseAddress("00:11:22:33:44:55")
	require.NoError(t, err)

	remote, err := models.ParseAddress(remoteAddr)
	require.NoError(t, err)

	tm := &testManager{
		sdp:    discovery.NewMockClient(ctrl),
		binder: NewMockBinder(ctrl),
		dialer: NewMockDialer(ctrl),
		store:  store.NewMockStore(ctrl),
		emit:   NewMockEmitter(ctrl),
		adapter: discovery.Adapter{
			ID:      "hci0",
			Path:    "/org/bluez/hci0",
			Address: src,
		},
		remote: remote,
	}

	adapters := discovery.NewMockAdapterSource(ctrl)
	adapters.EXPECT().DefaultAdapter(gomock.Any()).Return(tm.adapter, nil).AnyTimes()
	adapters.EXPECT().AdapterByID(gomock.Any(), "hci0").Return(tm.adapter, nil).AnyTimes()

	tm.mgr = NewManager(
		logger.NewTestLogger(),
		tm.sdp,
		adapters,
		tm.binder,
		tm.dialer,
		tm.store,
		tm.emit,
	)

	return tm
}

func serviceRecord(t *testing.T, channel uint8) []byte {
	t.Helper()

	record, err := sdp.ProxyRecord(sppUUID, channel)
	require.NoError(t, err)

	return record
}

func (tm *testManager) expectConnect(channel uint8, fd, devID int) string {
	path := tm.binderPath(devID)

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, channel).
		Return(fd, nil)
	tm.binder.EXPECT().
		BindSocket(fd, tm.adapter.Address, tm.remote, channel).
		Return(devID, nil)
	tm.binder.EXPECT().DevicePath(devID).Return(path)
	tm.binder.EXPECT().OpenDevice(path).Return(fakeDevice{}, nil)
	tm.binder.EXPECT().CloseSocket(fd).Return(nil)
	tm.emit.EXPECT().ServiceConnected(path)

	return path
}

func (tm *testManager) binderPath(devID int) string {
	return "/dev/rfcomm" + string(rune('0'+devID))
}

func TestConnectServiceLiteralChannel(t *testing.T) {
	tm := newTestManager(t)

	// A literal channel must never touch discovery; no expectations are
	// set on the discovery client.
	want := tm.expectConnect(5, 7, 3)

	got, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConnectServiceRecordHandle(t *testing.T) {
	tm := newTestManager(t)

	// A record-handle pattern fetches exactly one record with no handle
	// lookup round trip.
	tm.sdp.EXPECT().
		ServiceRecord(gomock.Any(), tm.adapter, tm.remote, uint32(0x10005)).
		Return(serviceRecord(t, 11), nil)

	want := tm.expectConnect(11, 8, 4)

	got, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "0x10005")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConnectServiceByName(t *testing.T) {
	tm := newTestManager(t)

	tm.sdp.EXPECT().
		ServiceHandles(gomock.Any(), tm.adapter, tm.remote, sppUUID).
		Return([]uint32{0x10001, 0x10002}, nil)
	tm.sdp.EXPECT().
		ServiceRecord(gomock.Any(), tm.adapter, tm.remote, uint32(0x10001)).
		Return(serviceRecord(t, 4), nil)

	want := tm.expectConnect(4, 9, 1)

	got, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "spp")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConnectServiceNoMatchingRecords(t *testing.T) {
	tm := newTestManager(t)

	tm.sdp.EXPECT().
		ServiceHandles(gomock.Any(), tm.adapter, tm.remote, sppUUID).
		Return(nil, nil)

	_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "spp")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestConnectServiceUnusableRecord(t *testing.T) {
	tm := newTestManager(t)

	tests := []struct {
		name   string
		record []byte
	}{
		{"empty record", nil},
		{"garbage record", []byte{0xDE, 0xAD, 0xBE, 0xEF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm.sdp.EXPECT().
				ServiceRecord(gomock.Any(), tm.adapter, tm.remote, uint32(0x10005)).
				Return(tt.record, nil)

			_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "0x10005")
			assert.ErrorIs(t, err, ErrNotSupported)
		})
	}
}

func TestConnectServiceInvalidPattern(t *testing.T) {
	tm := newTestManager(t)

	_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "no-such-service")
	assert.ErrorIs(t, err, ErrInvalidArguments)

	_, err = tm.mgr.ConnectService(context.Background(), testSender, "not-an-address", "spp")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestConnectServiceDuplicateInFlight(t *testing.T) {
	tm := newTestManager(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		DoAndReturn(func(context.Context, models.Address, models.Address, uint8) (int, error) {
			close(entered)
			<-release

			return 0, unix.ECONNREFUSED
		})

	firstErr := make(chan error, 1)

	go func() {
		_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
		firstErr <- err
	}()

	<-entered

	_, err := tm.mgr.ConnectService(context.Background(), ":1.6", remoteAddr, "5")
	assert.ErrorIs(t, err, ErrInProgress)

	close(release)

	err = <-firstErr

	var opErr *OpError

	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "connect", opErr.Op)
	assert.ErrorIs(t, err, unix.ECONNREFUSED)
}

func TestCancelBeforeDeviceBinding(t *testing.T) {
	tm := newTestManager(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		DoAndReturn(func(context.Context, models.Address, models.Address, uint8) (int, error) {
			close(entered)
			<-release

			return 7, nil
		})
	tm.binder.EXPECT().CloseSocket(7).Return(nil)

	result := make(chan error, 1)

	go func() {
		_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
		result <- err
	}()

	<-entered
	require.NoError(t, tm.mgr.CancelConnectService(testSender, remoteAddr, "5"))
	close(release)

	assert.ErrorIs(t, <-result, ErrCanceled)

	// The slot is free again once the attempt has been cleaned up.
	want := tm.expectConnect(5, 7, 3)

	got, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCancelDuringOpenRetryReleasesDevice(t *testing.T) {
	tm := newTestManager(t)

	path := tm.binderPath(3)
	opening := make(chan struct{})
	canceled := make(chan struct{})

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		Return(7, nil)
	tm.binder.EXPECT().
		BindSocket(7, tm.adapter.Address, tm.remote, uint8(5)).
		Return(3, nil)
	tm.binder.EXPECT().DevicePath(3).Return(path)
	tm.binder.EXPECT().
		OpenDevice(path).
		DoAndReturn(func(string) (io.ReadWriteCloser, error) {
			close(opening)
			<-canceled

			return nil, unix.ENODEV
		})
	tm.binder.EXPECT().CloseSocket(7).Return(nil)
	tm.binder.EXPECT().Release(3).Return(nil)

	result := make(chan error, 1)

	go func() {
		_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
		result <- err
	}()

	<-opening
	require.NoError(t, tm.mgr.CancelConnectService(testSender, remoteAddr, "5"))
	close(canceled)

	assert.ErrorIs(t, <-result, ErrCanceled)
}

func TestOpenRetrySucceedsEventually(t *testing.T) {
	tm := newTestManager(t)

	path := tm.binderPath(3)

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		Return(7, nil)
	tm.binder.EXPECT().
		BindSocket(7, tm.adapter.Address, tm.remote, uint8(5)).
		Return(3, nil)
	tm.binder.EXPECT().DevicePath(3).Return(path)

	gomock.InOrder(
		tm.binder.EXPECT().OpenDevice(path).Return(nil, unix.ENODEV).Times(2),
		tm.binder.EXPECT().OpenDevice(path).Return(fakeDevice{}, nil),
	)
	tm.binder.EXPECT().CloseSocket(7).Return(nil)
	tm.emit.EXPECT().ServiceConnected(path)

	got, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestOpenRetryExhaustedReleasesDevice(t *testing.T) {
	tm := newTestManager(t)

	path := tm.binderPath(3)

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		Return(7, nil)
	tm.binder.EXPECT().
		BindSocket(7, tm.adapter.Address, tm.remote, uint8(5)).
		Return(3, nil)
	tm.binder.EXPECT().DevicePath(3).Return(path)
	tm.binder.EXPECT().OpenDevice(path).Return(nil, unix.ENODEV).Times(5)
	tm.binder.EXPECT().CloseSocket(7).Return(nil)
	tm.binder.EXPECT().Release(3).Return(nil)

	_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")

	var opErr *OpError

	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
	assert.ErrorIs(t, err, unix.ENODEV)
}

func TestConnectServiceClosesSocketOnceBound(t *testing.T) {
	tm := newTestManager(t)
	ctx := context.Background()

	path := tm.binderPath(3)

	// Once the bound device has taken over the DLC the socket descriptor
	// is closed exactly once; disconnecting later must not touch it again.
	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		Return(7, nil)
	tm.binder.EXPECT().
		BindSocket(7, tm.adapter.Address, tm.remote, uint8(5)).
		Return(3, nil)
	tm.binder.EXPECT().DevicePath(3).Return(path)

	gomock.InOrder(
		tm.binder.EXPECT().OpenDevice(path).Return(fakeDevice{}, nil),
		tm.binder.EXPECT().CloseSocket(7).Return(nil),
	)
	tm.emit.EXPECT().ServiceConnected(path)

	got, err := tm.mgr.ConnectService(ctx, testSender, remoteAddr, "5")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	tm.binder.EXPECT().Release(3).Return(nil)
	tm.emit.EXPECT().ServiceDisconnected(path)

	require.NoError(t, tm.mgr.DisconnectService(ctx, testSender, path))
}

func TestDisconnectServiceOwnership(t *testing.T) {
	tm := newTestManager(t)
	ctx := context.Background()

	path := tm.expectConnect(5, 7, 3)

	_, err := tm.mgr.ConnectService(ctx, testSender, remoteAddr, "5")
	require.NoError(t, err)

	assert.ErrorIs(t, tm.mgr.DisconnectService(ctx, ":1.99", path), ErrNotAuthorized)
	assert.ErrorIs(t, tm.mgr.DisconnectService(ctx, testSender, "/dev/rfcomm9"), ErrDoesNotExist)

	tm.binder.EXPECT().Release(3).Return(nil)
	tm.emit.EXPECT().ServiceDisconnected(path)

	require.NoError(t, tm.mgr.DisconnectService(ctx, testSender, path))
	assert.ErrorIs(t, tm.mgr.DisconnectService(ctx, testSender, path), ErrDoesNotExist)
}

func TestOwnerExitedCancelsPendingWork(t *testing.T) {
	tm := newTestManager(t)

	entered := make(chan struct{})
	release := make(chan struct{})

	tm.binder.EXPECT().
		Connect(gomock.Any(), tm.adapter.Address, tm.remote, uint8(5)).
		DoAndReturn(func(context.Context, models.Address, models.Address, uint8) (int, error) {
			close(entered)
			<-release

			return 7, nil
		})
	tm.binder.EXPECT().CloseSocket(7).Return(nil)

	result := make(chan error, 1)

	go func() {
		_, err := tm.mgr.ConnectService(context.Background(), testSender, remoteAddr, "5")
		result <- err
	}()

	<-entered
	tm.mgr.OwnerExited(testSender)
	close(release)

	assert.ErrorIs(t, <-result, ErrCanceled)
}

func TestCreatePortLiteralChannel(t *testing.T) {
	tm := newTestManager(t)
	ctx := context.Background()

	tm.binder.EXPECT().
		BindPersistent(-1, tm.adapter.Address, tm.remote, uint8(3)).
		Return(2, nil)
	tm.store.EXPECT().
		Put(gomock.Any(), store.PortKey(tm.adapter.Address, tm.remote, 2), gomock.Any()).
		Return(nil)
	tm.emit.EXPECT().PortCreated(BasePath + "/rfcomm2")

	path, err := tm.mgr.CreatePort(ctx, testSender, remoteAddr, "3")
	require.NoError(t, err)
	assert.Equal(t, BasePath+"/rfcomm2", path)
	assert.Equal(t, []string{path}, tm.mgr.ListPorts())

	// A second port to the same remote channel is refused.
	_, err = tm.mgr.CreatePort(ctx, testSender, remoteAddr, "3")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	tm.binder.EXPECT().Release(2).Return(nil)
	tm.store.EXPECT().
		Delete(gomock.Any(), store.PortKey(tm.adapter.Address, tm.remote, 2)).
		Return(nil)
	tm.emit.EXPECT().PortRemoved(path)

	require.NoError(t, tm.mgr.RemovePort(ctx, path))
	assert.Empty(t, tm.mgr.ListPorts())

	assert.ErrorIs(t, tm.mgr.RemovePort(ctx, path), ErrDoesNotExist)
}

func TestCreateProxyValidation(t *testing.T) {
	tm := newTestManager(t)
	ctx := context.Background()

	_, err := tm.mgr.CreateProxy(ctx, "junk", "localhost:9000")
	assert.ErrorIs(t, err, ErrInvalidArguments)

	// A channel number is a valid pattern but not a proxy UUID.
	_, err = tm.mgr.CreateProxy(ctx, "5", "localhost:9000")
	assert.ErrorIs(t, err, ErrInvalidArguments)

	_, err = tm.mgr.CreateProxy(ctx, sppUUID, "/no/such/endpoint")
	assert.ErrorIs(t, err, ErrInvalidArguments)
}

func TestCreateAndRemoveProxy(t *testing.T) {
	tm := newTestManager(t)
	ctx := context.Background()

	key := store.ProxyKey(tm.adapter.Address, "localhost:9000")

	tm.store.EXPECT().Put(gomock.Any(), key, gomock.Any()).Return(nil)
	tm.emit.EXPECT().ProxyCreated(BasePath + "/proxy0")

	path, err := tm.mgr.CreateProxy(ctx, "0000110100001000800000805F9B34FB", "localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, BasePath+"/proxy0", path)
	assert.Equal(t, []string{path}, tm.mgr.ListProxies())

	proxy, err := tm.mgr.ProxyAt(path)
	require.NoError(t, err)
	assert.Equal(t, sppUUID, proxy.UUID())
	assert.Equal(t, models.LoopbackTCP, proxy.Info().Kind)

	_, err = tm.mgr.CreateProxy(ctx, sppUUID, "localhost:9000")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	tm.store.EXPECT().Delete(gomock.Any(), key).Return(nil)
	tm.emit.EXPECT().ProxyRemoved(path)

	require.NoError(t, tm.mgr.RemoveProxy(ctx, path))
	assert.Empty(t, tm.mgr.ListProxies())

	_, err = tm.mgr.ProxyAt(path)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestReplayRestoresPortsAndProxies(t *testing.T) {
	tm := newTestManager(t)
	ctx := context.Background()

	adapterPrefix := tm.adapter.Address.String() + "/"

	portKey := store.PortKey(tm.adapter.Address, tm.remote, 4)
	portValue := store.PortEntry{
		Remote:      tm.remote,
		DeviceID:    4,
		Channel:     6,
		ServiceName: "Dial-up Networking",
	}.Encode()

	proxyKey := store.ProxyKey(tm.adapter.Address, "localhost:9000")
	proxyValue := store.ProxyEntry{
		Descriptor: "localhost:9000",
		UUID:       sppUUID,
		Channel:    12,
		Name:       "Port Proxy Entity",
		Settings:   models.DefaultLineSettings(),
	}.Encode()

	tm.store.EXPECT().Keys(gomock.Any(), adapterPrefix).Return([]string{portKey, proxyKey}, nil)
	tm.store.EXPECT().Get(gomock.Any(), portKey).Return(portValue, true, nil)
	tm.store.EXPECT().Get(gomock.Any(), proxyKey).Return(proxyValue, true, nil)
	tm.binder.EXPECT().
		BindPersistent(4, tm.adapter.Address, tm.remote, uint8(6)).
		Return(4, nil)

	require.NoError(t, tm.mgr.Replay(ctx))

	assert.Equal(t, []string{BasePath + "/rfcomm4"}, tm.mgr.ListPorts())
	require.Equal(t, []string{BasePath + "/proxy0"}, tm.mgr.ListProxies())

	// Replayed proxies come back registered but disabled.
	proxy, err := tm.mgr.ProxyAt(BasePath + "/proxy0")
	require.NoError(t, err)
	assert.False(t, proxy.Info().Enabled)
}

func TestProxyKeyDescriptorRoundTrip(t *testing.T) {
	tm := newTestManager(t)

	key := store.ProxyKey(tm.adapter.Address, "localhost:9000")

	_, _, entry, err := store.SplitKey(key)
	require.NoError(t, err)

	raw, err := hex.DecodeString(entry)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", string(raw))
}
