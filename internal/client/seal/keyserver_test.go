package seal

import (
	"context"
	"net"
	"testing"

	"github.com/dmitrijs2005/sealdrop/internal/logging"
	keygrpc "github.com/dmitrijs2005/sealdrop/internal/server/grpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dialBufServer(t *testing.T, srv *localServer) *RemoteKeyServer {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	gs := keygrpc.NewGRPCServer("bufnet", logging.NewDiscardLogger(), srv.svc)
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, lis) }()

	remote, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = remote.Close()
		cancel()
		<-done
	})
	return remote
}

func TestRemoteKeyServer_RoundTripOverGRPC(t *testing.T) {
	local := newLocalServer(t, "0xkey1")
	remote := dialBufServer(t, local)
	e := newTestEngine(t, remote)
	owner := newWallet(t)

	info, err := remote.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xkey1", info.ObjectID)
	assert.Equal(t, local.svc.PublicKey(), info.PublicKey)

	payload, err := e.Encrypt(context.Background(), []byte("over the wire"), owner.Address())
	require.NoError(t, err)

	got, err := decryptAs(t, e, payload, owner)
	require.NoError(t, err)
	assert.Equal(t, "over the wire", string(got))
}

func TestRemoteKeyServer_RejectionIsMapped(t *testing.T) {
	remote := dialBufServer(t, newLocalServer(t, "0xkey1"))
	e := newTestEngine(t, remote)
	owner, other := newWallet(t), newWallet(t)

	payload, err := e.Encrypt(context.Background(), []byte("x"), owner.Address())
	require.NoError(t, err)
	session := signedSession(t, e, owner)
	tx, err := e.ApprovalTx(other.Address())
	require.NoError(t, err)

	_, err = e.Decrypt(context.Background(), payload, owner.Address(), session, tx)
	require.ErrorIs(t, err, ErrKeyServerRejected)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrKeyServerRejected},
		{codes.PermissionDenied, ErrKeyServerRejected},
		{codes.InvalidArgument, ErrKeyServerRejected},
		{codes.Unavailable, ErrKeyServerUnavailable},
		{codes.DeadlineExceeded, ErrKeyServerUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.ErrorIs(t, mapError(status.Error(tt.code, "x")), tt.want)
		})
	}

	err := mapError(status.Error(codes.Internal, "x"))
	assert.NotErrorIs(t, err, ErrKeyServerRejected)
	assert.NotErrorIs(t, err, ErrKeyServerUnavailable)
}
