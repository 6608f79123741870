package seal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var (
	ErrKeyServerRejected    = errors.New("key server rejected the request")
	ErrKeyServerUnavailable = errors.New("key server unavailable")
)

// ServerInfo identifies a key server and the X25519 key data keys are
// wrapped to.
type ServerInfo struct {
	ObjectID  string
	PublicKey [32]byte
}

// KeyServer is the decrypt capability: it releases a wrapped data key only
// for a valid session certificate and approval transaction.
type KeyServer interface {
	Info(ctx context.Context) (ServerInfo, error)
	FetchKey(ctx context.Context, req *pb.FetchKeyRequest) ([]byte, error)
}

// RemoteKeyServer is a KeyServer reached over gRPC.
type RemoteKeyServer struct {
	conn   *grpc.ClientConn
	client pb.KeyServiceClient

	mu   sync.Mutex
	info *ServerInfo
}

// Dial creates a client for the key server at target. The connection is
// established lazily on the first call.
func Dial(target string, opts ...grpc.DialOption) (*RemoteKeyServer, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("dial key server %s: %w", target, err)
	}
	return &RemoteKeyServer{conn: conn, client: pb.NewKeyServiceClient(conn)}, nil
}

func (r *RemoteKeyServer) Close() error {
	return r.conn.Close()
}

// Info returns the server identity, cached after the first success.
func (r *RemoteKeyServer) Info(ctx context.Context) (ServerInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info != nil {
		return *r.info, nil
	}

	resp, err := r.client.Info(ctx, &pb.InfoRequest{})
	if err != nil {
		return ServerInfo{}, mapError(err)
	}
	if len(resp.PublicKey) != 32 || resp.GetObjectId() == "" {
		return ServerInfo{}, fmt.Errorf("%w: bad info response", ErrKeyServerUnavailable)
	}
	info := ServerInfo{ObjectID: resp.GetObjectId()}
	copy(info.PublicKey[:], resp.PublicKey)
	r.info = &info
	return info, nil
}

func (r *RemoteKeyServer) FetchKey(ctx context.Context, req *pb.FetchKeyRequest) ([]byte, error) {
	resp, err := r.client.FetchKey(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.EncryptedKey, nil
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrKeyServerUnavailable, err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied, codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrKeyServerRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", ErrKeyServerUnavailable, st.Message())
	default:
		return fmt.Errorf("key server rpc: %w", err)
	}
}
