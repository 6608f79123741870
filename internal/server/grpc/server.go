package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/sealdrop/internal/logging"
	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"google.golang.org/grpc"
)

// KeyReleaser is the policy engine behind the key service.
type KeyReleaser interface {
	ObjectID() string
	PublicKey() [32]byte
	FetchKey(ctx context.Context, req *pb.FetchKeyRequest) ([]byte, error)
}

type GRPCServer struct {
	pb.UnimplementedKeyServiceServer

	address string
	keys    KeyReleaser
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, keys KeyReleaser) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		keys:    keys,
	}
}

// newServer builds the grpc.Server with interceptors and the key service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoveryInterceptor, s.loggingInterceptor))
	pb.RegisterKeyServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on an existing listener, stopping gracefully on ctx.Done.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
