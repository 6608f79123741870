package grpc

import (
	"context"
	"errors"

	pb "github.com/dmitrijs2005/sealdrop/internal/proto"
	"github.com/dmitrijs2005/sealdrop/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Info(ctx context.Context, _ *pb.InfoRequest) (*pb.InfoResponse, error) {
	pub := s.keys.PublicKey()
	return &pb.InfoResponse{ObjectId: s.keys.ObjectID(), PublicKey: pub[:]}, nil
}

func (s *GRPCServer) FetchKey(ctx context.Context, req *pb.FetchKeyRequest) (*pb.FetchKeyResponse, error) {
	sealed, err := s.keys.FetchKey(ctx, req)
	if err != nil {
		s.logger.Warn(ctx, "key request rejected", "error", err.Error())
		return nil, mapError(err)
	}
	return &pb.FetchKeyResponse{EncryptedKey: sealed}, nil
}

// mapError turns policy errors into status codes. Messages are generic so
// nothing about the bound identity reaches the caller.
func mapError(err error) error {
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		return status.Error(codes.Unauthenticated, "session expired")
	case errors.Is(err, services.ErrInvalidCertificate):
		return status.Error(codes.Unauthenticated, "invalid session certificate")
	case errors.Is(err, services.ErrPolicyDenied):
		return status.Error(codes.PermissionDenied, "access denied by policy")
	case errors.Is(err, services.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, "invalid key request")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
