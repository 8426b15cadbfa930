package grpc

import (
	"crypto/tls"
	"crypto/x509"
	"strings"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// maxMessageSize bounds gRPC payloads. Multi-message transactions and their responses can exceed the 4MB default.
const maxMessageSize = 32 * 1024 * 1024

func GetGrpcConnection(grpcUri string) (*grpc.ClientConn, error) {
	return GetGrpcConnectionWithRegistry(grpcUri, nil)
}

// GetGrpcConnectionWithRegistry dials a node. When a registry is given, responses are decoded with the Cosmos
// proto codec so that Any values (accounts, messages) resolve against it.
func GetGrpcConnectionWithRegistry(grpcUri string, registry codectypes.InterfaceRegistry) (*grpc.ClientConn, error) {
	// Handle connections using SSL
	transportCredentials := grpc.WithTransportCredentials(insecure.NewCredentials())
	if strings.HasSuffix(grpcUri, "443") {
		// Load the root certificates for TLS. Since you don't know the server, you can use an empty pool.
		certPool := x509.NewCertPool()

		creds := credentials.NewTLS(&tls.Config{
			RootCAs:    certPool,
			MinVersion: tls.VersionTLS12,
		})
		transportCredentials = grpc.WithTransportCredentials(creds)
	}

	callOptions := []grpc.CallOption{
		grpc.MaxCallRecvMsgSize(maxMessageSize),
		grpc.MaxCallSendMsgSize(maxMessageSize),
	}
	if registry != nil {
		callOptions = append(callOptions, grpc.ForceCodec(codec.NewProtoCodec(registry).GRPCCodec()))
	}

	opts := []grpc.DialOption{
		transportCredentials,
		grpc.WithDefaultCallOptions(callOptions...),
	}

	return grpc.Dial(
		grpcUri,
		opts...,
	)
}
