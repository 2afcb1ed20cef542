package api

import (
	"context"
	"encoding/json"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/showmtmn-cloud/richgo/internal/ranking"
)

const (
	ServiceName   = "richgo.v1.Opportunities"
	topFullMethod = "/" + ServiceName + "/Top"
)

// OpportunitiesServer answers Top with {league, count, opportunities}.
// The request may carry "league" (string) and "limit" (number).
type OpportunitiesServer interface {
	Top(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var opportunitiesServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OpportunitiesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Top", Handler: topHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "richgo/v1/opportunities.proto",
}

func topHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OpportunitiesServer).Top(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: topFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OpportunitiesServer).Top(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCService implements OpportunitiesServer over a PassReader.
type GRPCService struct {
	Store  PassReader
	League string
}

func (g *GRPCService) Top(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	league, limit := g.League, 0
	if v, ok := req.GetFields()["league"]; ok && v.GetStringValue() != "" {
		league = v.GetStringValue()
	}
	if v, ok := req.GetFields()["limit"]; ok {
		n := v.GetNumberValue()
		if n < 0 || n != float64(int(n)) {
			return nil, status.Error(codes.InvalidArgument, "limit must be a non-negative integer")
		}
		limit = int(n)
	}
	opps, err := g.Store.TopOpportunities(ctx, league, limit)
	if err != nil {
		return nil, grpcError(err)
	}
	if opps == nil {
		opps = []ranking.Opportunity{}
	}
	out, err := toStruct(opportunitiesResp{League: league, Count: len(opps), Opportunities: opps})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// RegisterGRPC registers the opportunities service and the standard health
// service on s.
func RegisterGRPC(s *grpc.Server, svc OpportunitiesServer) *health.Server {
	s.RegisterService(&opportunitiesServiceDesc, svc)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return hs
}

// OpportunitiesClient calls the opportunities service.
type OpportunitiesClient struct {
	cc grpc.ClientConnInterface
}

func NewOpportunitiesClient(cc grpc.ClientConnInterface) *OpportunitiesClient {
	return &OpportunitiesClient{cc: cc}
}

func (c *OpportunitiesClient) Top(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, topFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func grpcError(err error) error {
	switch StatusOf(err) {
	case http.StatusBadRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	case http.StatusNotFound:
		return status.Error(codes.NotFound, err.Error())
	case http.StatusUnprocessableEntity:
		return status.Error(codes.FailedPrecondition, err.Error())
	case http.StatusServiceUnavailable:
		return status.Error(codes.Unavailable, err.Error())
	}
	if ctxErr := status.FromContextError(err); ctxErr.Code() != codes.Unknown {
		return ctxErr.Err()
	}
	return status.Error(codes.Internal, err.Error())
}
