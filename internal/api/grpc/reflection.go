package grpcapi

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/reflection/grpc_reflection_v1alpha"
)

// reflectedServices lists the services of a server that have registered
// protobuf descriptors. The analyzer service uses the JSON codec and has
// none, so reflection does not advertise it.
type reflectedServices struct {
	provider reflection.ServiceInfoProvider
}

func (r reflectedServices) GetServiceInfo() map[string]grpc.ServiceInfo {
	out := make(map[string]grpc.ServiceInfo)
	for name, info := range r.provider.GetServiceInfo() {
		if name == ServiceName {
			continue
		}
		out[name] = info
	}
	return out
}

// RegisterReflection registers server reflection on g for every service
// except the analyzer service.
func RegisterReflection(g *grpc.Server) {
	opts := reflection.ServerOptions{Services: reflectedServices{provider: g}}
	grpc_reflection_v1.RegisterServerReflectionServer(g, reflection.NewServerV1(opts))
	grpc_reflection_v1alpha.RegisterServerReflectionServer(g, reflection.NewServer(opts))
}
