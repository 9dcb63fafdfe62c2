/*
 * Copyright 2025 Carver Automation Corporation.
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

// Package proto contains the gRPC bindings for capture.v1.CaptureService
// (see capture.proto). The bindings are maintained by hand in the shape
// protoc-gen-go-grpc would emit: every request and response message is a
// well-known type (google.protobuf.Empty, google.protobuf.BytesValue), so
// the service needs no generated message code of its own.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	CaptureService_GetTraces_FullMethodName  = "/capture.v1.CaptureService/GetTraces"
	CaptureService_GetMetrics_FullMethodName = "/capture.v1.CaptureService/GetMetrics"
	CaptureService_GetLogs_FullMethodName    = "/capture.v1.CaptureService/GetLogs"
	CaptureService_Clear_FullMethodName      = "/capture.v1.CaptureService/Clear"
)

// CaptureServiceClient is the client API for CaptureService.
type CaptureServiceClient interface {
	GetTraces(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error)
	GetMetrics(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error)
	GetLogs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error)
	Clear(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type captureServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCaptureServiceClient(cc grpc.ClientConnInterface) CaptureServiceClient {
	return &captureServiceClient{cc}
}

func (c *captureServiceClient) GetTraces(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	return c.stream(ctx, &CaptureService_ServiceDesc.Streams[0], CaptureService_GetTraces_FullMethodName, in, opts)
}

func (c *captureServiceClient) GetMetrics(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	return c.stream(ctx, &CaptureService_ServiceDesc.Streams[1], CaptureService_GetMetrics_FullMethodName, in, opts)
}

func (c *captureServiceClient) GetLogs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	return c.stream(ctx, &CaptureService_ServiceDesc.Streams[2], CaptureService_GetLogs_FullMethodName, in, opts)
}

func (c *captureServiceClient) stream(
	ctx context.Context, desc *grpc.StreamDesc, method string, in *emptypb.Empty, opts []grpc.CallOption,
) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)

	stream, err := c.cc.NewStream(ctx, desc, method, cOpts...)
	if err != nil {
		return nil, err
	}

	x := &grpc.GenericClientStream[emptypb.Empty, wrapperspb.BytesValue]{ClientStream: stream}

	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}

func (c *captureServiceClient) Clear(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(emptypb.Empty)

	err := c.cc.Invoke(ctx, CaptureService_Clear_FullMethodName, in, out, cOpts...)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// CaptureServiceServer is the server API for CaptureService. All
// implementations must embed UnimplementedCaptureServiceServer for forward
// compatibility.
type CaptureServiceServer interface {
	GetTraces(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error
	GetMetrics(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error
	GetLogs(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error
	Clear(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	mustEmbedUnimplementedCaptureServiceServer()
}

// UnimplementedCaptureServiceServer must be embedded to have forward
// compatible implementations.
type UnimplementedCaptureServiceServer struct{}

func (UnimplementedCaptureServiceServer) GetTraces(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return status.Errorf(codes.Unimplemented, "method GetTraces not implemented")
}

func (UnimplementedCaptureServiceServer) GetMetrics(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return status.Errorf(codes.Unimplemented, "method GetMetrics not implemented")
}

func (UnimplementedCaptureServiceServer) GetLogs(*emptypb.Empty, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	return status.Errorf(codes.Unimplemented, "method GetLogs not implemented")
}

func (UnimplementedCaptureServiceServer) Clear(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Clear not implemented")
}

func (UnimplementedCaptureServiceServer) mustEmbedUnimplementedCaptureServiceServer() {}

func RegisterCaptureServiceServer(s grpc.ServiceRegistrar, srv CaptureServiceServer) {
	s.RegisterService(&CaptureService_ServiceDesc, srv)
}

func _CaptureService_GetTraces_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}

	return srv.(CaptureServiceServer).GetTraces(m, &grpc.GenericServerStream[emptypb.Empty, wrapperspb.BytesValue]{ServerStream: stream})
}

func _CaptureService_GetMetrics_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}

	return srv.(CaptureServiceServer).GetMetrics(m, &grpc.GenericServerStream[emptypb.Empty, wrapperspb.BytesValue]{ServerStream: stream})
}

func _CaptureService_GetLogs_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}

	return srv.(CaptureServiceServer).GetLogs(m, &grpc.GenericServerStream[emptypb.Empty, wrapperspb.BytesValue]{ServerStream: stream})
}

func _CaptureService_Clear_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(CaptureServiceServer).Clear(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CaptureService_Clear_FullMethodName,
	}

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CaptureServiceServer).Clear(ctx, req.(*emptypb.Empty))
	}

	return interceptor(ctx, in, info, handler)
}

// CaptureService_ServiceDesc is the grpc.ServiceDesc for CaptureService.
// The stream order is relied on by the client constructors above.
var CaptureService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "capture.v1.CaptureService",
	HandlerType: (*CaptureServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Clear",
			Handler:    _CaptureService_Clear_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "GetTraces",
			Handler:       _CaptureService_GetTraces_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "GetMetrics",
			Handler:       _CaptureService_GetMetrics_Handler,
			ServerStreams: true,
		},
		{
			StreamName:    "GetLogs",
			Handler:       _CaptureService_GetLogs_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "proto/capture.proto",
}
