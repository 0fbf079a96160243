// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package protos carries the RecorderService contract. Messages are protobuf
// well-known types so no generated message code is needed:
//
//	StartRecording(Struct{subjectIdentifier, creationTime}) -> BoolValue
//	StopRecording(Empty) -> Value (null or metadata struct)
//	IsRecording(Empty) -> BoolValue
//	GetActiveRecording(Empty) -> Value (null or metadata struct)
//	GetSettings(Empty) -> Struct{recordingEnabled, autoRecordEnabled}
//	ListRecordings(Struct{limit}) -> ListValue of catalog entries
package protos

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const RecorderServiceName = "callrecorder.RecorderService"

const (
	RecorderService_StartRecording_FullMethodName     = "/callrecorder.RecorderService/StartRecording"
	RecorderService_StopRecording_FullMethodName      = "/callrecorder.RecorderService/StopRecording"
	RecorderService_IsRecording_FullMethodName        = "/callrecorder.RecorderService/IsRecording"
	RecorderService_GetActiveRecording_FullMethodName = "/callrecorder.RecorderService/GetActiveRecording"
	RecorderService_GetSettings_FullMethodName        = "/callrecorder.RecorderService/GetSettings"
	RecorderService_ListRecordings_FullMethodName     = "/callrecorder.RecorderService/ListRecordings"
)

// RecorderServiceClient is the client API for RecorderService.
type RecorderServiceClient interface {
	StartRecording(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	StopRecording(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Value, error)
	IsRecording(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	GetActiveRecording(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Value, error)
	GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListRecordings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type recorderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRecorderServiceClient(cc grpc.ClientConnInterface) RecorderServiceClient {
	return &recorderServiceClient{cc}
}

func (c *recorderServiceClient) StartRecording(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, RecorderService_StartRecording_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recorderServiceClient) StopRecording(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, RecorderService_StopRecording_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recorderServiceClient) IsRecording(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, RecorderService_IsRecording_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recorderServiceClient) GetActiveRecording(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, RecorderService_GetActiveRecording_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recorderServiceClient) GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RecorderService_GetSettings_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recorderServiceClient) ListRecordings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, RecorderService_ListRecordings_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RecorderServiceServer is the server API for RecorderService.
type RecorderServiceServer interface {
	StartRecording(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	StopRecording(context.Context, *emptypb.Empty) (*structpb.Value, error)
	IsRecording(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	GetActiveRecording(context.Context, *emptypb.Empty) (*structpb.Value, error)
	GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListRecordings(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

// UnimplementedRecorderServiceServer can be embedded to have forward
// compatible implementations.
type UnimplementedRecorderServiceServer struct{}

func (UnimplementedRecorderServiceServer) StartRecording(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StartRecording not implemented")
}
func (UnimplementedRecorderServiceServer) StopRecording(context.Context, *emptypb.Empty) (*structpb.Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method StopRecording not implemented")
}
func (UnimplementedRecorderServiceServer) IsRecording(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method IsRecording not implemented")
}
func (UnimplementedRecorderServiceServer) GetActiveRecording(context.Context, *emptypb.Empty) (*structpb.Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetActiveRecording not implemented")
}
func (UnimplementedRecorderServiceServer) GetSettings(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSettings not implemented")
}
func (UnimplementedRecorderServiceServer) ListRecordings(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListRecordings not implemented")
}

func RegisterRecorderServiceServer(s grpc.ServiceRegistrar, srv RecorderServiceServer) {
	s.RegisterService(&RecorderService_ServiceDesc, srv)
}

func _RecorderService_StartRecording_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecorderServiceServer).StartRecording(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecorderService_StartRecording_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecorderServiceServer).StartRecording(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _RecorderService_StopRecording_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecorderServiceServer).StopRecording(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecorderService_StopRecording_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecorderServiceServer).StopRecording(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RecorderService_IsRecording_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecorderServiceServer).IsRecording(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecorderService_IsRecording_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecorderServiceServer).IsRecording(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RecorderService_GetActiveRecording_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecorderServiceServer).GetActiveRecording(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecorderService_GetActiveRecording_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecorderServiceServer).GetActiveRecording(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RecorderService_GetSettings_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecorderServiceServer).GetSettings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecorderService_GetSettings_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecorderServiceServer).GetSettings(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _RecorderService_ListRecordings_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecorderServiceServer).ListRecordings(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecorderService_ListRecordings_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecorderServiceServer).ListRecordings(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// RecorderService_ServiceDesc is the grpc.ServiceDesc for RecorderService.
var RecorderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RecorderServiceName,
	HandlerType: (*RecorderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartRecording", Handler: _RecorderService_StartRecording_Handler},
		{MethodName: "StopRecording", Handler: _RecorderService_StopRecording_Handler},
		{MethodName: "IsRecording", Handler: _RecorderService_IsRecording_Handler},
		{MethodName: "GetActiveRecording", Handler: _RecorderService_GetActiveRecording_Handler},
		{MethodName: "GetSettings", Handler: _RecorderService_GetSettings_Handler},
		{MethodName: "ListRecordings", Handler: _RecorderService_ListRecordings_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "callrecorder/recorder.proto",
}
