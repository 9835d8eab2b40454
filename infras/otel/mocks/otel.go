// Package mocks provides tracing stand-ins that drop every span, for unit tests that only care
// about the code under trace.
package mocks

import (
	"context"

	"appointly/infras/otel"
)

type noopOtel struct{}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, noopScope{}
}

type noopScope struct{}

func (noopScope) End()                         {}
func (noopScope) TraceError(error)             {}
func (noopScope) TraceIfError(error)           {}
func (noopScope) AddEvent(string)              {}
func (noopScope) SetAttribute(string, any)     {}
func (noopScope) SetAttributes(map[string]any) {}

func NewOtel() otel.Otel {
	return noopOtel{}
}
