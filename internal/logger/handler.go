// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// handler renders records as "<time> <LEVEL>: <message> {attrs}". Attributes
// are delegated to an inner JSON handler so nested groups and values keep
// slog's JSON encoding.
type handler struct {
	inner       slog.Handler
	mutex       *sync.Mutex
	out         io.Writer
	buffer      *bytes.Buffer
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
}

func newHandler(out io.Writer, opts *slog.HandlerOptions) *handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	buffer := &bytes.Buffer{}
	originalReplaceAttr := opts.ReplaceAttr
	opts.ReplaceAttr = suppressDefaults(opts.ReplaceAttr)
	return &handler{
		out:         out,
		inner:       slog.NewJSONHandler(buffer, opts),
		mutex:       &sync.Mutex{},
		buffer:      buffer,
		replaceAttr: originalReplaceAttr,
	}
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{inner: h.inner.WithAttrs(attrs), out: h.out, mutex: h.mutex, buffer: h.buffer, replaceAttr: h.replaceAttr}
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{inner: h.inner.WithGroup(name), out: h.out, mutex: h.mutex, buffer: h.buffer, replaceAttr: h.replaceAttr}
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	levelAttr := slog.Attr{
		Key:   slog.LevelKey,
		Value: slog.AnyValue(r.Level),
	}
	timeAttr := slog.Attr{
		Key:   slog.TimeKey,
		Value: slog.TimeValue(r.Time),
	}
	msgAttr := slog.Attr{
		Key:   slog.MessageKey,
		Value: slog.StringValue(r.Message),
	}
	if h.replaceAttr != nil {
		levelAttr = h.replaceAttr(nil, levelAttr)
		timeAttr = h.replaceAttr(nil, timeAttr)
		msgAttr = h.replaceAttr(nil, msgAttr)
	}

	attrs, err := h.computeAttrs(ctx, r)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("error when marshaling attrs: %w", err)
	}

	builder := strings.Builder{}
	if !timeAttr.Equal(slog.Attr{}) {
		builder.WriteString(timeAttr.Value.String())
		builder.WriteString(" ")
	}
	if !levelAttr.Equal(slog.Attr{}) {
		builder.WriteString(levelAttr.Value.String())
		builder.WriteString(": ")
	}
	if !msgAttr.Equal(slog.Attr{}) {
		builder.WriteString(msgAttr.Value.String())
	}
	if len(attrs) > 0 {
		builder.WriteString(" ")
		builder.Write(encoded)
	}
	builder.WriteString("\n")

	_, err = io.WriteString(h.out, builder.String())
	return err
}

// suppressDefaults drops the time, level and message attributes before they
// reach the inner JSON handler. They are rendered by Handle instead.
func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey ||
			a.Key == slog.LevelKey ||
			a.Key == slog.MessageKey {
			return slog.Attr{}
		}
		if next == nil {
			return a
		}
		return next(groups, a)
	}
}

func (h *handler) computeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mutex.Lock()
	defer func() {
		h.buffer.Reset()
		h.mutex.Unlock()
	}()
	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any
	err := json.Unmarshal(h.buffer.Bytes(), &attrs)
	if err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}
	return attrs, nil
}
