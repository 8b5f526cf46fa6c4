package statesync

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Navot-Ram/starwards/pkg/config"
)

// Sink receives frames. Implementations are used from one goroutine.
type Sink interface {
	Write(ctx context.Context, f *Frame) error
	Close() error
}

// WriterSink streams msgpack frames back to back into an io.Writer.
type WriterSink struct {
	mu     sync.Mutex
	enc    *msgpack.Encoder
	closer io.Closer
}

// NewWriterSink writes frames to w. It closes w on Close when w is an io.Closer
// other than stdout.
func NewWriterSink(w io.Writer) *WriterSink {
	s := &WriterSink{enc: msgpack.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok && w != os.Stdout {
		s.closer = c
	}
	return s
}

// Write encodes f onto the stream.
func (s *WriterSink) Write(_ context.Context, f *Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(f); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Tick, err)
	}
	return nil
}

// Close closes the underlying writer if it owns one.
func (s *WriterSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// pointWriter is the part of the influx blocking write API the sink uses.
type pointWriter interface {
	WritePoint(ctx context.Context, point ...*influxdb2_write.Point) error
}

// InfluxSink writes one point per ship and one summary point per frame.
type InfluxSink struct {
	client influxdb2.Client
	writer pointWriter
	start  time.Time
}

// NewInfluxSink connects a blocking write API to the configured bucket.
// Frame times are offsets from the moment the sink is created.
func NewInfluxSink(cfg config.InfluxConfig) *InfluxSink {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxSink{
		client: client,
		writer: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		start:  time.Now(),
	}
}

// Write sends the frame's points.
func (s *InfluxSink) Write(ctx context.Context, f *Frame) error {
	if err := s.writer.WritePoint(ctx, Points(f, s.start)...); err != nil {
		return fmt.Errorf("influx write frame %d: %w", f.Tick, err)
	}
	return nil
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// Points converts a frame to influx points stamped start + frame seconds.
func Points(f *Frame, start time.Time) []*influxdb2_write.Point {
	at := start.Add(time.Duration(f.Seconds * float64(time.Second)))
	points := make([]*influxdb2_write.Point, 0, len(f.Ships)+1)
	points = append(points, influxdb2.NewPoint("simulation",
		map[string]string{},
		map[string]interface{}{
			"tick":    int64(f.Tick),
			"objects": len(f.Objects),
			"ships":   len(f.Ships),
		},
		at))
	for _, s := range f.Ships {
		armor := 0.0
		for _, h := range s.Plates {
			armor += h
		}
		points = append(points, influxdb2.NewPoint("ship",
			map[string]string{"ship_id": s.ID, "faction": s.Faction},
			map[string]interface{}{
				"energy":          s.Energy,
				"afterBurnerFuel": s.AfterBurnerFuel,
				"chainGunAmmo":    s.ChainGunAmmo,
				"armor":           armor,
				"broken":          len(s.Broken),
				"destroyed":       s.Destroyed,
			},
			at))
	}
	return points
}

// NewSink builds the sink named in the telemetry configuration.
func NewSink(cfg config.TelemetryConfig) (Sink, error) {
	switch cfg.Sink {
	case config.SinkWriter:
		if cfg.Path == "" {
			return NewWriterSink(os.Stdout), nil
		}
		file, err := os.Create(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create telemetry file: %w", err)
		}
		return NewWriterSink(file), nil
	case config.SinkInflux:
		return NewInfluxSink(cfg.Influx), nil
	}
	return nil, fmt.Errorf("unknown telemetry sink %q", cfg.Sink)
}
