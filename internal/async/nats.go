package async

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const workerGroup = "analyzers"

// NATSQueue delivers analysis jobs over a NATS subject with a worker queue
// group so each job reaches exactly one worker.
type NATSQueue struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NATSOptions tune the connection; zero values get sane defaults.
type NATSOptions struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
}

// NewNATSQueue connects to url and publishes/consumes on subject.
func NewNATSQueue(url, subject string, opts NATSOptions, logger *slog.Logger) (*NATSQueue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := opts.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := opts.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("subcontractor-pre-qual"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSQueue{conn: conn, subject: subject, logger: logger}, nil
}

func (q *NATSQueue) Enqueue(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.conn.Publish(q.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	q.logger.Info("job enqueued", "file_id", job.FileID, "subject", q.subject)
	return nil
}

func (q *NATSQueue) Subscribe(ctx context.Context, handler func(context.Context, Job) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, workerGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		var job Job
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			q.logger.Error("discarding malformed job", "error", err)
			return
		}
		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, job); err != nil {
			q.logger.Error("worker handler error", "file_id", job.FileID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func (q *NATSQueue) Shutdown(ctx context.Context) {
	if q.conn == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		q.conn.Close()
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
