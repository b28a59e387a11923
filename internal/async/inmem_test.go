package async

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Law-sys/subcontractor-pre-qual/constants"
)

func TestInMemoryQueueDeliversInOrder(t *testing.T) {
	q := NewInMemoryQueue(4)
	jobs := []Job{
		{FileID: uuid.New(), DocumentType: constants.COICertificate},
		{FileID: uuid.New(), DocumentType: constants.W9Form},
	}
	for _, job := range jobs {
		if err := q.Enqueue(context.Background(), job); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	q.Shutdown(context.Background())

	var got []Job
	err := q.Subscribe(context.Background(), func(_ context.Context, job Job) error {
		got = append(got, job)
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("delivered %d jobs, want 2", len(got))
	}
	for i := range jobs {
		if got[i].FileID != jobs[i].FileID {
			t.Errorf("job %d delivered out of order", i)
		}
	}
}

func TestInMemoryQueueSubscribeHonorsContext(t *testing.T) {
	q := NewInMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := q.Subscribe(ctx, func(context.Context, Job) error { return nil })
	if err != context.DeadlineExceeded {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestInMemoryQueueEnqueueAfterCancel(t *testing.T) {
	q := NewInMemoryQueue(1)
	// fill the buffer so the next enqueue blocks on the context
	_ = q.Enqueue(context.Background(), Job{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := q.Enqueue(ctx, Job{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestInMemoryQueueShutdownIdempotent(t *testing.T) {
	q := NewInMemoryQueue(1)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // must not panic
}
