package reconcile

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
)

// Client starts and signals payment watches.
type Client struct {
	temporal  client.Client
	taskQueue string
	window    time.Duration
}

func NewClient(c client.Client, taskQueue string, window time.Duration) *Client {
	if window <= 0 {
		window = defaultWindow
	}
	return &Client{temporal: c, taskQueue: taskQueue, window: window}
}

// Watch starts a PaymentWorkflow for reference.
func (c *Client) Watch(ctx context.Context, reference string) error {
	_, err := c.temporal.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       WorkflowID(reference),
		TaskQueue:                c.taskQueue,
		WorkflowExecutionTimeout: c.window + 10*time.Minute,
	}, PaymentWorkflow, Params{Reference: reference, Window: c.window})
	return err
}

// PaymentSucceeded ends the watch for reference. A watch that already
// finished is not an error.
func (c *Client) PaymentSucceeded(ctx context.Context, reference string) error {
	err := c.temporal.SignalWorkflow(ctx, WorkflowID(reference), "", SignalPaymentSucceeded, PaymentSignal{Reference: reference})
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return nil
	}
	return err
}
