// Package reconcile watches pending card payments with a Temporal workflow
// so an order whose buyer never returned from the gateway is still marked
// paid once the charge settles.
package reconcile

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// SignalPaymentSucceeded stops the watch once the payment was recorded elsewhere.
	SignalPaymentSucceeded = "payment-succeeded"

	defaultWindow    = 30 * time.Minute
	defaultPollEvery = 2 * time.Minute
)

// Outcome values.
const (
	OutcomePaid     = "paid"
	OutcomeSignaled = "signaled"
	OutcomeExpired  = "expired"
)

// Params configures one watch.
type Params struct {
	Reference string
	Window    time.Duration
	PollEvery time.Duration
}

// PaymentSignal is the payload of SignalPaymentSucceeded.
type PaymentSignal struct {
	Reference string
}

// Result reports how a watch ended.
type Result struct {
	Reference string
	Outcome   string
	Checks    int
}

// WorkflowID names the watch for reference.
func WorkflowID(reference string) string {
	return "payment-" + reference
}

// PaymentWorkflow polls the gateway for reference until the charge settles,
// a success signal arrives, or the window closes. An expired watch leaves
// the order pending.
func PaymentWorkflow(ctx workflow.Context, in Params) (Result, error) {
	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        30 * time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{errTypeUnknownOrder},
		},
	})

	window := in.Window
	if window <= 0 {
		window = defaultWindow
	}
	poll := in.PollEvery
	if poll <= 0 {
		poll = defaultPollEvery
	}
	deadline := workflow.Now(ctx).Add(window)
	sig := workflow.GetSignalChannel(ctx, SignalPaymentSucceeded)
	res := Result{Reference: in.Reference}

	for {
		remaining := deadline.Sub(workflow.Now(ctx))
		if remaining <= 0 {
			res.Outcome = OutcomeExpired
			logger.Info("Payment watch expired", "reference", in.Reference, "checks", res.Checks)
			return res, nil
		}
		wait := poll
		if wait > remaining {
			wait = remaining
		}

		timerCtx, cancelTimer := workflow.WithCancel(ctx)
		timer := workflow.NewTimer(timerCtx, wait)
		signaled := false

		selector := workflow.NewSelector(ctx)
		selector.AddReceive(sig, func(ch workflow.ReceiveChannel, more bool) {
			var payload PaymentSignal
			ch.Receive(ctx, &payload)
			signaled = true
		})
		selector.AddFuture(timer, func(f workflow.Future) {})
		selector.Select(ctx)
		cancelTimer()

		if signaled {
			res.Outcome = OutcomeSignaled
			logger.Info("Payment recorded elsewhere", "reference", in.Reference)
			return res, nil
		}

		res.Checks++
		var paid bool
		err := workflow.ExecuteActivity(ctx, "CheckPayment", in.Reference).Get(ctx, &paid)
		if err != nil {
			var appErr *temporal.ApplicationError
			if errors.As(err, &appErr) && appErr.Type() == errTypeUnknownOrder {
				return res, err
			}
			logger.Warn("Payment check failed", "reference", in.Reference, "error", err)
			continue
		}
		if paid {
			res.Outcome = OutcomePaid
			logger.Info("Payment settled", "reference", in.Reference, "checks", res.Checks)
			return res, nil
		}
	}
}
