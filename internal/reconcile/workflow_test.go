package reconcile

import (
	"context"
	"testing"
	"time"

	"farmstore/internal/domain"
	"go.temporal.io/sdk/testsuite"
)

type stubReconciler struct {
	paidOn int
	calls  int
	err    error
}

func (s *stubReconciler) Reconcile(_ context.Context, reference string) (*domain.Order, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.paidOn > 0 && s.calls >= s.paidOn {
		return &domain.Order{Reference: reference, PaymentStatus: domain.PaymentCompleted}, nil
	}
	return nil, nil
}

func runWatch(t *testing.T, stub *stubReconciler, in Params, beforeRun func(*testsuite.TestWorkflowEnvironment)) (Result, error) {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterActivity(&Activities{Orders: stub})
	if beforeRun != nil {
		beforeRun(env)
	}
	env.ExecuteWorkflow(PaymentWorkflow, in)
	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		return Result{}, err
	}
	var res Result
	if err := env.GetWorkflowResult(&res); err != nil {
		t.Fatalf("result: %v", err)
	}
	return res, nil
}

func TestPaymentWorkflowSettlesOnLaterCheck(t *testing.T) {
	stub := &stubReconciler{paidOn: 2}
	res, err := runWatch(t, stub, Params{Reference: "ORDER-1-abcdef12", Window: 10 * time.Minute, PollEvery: time.Minute}, nil)
	if err != nil {
		t.Fatalf("workflow: %v", err)
	}
	if res.Outcome != OutcomePaid || res.Checks != 2 || res.Reference != "ORDER-1-abcdef12" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPaymentWorkflowStopsOnSignal(t *testing.T) {
	stub := &stubReconciler{}
	res, err := runWatch(t, stub, Params{Reference: "ORDER-2", Window: 10 * time.Minute, PollEvery: time.Minute}, func(env *testsuite.TestWorkflowEnvironment) {
		env.RegisterDelayedCallback(func() {
			env.SignalWorkflow(SignalPaymentSucceeded, PaymentSignal{Reference: "ORDER-2"})
		}, 30*time.Second)
	})
	if err != nil {
		t.Fatalf("workflow: %v", err)
	}
	if res.Outcome != OutcomeSignaled || res.Checks != 0 || stub.calls != 0 {
		t.Fatalf("unexpected result %+v calls=%d", res, stub.calls)
	}
}

func TestPaymentWorkflowExpiresLeavingOrderPending(t *testing.T) {
	stub := &stubReconciler{}
	res, err := runWatch(t, stub, Params{Reference: "ORDER-3", Window: 5 * time.Minute, PollEvery: 2 * time.Minute}, nil)
	if err != nil {
		t.Fatalf("workflow: %v", err)
	}
	if res.Outcome != OutcomeExpired || res.Checks != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPaymentWorkflowFailsForUnknownOrder(t *testing.T) {
	stub := &stubReconciler{err: domain.ErrNotFound}
	if _, err := runWatch(t, stub, Params{Reference: "ORDER-4", Window: 5 * time.Minute, PollEvery: time.Minute}, nil); err == nil {
		t.Fatalf("expected workflow error for unknown order")
	}
	if stub.calls != 1 {
		t.Fatalf("expected no retries for unknown order, got %d calls", stub.calls)
	}
}

func TestWorkflowID(t *testing.T) {
	if got := WorkflowID("ORDER-1"); got != "payment-ORDER-1" {
		t.Fatalf("unexpected workflow id %q", got)
	}
}
