package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoop_RecordsNothing(t *testing.T) {
	o := Noop()
	assert.NotPanics(t, func() {
		o.RecordSubmission(context.Background(), "success")
		o.RecordSubmissionDuration(context.Background(), 15*time.Millisecond, "success")
		o.Shutdown()
	})

	var nilObs *Observability
	assert.NotPanics(t, func() {
		nilObs.RecordSubmission(context.Background(), "success")
		nilObs.Shutdown()
	})
}
