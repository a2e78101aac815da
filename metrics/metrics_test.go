package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPaymentIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(payments.WithLabelValues("booking", "confirmed"))
	RecordPayment("booking", "confirmed")
	assert.Equal(t, before+1, testutil.ToFloat64(payments.WithLabelValues("booking", "confirmed")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200"))
	RecordHTTPRequest("GET", "/health", 200, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200")))
}

func TestRegistryGathers(t *testing.T) {
	RecordBookingTransition("confirmed")
	families, err := Registry.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
