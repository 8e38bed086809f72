package shipments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackFabricatesHandle(t *testing.T) {
	stub := NewStub("")

	tracking := stub.Track("abc123")

	assert.Equal(t, "abc123", tracking.OrderID)
	assert.True(t, strings.HasPrefix(tracking.TrackingID, "GRA-EXPRESS-"))
	assert.Equal(t, "in transit", tracking.Status)
	assert.False(t, tracking.EstimatedDelivery.IsZero())
}

func TestTrackHandlesAreUnique(t *testing.T) {
	stub := NewStub("TESTSHIP")

	first := stub.Track("o1")
	second := stub.Track("o1")

	assert.NotEqual(t, first.TrackingID, second.TrackingID)
}
