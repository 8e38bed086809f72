package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCustomerCancelOnlyFromPlaced(t *testing.T) {
	require.NoError(t, ValidateCustomerCancel(StatusPlaced))

	for _, status := range []Status{StatusPending, StatusOutForDelivery, StatusCancelled, StatusComplete} {
		err := ValidateCustomerCancel(status)
		require.Error(t, err, "cancel from %q must be rejected", status)

		var transitionErr InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, status, transitionErr.From)
		assert.Equal(t, StatusCancelled, transitionErr.To)
	}
}

func TestStatusForDeliveryCoupling(t *testing.T) {
	status, changed := StatusForDelivery(DeliveryDelivered)
	require.True(t, changed)
	assert.Equal(t, StatusComplete, status)

	status, changed = StatusForDelivery(DeliveryFailed)
	require.True(t, changed)
	assert.Equal(t, StatusCancelled, status)

	for _, delivery := range []DeliveryStatus{DeliveryPending, DeliveryOutForDelivery} {
		_, changed := StatusForDelivery(delivery)
		assert.False(t, changed, "%q must not alter the order status", delivery)
	}
}

func TestDeliveryStatusForAssignment(t *testing.T) {
	assert.Equal(t, DeliveryOutForDelivery, DeliveryStatusForAssignment(true))
	assert.Equal(t, DeliveryPending, DeliveryStatusForAssignment(false))
}

func TestStatusValidate(t *testing.T) {
	for _, status := range []Status{StatusPlaced, StatusPending, StatusOutForDelivery, StatusCancelled, StatusComplete} {
		assert.NoError(t, status.Validate())
	}
	assert.Error(t, Status("shipped").Validate())
	assert.Error(t, Status("").Validate())
}

func TestDeliveryStatusValidate(t *testing.T) {
	for _, delivery := range []DeliveryStatus{DeliveryPending, DeliveryOutForDelivery, DeliveryDelivered, DeliveryFailed} {
		assert.NoError(t, delivery.Validate())
	}
	assert.Error(t, DeliveryStatus("lost").Validate())
}
