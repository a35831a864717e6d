package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workorder-system/pkg/utils"
)

type statusPayload struct {
	Status   *string           `json:"status" validate:"omitempty,wo_status"`
	Priority string            `json:"priority" validate:"omitempty,wo_priority"`
	Type     string            `json:"measurementType" validate:"omitempty,measurement_type"`
	Tech     utils.NullableInt `json:"assignedTechnicianId" validate:"omitempty,gt=0"`
}

func TestValidator_Rules(t *testing.T) {
	v := New()

	t.Run("known values pass", func(t *testing.T) {
		var p statusPayload
		require.NoError(t, json.Unmarshal([]byte(`{"status":"in_progress","priority":"urgent","measurementType":"final"}`), &p))
		assert.NoError(t, v.Validate(&p))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		var p statusPayload
		require.NoError(t, json.Unmarshal([]byte(`{"status":"done"}`), &p))
		assert.Error(t, v.Validate(&p))
	})

	t.Run("unknown measurement type is rejected", func(t *testing.T) {
		var p statusPayload
		require.NoError(t, json.Unmarshal([]byte(`{"measurementType":"midway"}`), &p))
		assert.Error(t, v.Validate(&p))
	})

	t.Run("explicit null technician skips gt check", func(t *testing.T) {
		var p statusPayload
		require.NoError(t, json.Unmarshal([]byte(`{"assignedTechnicianId":null}`), &p))
		assert.True(t, p.Tech.Set)
		assert.NoError(t, v.Validate(&p))
	})

	t.Run("errors carry json field names", func(t *testing.T) {
		var p statusPayload
		require.NoError(t, json.Unmarshal([]byte(`{"priority":"asap"}`), &p))

		var errs validator.ValidationErrors
		require.ErrorAs(t, v.Validate(&p), &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "priority", errs[0].Field())
		assert.Equal(t, "wo_priority", errs[0].Tag())
	})
}
