package supplier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
)

func TestSupplierValidate(t *testing.T) {
	tests := []struct {
		name     string
		supplier Supplier
		field    string
	}{
		{name: "name only", supplier: Supplier{Name: "Acme"}},
		{name: "full contact", supplier: Supplier{Name: "Acme", Email: "sales@acme.test", Phone: "+1 555 0100"}},
		{name: "blank name", supplier: Supplier{Name: "  "}, field: "name"},
		{name: "bad email", supplier: Supplier{Name: "Acme", Email: "not-an-email"}, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.supplier.Validate(context.Background())
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}
