package entity_test

import (
	"testing"

	"rental-service/internal/module/withdrawal/models/entity"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := map[entity.Status][]entity.Status{
		entity.StatusPending: {entity.StatusCompleted, entity.StatusFailed, entity.StatusRejected},
		entity.StatusFailed:  {entity.StatusPending},
	}
	all := []entity.Status{entity.StatusPending, entity.StatusCompleted, entity.StatusFailed, entity.StatusRejected}

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, a := range allowed[from] {
				if a == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}
