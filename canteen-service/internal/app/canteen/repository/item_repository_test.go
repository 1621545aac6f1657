package repository

import (
	"testing"

	"canteenscore/canteen-service/internal/app/canteen/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildItemFilter_Empty(t *testing.T) {
	where, args := buildItemFilter(entity.ItemFilter{})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildItemFilter_AllConditions(t *testing.T) {
	subLocationID := uuid.New()

	where, args := buildItemFilter(entity.ItemFilter{
		SubLocationID: &subLocationID,
		Category:      "супы",
		Search:        "50%_off",
		AvailableOnly: true,
	})

	assert.Equal(t,
		" WHERE sub_location_id = $1 AND category = $2 AND name ILIKE $3 AND is_available = TRUE",
		where)
	require.Len(t, args, 3)
	assert.Equal(t, subLocationID, args[0])
	assert.Equal(t, "супы", args[1])
	assert.Equal(t, `%50\%\_off%`, args[2])
}

func TestScopeColumn(t *testing.T) {
	tests := []struct {
		scope entity.Scope
		want  string
	}{
		{entity.ScopeItem, "r.item_id"},
		{entity.ScopeSubLocation, "i.sub_location_id"},
		{entity.ScopeSite, "sl.site_id"},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			got, err := scopeColumn(tt.scope)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := scopeColumn(entity.Scope("planet"))
	assert.Error(t, err)
}
