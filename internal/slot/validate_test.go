package slot

import (
	"testing"
	"time"

	"github.com/craftline/wardrobe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2024-06-03 10:00.
var now = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

func TestValidateSlotAccepts(t *testing.T) {
	err := ValidateSlot("2024-06-05", domain.SlotMorning, now)
	assert.NoError(t, err)

	err = ValidateSlot("2024-06-08", domain.SlotEvening, now)
	assert.NoError(t, err)
}

func TestValidateSlotRejectsSunday(t *testing.T) {
	err := ValidateSlot("2024-06-09", domain.SlotMorning, now)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestValidateSlotRejectsShortLead(t *testing.T) {
	// Next morning, less than 24 hours out.
	err := ValidateSlot("2024-06-04", domain.SlotMorning, now)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestValidateSlotRejectsBadInput(t *testing.T) {
	assert.Error(t, ValidateSlot("not-a-date", domain.SlotMorning, now))
	assert.Error(t, ValidateSlot("2024-06-05", "midnight", now))
	assert.Error(t, ValidateSlot("", domain.SlotMorning, now))
}
