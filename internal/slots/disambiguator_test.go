package slots

import (
	"testing"

	"conversation_weather/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveCity(t *testing.T) {
	d := NewDisambiguator(false)

	assert.Equal(t, "Dallas", d.ResolveCity(models.HistorySlot("Austin", "Dallas")))
	assert.Equal(t, "Austin", d.ResolveCity(models.ScalarSlot("Austin")))
	assert.Equal(t, "", d.ResolveCity(models.SlotValue{}))
	assert.Equal(t, "", d.ResolveCity(models.HistorySlot()))
}

func TestResolveState(t *testing.T) {
	tests := []struct {
		name      string
		slot      models.SlotValue
		city      string
		wantValue string
		wantFound bool
	}{
		{"last mismatch wins", models.HistorySlot("Texas", "Austin"), "Austin", "Texas", true},
		{"several mismatches", models.HistorySlot("Illinois", "Springfield", "Missouri"), "Springfield", "Missouri", true},
		{"duplicate city matches", models.HistorySlot("Georgia", "Georgia"), "Georgia", "Georgia", true},
		{"single city match", models.HistorySlot("Georgia"), "Georgia", "", false},
		{"empty history", models.HistorySlot(), "Austin", "", false},
		{"scalar passes through", models.ScalarSlot("TX"), "Austin", "TX", true},
		{"absent", models.SlotValue{}, "Austin", "", false},
	}

	d := NewDisambiguator(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := d.ResolveState(tt.slot, tt.city)
			assert.Equal(t, tt.wantValue, res.Value)
			assert.Equal(t, tt.wantFound, res.Found)
			assert.Nil(t, res.Raw)
		})
	}
}

func TestResolveState_DuplicateMatchKeepsRawObject(t *testing.T) {
	second := map[string]interface{}{"value": "Georgia", "location": []interface{}{14.0, 21.0}}
	slot := models.ParseSlot([]interface{}{
		map[string]interface{}{"value": "Georgia", "location": []interface{}{0.0, 7.0}},
		second,
	})

	legacy := NewDisambiguator(false).ResolveState(slot, "Georgia")
	assert.Equal(t, "Georgia", legacy.Value)
	assert.Equal(t, second, legacy.ContextValue())

	fixed := NewDisambiguator(true).ResolveState(slot, "Georgia")
	assert.Equal(t, "Georgia", fixed.ContextValue())
}

func TestStateResolution_ContextValue(t *testing.T) {
	assert.Nil(t, StateResolution{}.ContextValue())
	assert.Equal(t, "Texas", StateResolution{Value: "Texas", Found: true}.ContextValue())
}
