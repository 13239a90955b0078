package valueobject

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecovekt/backend/internal/domain/entity"
)

func entry(id, title string, kg float64) *entity.PendingEntry {
	return &entity.PendingEntry{
		WasteID:    entity.StringPtr(id),
		WasteTitle: title,
		AmountKg:   kg,
		SavedAt:    "2025-01-01T10:00:00.000Z",
	}
}

func TestAggregationKey(t *testing.T) {
	assert.Equal(t, "7__Plast", AggregationKey(entry("7", "Plast", 1)))
	assert.Equal(t, "no-id__Plast", AggregationKey(entry("", "Plast", 1)))
	assert.Equal(t, "no-id__Ukjent avfallstype", AggregationKey(entry("", "", 1)))
}

func TestAggregate_Scenario(t *testing.T) {
	groups := Aggregate([]*entity.PendingEntry{
		entry("", "Plast", 0.3),
		entry("", "Plast", 0.2),
		entry("", "Papir", 1.0),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "Plast", groups[0].WasteTitle)
	assert.Equal(t, 0.5, groups[0].TotalKg)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, "Papir", groups[1].WasteTitle)
	assert.Equal(t, 1.0, groups[1].TotalKg)
	assert.Equal(t, 1, groups[1].Count)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]*entity.PendingEntry{}))
}

func TestAggregate_InsertionOrder(t *testing.T) {
	groups := Aggregate([]*entity.PendingEntry{
		entry("2", "Glass", 0.1),
		entry("1", "Metall", 40),
		entry("2", "Glass", 0.1),
		entry("3", "Amatør", 3),
	})

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"2__Glass", "1__Metall", "3__Amatør"}, keys)
}

func TestAggregate_FirstImageWins(t *testing.T) {
	first := entry("1", "Plast", 1)
	first.ImageURL = entity.StringPtr("https://img/first.png")
	second := entry("1", "Plast", 1)
	second.ImageURL = entity.StringPtr("https://img/second.png")

	groups := Aggregate([]*entity.PendingEntry{first, second})

	require.Len(t, groups, 1)
	assert.Equal(t, "https://img/first.png", entity.StringValue(groups[0].ImageURL))
}

func TestAggregate_GroupingCorrectness(t *testing.T) {
	groups := Aggregate([]*entity.PendingEntry{
		entry("1", "Plast", 1),
		entry("", "Plast", 1),  // no id: different group
		entry("1", "plast", 1), // title differs by case: different group
		entry("1", "Plast", 1),
	})

	require.Len(t, groups, 3)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, 1, groups[2].Count)
}

func TestAggregate_SumAndCountProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	titles := []string{"Plast", "Papir", "Glass", "Mat", ""}
	ids := []string{"", "1", "2"}

	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		entries := make([]*entity.PendingEntry, 0, n)
		expectedSum := 0.0
		for i := 0; i < n; i++ {
			kg := float64(rng.Intn(50000)+1) / 100
			expectedSum += kg
			entries = append(entries, entry(ids[rng.Intn(len(ids))], titles[rng.Intn(len(titles))], kg))
		}

		groups := Aggregate(entries)

		sum := 0.0
		count := 0
		for _, g := range groups {
			sum += g.TotalKg
			count += g.Count
		}
		assert.InDelta(t, expectedSum, sum, 1e-6)
		assert.Equal(t, len(entries), count)

		// Pure: a second pass yields the same result.
		assert.Equal(t, groups, Aggregate(entries))
	}
}
