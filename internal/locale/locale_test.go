package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/stockboard/internal/inventory"
)

func TestText(t *testing.T) {
	assert.Equal(t, "コラボグッズ販売状況", Text(HeaderTitle))
	assert.Equal(t, "更新日", Text(LastUpdated))
	assert.Equal(t, "店名", Text(StoreName))
	assert.Equal(t, "nope", Text(Key("nope")))
}

func TestStatusLabel(t *testing.T) {
	for _, st := range inventory.KnownStatuses() {
		assert.NotEmpty(t, StatusLabel(st), "status %q", st)
	}
	assert.Equal(t, "販売前", StatusLabel(inventory.PreSale))
	assert.Equal(t, "入荷待ち", StatusLabel(inventory.Status("入荷待ち")))
}
