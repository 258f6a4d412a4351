package views

import (
	"encoding/json"
	"testing"

	"github.com/router-for-me/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDecimal_AcceptsNumberAndString(t *testing.T) {
	var body struct {
		A Decimal  `json:"a"`
		B Decimal  `json:"b"`
		C *Decimal `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":29.99,"b":"14.50"}`), &body))
	assert.Equal(t, "29.99", body.A.String())
	assert.Equal(t, "14.50", body.B.String())
	assert.Nil(t, body.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &body))
}

func TestProduct_WireShape(t *testing.T) {
	view := Product(models.Product{
		ID:        "p1",
		Name:      "Valorant",
		Price:     29.9,
		Features:  datatypes.JSON(`["ESP"]`),
		IsPopular: true,
	})
	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "29.90", decoded["price"])
	assert.Equal(t, true, decoded["isPopular"])
	assert.Equal(t, []any{"ESP"}, decoded["features"])
	assert.Nil(t, decoded["imageUrl"])
	assert.Contains(t, decoded, "sellAuthProductId")
}
