package works

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestArtworkValidate(t *testing.T) {
	cases := []struct {
		name string
		art  Artwork
		want error
	}{
		{"fixed ok", Artwork{Title: "Dawn", SaleMode: SaleFixed, FixedPrice: price("120")}, nil},
		{"fixed without price", Artwork{Title: "Dawn", SaleMode: SaleFixed}, nil},
		{"blank title", Artwork{Title: "  ", SaleMode: SaleFixed}, ErrTitleRequired},
		{"unknown mode", Artwork{Title: "Dawn", SaleMode: "raffle"}, ErrInvalidSaleMode},
		{"negative fixed", Artwork{Title: "Dawn", SaleMode: SaleFixed, FixedPrice: price("-1")}, ErrInvalidPrice},
		{"auction ok", Artwork{Title: "Dawn", SaleMode: SaleAuction, StartingPrice: price("50")}, nil},
		{"auction zero start", Artwork{Title: "Dawn", SaleMode: SaleAuction, StartingPrice: price("0")}, ErrStartingPriceReq},
		{"auction missing start", Artwork{Title: "Dawn", SaleMode: SaleAuction}, ErrStartingPriceReq},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.art.Validate())
		})
	}
}

func TestListPrice(t *testing.T) {
	assert.True(t, Artwork{SaleMode: SaleFixed, FixedPrice: price("99.50")}.ListPrice().Equal(decimal.RequireFromString("99.5")))
	assert.True(t, Artwork{SaleMode: SaleAuction, StartingPrice: price("40")}.ListPrice().IsZero())
	assert.True(t, Artwork{SaleMode: SaleFixed}.ListPrice().IsZero())
}

func TestPurchasable(t *testing.T) {
	assert.True(t, Artwork{SaleMode: SaleFixed, FixedPrice: price("0")}.Purchasable())
	assert.False(t, Artwork{SaleMode: SaleFixed}.Purchasable())
	assert.False(t, Artwork{SaleMode: SaleAuction, StartingPrice: price("40"), FixedPrice: price("40")}.Purchasable())
}
