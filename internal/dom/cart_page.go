package dom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/shopspring/decimal"
)

const emptyCartRow = `<tr><td colspan="6" class="text-center">السلة فارغة</td></tr>`

const cartRowTemplate = `<tr data-id="%[1]s">
	<td class="tp-cart-img"><a href="%[2]s"><img src="%[3]s" alt=""/></a></td>
	<td class="tp-cart-title"><a href="%[2]s">%[4]s</a></td>
	<td class="tp-cart-price"><span>%[5]s</span></td>
	<td class="tp-cart-quantity">
		<div class="tp-product-quantity mt-10 mb-10">
			<span class="tp-cart-minus"><svg width="10" height="2" viewBox="0 0 10 2" fill="none" xmlns="http://www.w3.org/2000/svg"><path d="M1 1H9" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"></path></svg></span>
			<input class="tp-cart-input" type="text" value="%[6]s" readonly=""/>
			<span class="tp-cart-plus"><svg width="10" height="10" viewBox="0 0 10 10" fill="none" xmlns="http://www.w3.org/2000/svg"><path d="M5 1V9" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"></path><path d="M1 5H9" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"></path></svg></span>
		</div>
	</td>
	<td class="tp-cart-action">
		<button class="tp-cart-action-btn remove-item-btn" data-id="%[1]s"><span>إزالة</span></button>
	</td>
</tr>`

// SyncCartTable rebuilds the cart page rows and totals.
func SyncCartTable(doc *goquery.Document, state State) {
	if doc.Find(".tp-cart-list").Length() == 0 {
		return
	}

	tbody := doc.Find(".tp-cart-list table tbody")
	tbody.Empty()
	totalEls := doc.Find(".tp-cart-checkout-top-price, .tp-cart-checkout-total span:last-child")

	if len(state.Cart) == 0 {
		tbody.AppendHtml(emptyCartRow)
		totalEls.SetText(util.FormatMoney(decimal.Zero))
		return
	}

	var rows strings.Builder
	for _, item := range state.Cart {
		rows.WriteString(cartRow(item))
	}
	tbody.AppendHtml(rows.String())
	totalEls.SetText(util.FormatMoney(state.Totals.MoneyTotal))
}

func cartRow(item model.LineItem) string {
	return fmt.Sprintf(cartRowTemplate,
		cleanText(item.ID),
		productHref(item.ID),
		cleanURL(item.Image),
		cleanText(item.Title),
		util.FormatMoney(decimal.NewFromFloat(item.Price)),
		strconv.Itoa(item.Quantity),
	)
}
