package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ghain/storefront-backend/pkg/util"
)

const orderLineTemplate = `<li class="tp-order-info-list-desc"><p>%s <span> x %d</span></p><span>%s</span></li>`

// SyncOrderSummary replaces the product lines of the checkout summary and
// rewrites its subtotal and total. Without an order the static markup stays.
func SyncOrderSummary(doc *goquery.Document, state State) {
	order := state.Order
	if order == nil {
		return
	}
	list := doc.Find(".tp-order-info-list ul").First()
	if list.Length() == 0 {
		return
	}

	list.Find(".tp-order-info-list-desc").Remove()

	var lines strings.Builder
	for _, line := range order.Lines {
		fmt.Fprintf(&lines, orderLineTemplate, cleanText(line.Title), line.Quantity, util.FormatMoney(line.Subtotal))
	}
	if header := list.Find(".tp-order-info-list-header").First(); header.Length() > 0 {
		header.AfterHtml(lines.String())
	} else {
		list.PrependHtml(lines.String())
	}

	doc.Find(".tp-order-info-list-subtotal span:last-child").SetText(util.FormatMoney(order.Subtotal))
	doc.Find(".tp-order-info-list-total span:last-child").SetText(util.FormatMoney(order.Total))
}
