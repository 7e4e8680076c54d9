package controller

import (
	"bytes"
	"strings"

	"github.com/ghain/storefront-backend/internal/app/model"
	"github.com/ghain/storefront-backend/internal/app/service"
	apperrors "github.com/ghain/storefront-backend/internal/errors"
	"github.com/ghain/storefront-backend/internal/middleware"
	"github.com/ghain/storefront-backend/pkg/util"
	"github.com/gin-gonic/gin"
)

// Success messages shown to the shopper
const (
	msgCartAdded          = "تم إضافة المنتج للسلة بنجاح!"
	msgCartAddedDetails   = "تمت إضافة المنتج إلى السلة"
	msgCartRemoved        = "تمت إزالة المنتج من السلة"
	msgCartUpdated        = "تم تحديث الكمية"
	msgCartCleared        = "تم إفراغ السلة"
	msgFavoriteAdded      = "تمت إضافة المنتج إلى المفضلة"
	msgFavoriteRemoved    = "تمت إزالة المنتج من المفضلة"
	msgFavoritesCleared   = "تم مسح القائمة المفضلة"
	msgFavoritesConfirm   = "هل أنت متأكد من مسح القائمة المفضلة؟"
	msgSelectionSaved     = "تم حفظ المنتج المحدد"
	msgInvalidInput       = "البيانات المدخلة غير صحيحة"
	msgInvalidQuantity    = "الكمية يجب أن تكون بين 1 و 9999"
	msgIdentityUnresolved = "تعذر تحديد المنتج"
)

// quantityField reads 3, "3" or "3 pcs". Anything unreadable reads as 1,
// the way a quantity input falls back when its text is not a number.
type quantityField int

func (q *quantityField) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	*q = quantityField(util.ParseQuantity(s, 1))
	return nil
}

func (q *quantityField) value(fallback int) int {
	if q == nil {
		return fallback
	}
	return int(*q)
}

// ProductActionRequest describes the clicked product card or details page.
type ProductActionRequest struct {
	ID       string         `json:"id"`      // data-id of the card or button
	Link     string         `json:"link"`    // href of the card's product link
	PageID   string         `json:"page_id"` // id parameter of the product page, honored for details actions
	Title    string         `json:"title"`
	Price    string         `json:"price"`
	Image    string         `json:"image"`
	Quantity *quantityField `json:"quantity"`
	// Source is "details" when the action comes from the product page.
	Source string `json:"source"`
}

func (r ProductActionRequest) fromDetails() bool {
	return r.Source == "details"
}

// hints passes the page id only for the details page's own buttons; cards
// elsewhere on that page name their product themselves.
func (r ProductActionRequest) hints(selection *model.SelectedProduct) service.IdentityHints {
	pageID := ""
	if r.fromDetails() {
		pageID = r.PageID
	}
	return service.IdentityHints{
		ExplicitID: r.ID,
		Link:       r.Link,
		PageID:     pageID,
		Title:      r.Title,
		Price:      r.Price,
		Selection:  selection,
	}
}

func (r ProductActionRequest) snapshot(id string) model.ProductSnapshot {
	return model.ProductSnapshot{
		ID:    id,
		Title: strings.TrimSpace(r.Title),
		Price: strings.TrimSpace(r.Price),
		Image: strings.TrimSpace(r.Image),
	}
}

// requestScope returns the visitor's storage scope, responding with an error
// when the session middleware did not run.
func requestScope(c *gin.Context) (service.Scope, bool) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Request without session", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.BadRequest(c, apperrors.SessionMissing, "الجلسة غير موجودة")
		return service.Scope{}, false
	}
	return service.Scope{Session: sessionID, Origin: middleware.GetTabID(c)}, true
}

// fillFromCatalog completes a snapshot whose card lacked title, price or
// image. Unknown products are left as they are.
func fillFromCatalog(products service.ProductService, snap model.ProductSnapshot) model.ProductSnapshot {
	if products == nil || (snap.Title != "" && snap.Price != "" && snap.Image != "") {
		return snap
	}
	product, err := products.GetProductByID(snap.ID)
	if err != nil {
		return snap
	}
	if snap.Title == "" {
		snap.Title = product.Title
	}
	if snap.Price == "" {
		snap.Price = product.Price
	}
	if snap.Image == "" {
		snap.Image = product.Image
	}
	return snap
}
