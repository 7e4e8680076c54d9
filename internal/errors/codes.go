package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront scripts map these codes to messages.

const (
	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput    = "VALIDATION_INVALID_INPUT"    // malformed body or query
	ValidationInvalidQuantity = "VALIDATION_INVALID_QUANTITY" // quantity below 1
	ValidationRequired        = "VALIDATION_REQUIRED"         // missing required field
	ValidationConfirmRequired = "VALIDATION_CONFIRM_REQUIRED" // destructive action without confirmation

	// ==================== Identity (IDENTITY_) ====================
	IdentityUnresolved = "IDENTITY_UNRESOLVED" // no reliable product identifier

	// ==================== Catalog (CATALOG_) ====================
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartUpdateFailed = "CART_UPDATE_FAILED"

	// ==================== Favorites (FAVORITE_) ====================
	FavoriteUpdateFailed = "FAVORITE_UPDATE_FAILED"

	// ==================== Selection (SELECTION_) ====================
	SelectionNotFound = "SELECTION_NOT_FOUND"

	// ==================== Session (SESSION_) ====================
	SessionMissing = "SESSION_MISSING"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalStorageError  = "INTERNAL_STORAGE_ERROR"
)
