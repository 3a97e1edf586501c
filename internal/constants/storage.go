package constants

// Ключи хранилища сессии
const (
	StorageKeyCart     = "cart"
	StorageKeyPhone    = "phone"
	StorageKeyProducts = "products"
)

const (
	DefaultPageSize = 20
	FirstPage       = 1
)
