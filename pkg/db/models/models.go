package models

// All lists every persisted model in foreign key order, parents first. It
// drives sqlite auto-migration and test fixtures.
func All() []any {
	return []any{
		&Artist{},
		&Release{},
		&Product{},
		&ProductImage{},
		&Variant{},
		&Collection{},
		&CollectionProduct{},
		&ProductArtist{},
		&Discount{},
		&Setting{},
		&Order{},
		&OrderItem{},
		&AdminUser{},
		&AdminSession{},
		&Post{},
		&ContactMessage{},
	}
}
