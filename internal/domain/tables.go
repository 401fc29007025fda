package domain

// Tables is the migration set, passed to AutoMigrate at startup.
var Tables = []interface{}{
	&User{},
	&Product{},
	&Cart{},
	&CartItem{},
	&Order{},
	&OrderItem{},
	&SlotReservation{},
	&Review{},
	&WishlistItem{},
	&SysConfig{},
	&SysOprLog{},
}
